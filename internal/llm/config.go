// Package llm provides the model client abstraction and the tiered model
// configuration that maps question difficulty bands onto concrete models.
package llm

// ModelTier represents the capability level asked of the model. Which tier a
// question slot uses follows the role's difficulty band, not the caller's
// choice of provider.
type ModelTier string

const (
	// TierLite is for junior-band questions: recall and applied-knowledge prompts
	TierLite ModelTier = "lite"
	// TierStandard is for senior-band questions: troubleshooting and analysis prompts
	TierStandard ModelTier = "standard"
	// TierAdvanced is for lead/enterprise bands: design and strategy prompts
	TierAdvanced ModelTier = "advanced"
)

// tierFallback is the lookup order when a tier has no model configured:
// degrade toward cheaper models rather than failing the slot.
var tierFallback = []ModelTier{TierStandard, TierLite}

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI provider (future)
	ProviderOpenAI Provider = "openai"
	// ProviderAnthropic is the Anthropic/Claude provider (future)
	ProviderAnthropic Provider = "anthropic"
)

// Config holds the per-tier model assignment for one provider.
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel returns the model name for a tier, walking the fallback order
// when the tier itself is unassigned. An empty string means no model is
// configured at all.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	for _, fallback := range tierFallback {
		if model, ok := c.Models[fallback]; ok {
			return model
		}
	}
	return ""
}

// WithModel returns a copy of the config with one tier reassigned. The
// receiver is left untouched so callers can layer overrides on the defaults.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	reassigned := &Config{
		Provider: c.Provider,
		Models:   make(map[ModelTier]string, len(c.Models)+1),
	}
	for k, v := range c.Models {
		reassigned.Models[k] = v
	}
	reassigned.Models[tier] = model
	return reassigned
}
