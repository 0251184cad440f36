// Package main provides the entry point for the Interview Agent CLI and
// HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/interview-agent/internal/config"
	"github.com/jonathan/interview-agent/internal/llm"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "interview_agent",
	Short: "Interview Agent HTTP API Server",
	Long:  "Interview Agent plans and generates tiered technical interview questions for job postings via an LLM, exposed through a REST API and CLI.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig merges the optional config file with environment fallbacks.
func loadConfig() (config.Config, error) {
	cfg := config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = *loaded
	}

	cfg = cfg.FromEnv()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// modelConfig applies per-tier model overrides onto the provider defaults.
func modelConfig(cfg config.Config) *llm.Config {
	mc := llm.DefaultGeminiConfig()
	if cfg.ModelLite != "" {
		mc = mc.WithModel(llm.TierLite, cfg.ModelLite)
	}
	if cfg.ModelStandard != "" {
		mc = mc.WithModel(llm.TierStandard, cfg.ModelStandard)
	}
	if cfg.ModelAdvanced != "" {
		mc = mc.WithModel(llm.TierAdvanced, cfg.ModelAdvanced)
	}
	return mc
}
