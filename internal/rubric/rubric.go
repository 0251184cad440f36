// Package rubric maps compensation multipliers onto discrete difficulty
// tiers and their cognitive-layer weight distributions.
package rubric

import "fmt"

// TierID identifies a difficulty tier derived from a compensation multiplier.
type TierID string

// Tier identifiers, ordered from junior to most senior.
const (
	Tier2x TierID = "2x"
	Tier3x TierID = "3x"
	Tier4x TierID = "4x"
	Tier5x TierID = "5x"
)

// Weights holds the percentage distribution across the five cognitive layers.
// K1 is recall/definition, K2 applied/configuration, K3 troubleshooting,
// K4 design/architecture, K5 strategic/leadership. Each tier's weights sum
// to exactly 100.
type Weights struct {
	K1 int `json:"k1_recall"`
	K2 int `json:"k2_applied"`
	K3 int `json:"k3_troubleshooting"`
	K4 int `json:"k4_design"`
	K5 int `json:"k5_strategic"`
}

// Total returns the sum of all five layer weights.
func (w Weights) Total() int {
	return w.K1 + w.K2 + w.K3 + w.K4 + w.K5
}

// Tier describes one seniority band: its identifier, human-readable name,
// expected experience range, and cognitive-layer weight distribution.
type Tier struct {
	ID         TierID  `json:"id"`
	Name       string  `json:"name"`
	Experience string  `json:"experience"`
	Weights    Weights `json:"weights"`
}

// tiers is the canonical weight table. Tiers are modeled as data so tests
// can be table-driven instead of branch-by-branch.
var tiers = []struct {
	upperBound float64 // inclusive; the last entry is unbounded
	tier       Tier
}{
	{2, Tier{
		ID:         Tier2x,
		Name:       "Mid-level practitioner",
		Experience: "2-4 years",
		Weights:    Weights{K1: 30, K2: 40, K3: 25, K4: 5, K5: 0},
	}},
	{3, Tier{
		ID:         Tier3x,
		Name:       "Senior specialist",
		Experience: "5-8 years",
		Weights:    Weights{K1: 15, K2: 25, K3: 35, K4: 20, K5: 5},
	}},
	{4, Tier{
		ID:         Tier4x,
		Name:       "Architect / technical lead",
		Experience: "10+ years",
		Weights:    Weights{K1: 5, K2: 15, K3: 25, K4: 35, K5: 20},
	}},
	{0, Tier{
		ID:         Tier5x,
		Name:       "Enterprise expert",
		Experience: "15+ years",
		Weights:    Weights{K1: 0, K2: 10, K3: 20, K4: 40, K5: 30},
	}},
}

// Resolve returns the tier for a compensation multiplier. Bands are
// (-inf,2], (2,3], (3,4], (4,inf); a multiplier exactly on a boundary
// belongs to the lower band. Resolve is deterministic and total.
func Resolve(multiplier float64) Tier {
	for _, entry := range tiers[:len(tiers)-1] {
		if multiplier <= entry.upperBound {
			return entry.tier
		}
	}
	return tiers[len(tiers)-1].tier
}

// AllTiers returns every tier in band order, for display and testing.
func AllTiers() []Tier {
	out := make([]Tier, 0, len(tiers))
	for _, entry := range tiers {
		out = append(out, entry.tier)
	}
	return out
}

// DifficultyLabel returns the difficulty label recorded on questions and
// per-role overrides generated under this tier.
func (t Tier) DifficultyLabel() string {
	switch t.ID {
	case Tier2x:
		return "medium"
	case Tier3x:
		return "hard"
	case Tier4x:
		return "expert"
	case Tier5x:
		return "expert"
	default:
		return "medium"
	}
}

// FocusLine renders the weight distribution as a compact summary line for
// prompts and reports, e.g. "K1: 30% / K2: 40% / K3: 25% / K4: 5% / K5: 0%".
func (t Tier) FocusLine() string {
	w := t.Weights
	return fmt.Sprintf("K1: %d%% / K2: %d%% / K3: %d%% / K4: %d%% / K5: %d%%",
		w.K1, w.K2, w.K3, w.K4, w.K5)
}
