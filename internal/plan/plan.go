// Package plan derives per-role, per-category question counts from the
// layered configuration model: global plan settings, sparse per-role
// overrides, and role sizing.
package plan

// DefaultCategoryWeight is used when the global weight mapping has no entry
// for a category code or the stored mapping could not be decoded.
const DefaultCategoryWeight = 1

// DefaultDifficultyLabel is recorded when no override supplies one.
const DefaultDifficultyLabel = "medium"

// Category is one entry of the active, ordered category catalog.
type Category struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// RoleSizing carries the role attributes the calculator needs.
type RoleSizing struct {
	PositionCount int
	Multiplier    float64
}

// GlobalPlan carries the posting-wide plan settings.
type GlobalPlan struct {
	CandidateMultiplier   int
	QuestionsPerCandidate int
	// CategoryWeights maps category code to questions-per-candidate weight.
	// A nil map means the stored mapping was absent or malformed; every
	// lookup then falls back to DefaultCategoryWeight.
	CategoryWeights map[string]int
}

// Override is a persisted per-(role, category) question count that wins
// unconditionally over the derived default until explicitly cleared.
type Override struct {
	Count           int
	DifficultyLabel string
}

// CategoryPlan is the resolved slot count for one category of one role.
type CategoryPlan struct {
	Category        Category `json:"category"`
	Count           int      `json:"count"`
	DifficultyLabel string   `json:"difficulty_label"`
	FromOverride    bool     `json:"from_override"`
}

// RolePlan is the full projection for one role, in catalog order.
type RolePlan struct {
	CandidateCount int            `json:"candidate_count"`
	Categories     []CategoryPlan `json:"categories"`
}

// TotalQuestions returns the sum of slot counts across all categories.
func (p RolePlan) TotalQuestions() int {
	total := 0
	for _, c := range p.Categories {
		total += c.Count
	}
	return total
}

// Calculate resolves the question count for every active category of a role.
// It is a pure projection: overrides win unconditionally; otherwise
// count = positionCount * candidateMultiplier * categoryWeight, with the
// weight defaulting to DefaultCategoryWeight when the mapping has no entry.
func Calculate(role RoleSizing, cfg GlobalPlan, overrides map[string]Override, categories []Category) RolePlan {
	candidateCount := role.PositionCount * cfg.CandidateMultiplier

	result := RolePlan{
		CandidateCount: candidateCount,
		Categories:     make([]CategoryPlan, 0, len(categories)),
	}

	for _, cat := range categories {
		if ov, ok := overrides[cat.Code]; ok {
			label := ov.DifficultyLabel
			if label == "" {
				label = DefaultDifficultyLabel
			}
			result.Categories = append(result.Categories, CategoryPlan{
				Category:        cat,
				Count:           ov.Count,
				DifficultyLabel: label,
				FromOverride:    true,
			})
			continue
		}

		weight, ok := cfg.CategoryWeights[cat.Code]
		if !ok {
			weight = DefaultCategoryWeight
		}

		count := candidateCount * weight
		if count < 0 {
			count = 0
		}

		result.Categories = append(result.Categories, CategoryPlan{
			Category:        cat,
			Count:           count,
			DifficultyLabel: DefaultDifficultyLabel,
		})
	}

	return result
}
