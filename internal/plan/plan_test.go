package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCategories = []Category{
	{Code: "professional_experience", Name: "Professional Experience"},
	{Code: "theoretical_knowledge", Name: "Theoretical Knowledge"},
	{Code: "practical_application", Name: "Practical Application"},
}

func TestCalculate_DerivedCounts(t *testing.T) {
	role := RoleSizing{PositionCount: 5, Multiplier: 3}
	cfg := GlobalPlan{
		CandidateMultiplier: 10,
		CategoryWeights: map[string]int{
			"professional_experience": 2,
			"theoretical_knowledge":   1,
		},
	}

	result := Calculate(role, cfg, nil, testCategories)

	require.Len(t, result.Categories, 3)
	assert.Equal(t, 50, result.CandidateCount)
	// position_count * candidate_multiplier * weight
	assert.Equal(t, 100, result.Categories[0].Count)
	assert.Equal(t, 50, result.Categories[1].Count)
	// missing weight defaults to 1
	assert.Equal(t, 50, result.Categories[2].Count)
	assert.Equal(t, 200, result.TotalQuestions())
}

func TestCalculate_OverrideWinsUnconditionally(t *testing.T) {
	role := RoleSizing{PositionCount: 5, Multiplier: 2}
	cfg := GlobalPlan{
		CandidateMultiplier: 10,
		CategoryWeights:     map[string]int{"theoretical_knowledge": 4},
	}
	overrides := map[string]Override{
		"theoretical_knowledge": {Count: 7, DifficultyLabel: "hard"},
	}

	result := Calculate(role, cfg, overrides, testCategories)

	tk := result.Categories[1]
	assert.Equal(t, 7, tk.Count, "override count must win over derived 200")
	assert.True(t, tk.FromOverride)
	assert.Equal(t, "hard", tk.DifficultyLabel)

	// Non-overridden categories still derive from globals.
	assert.Equal(t, 50, result.Categories[0].Count)
	assert.False(t, result.Categories[0].FromOverride)
	assert.Equal(t, DefaultDifficultyLabel, result.Categories[0].DifficultyLabel)
}

func TestCalculate_OverrideWithoutLabelGetsDefault(t *testing.T) {
	result := Calculate(
		RoleSizing{PositionCount: 1},
		GlobalPlan{CandidateMultiplier: 1},
		map[string]Override{"professional_experience": {Count: 3}},
		testCategories[:1],
	)
	assert.Equal(t, DefaultDifficultyLabel, result.Categories[0].DifficultyLabel)
}

func TestCalculate_MalformedWeightMapping(t *testing.T) {
	// A nil weight map models a stored mapping that failed to decode;
	// every category falls back to weight 1.
	role := RoleSizing{PositionCount: 2, Multiplier: 2}
	cfg := GlobalPlan{CandidateMultiplier: 5, CategoryWeights: nil}

	result := Calculate(role, cfg, nil, testCategories)
	for _, c := range result.Categories {
		assert.Equal(t, 10, c.Count, "category %s", c.Category.Code)
	}
}

func TestCalculate_ZeroAndNegativeWeights(t *testing.T) {
	role := RoleSizing{PositionCount: 3, Multiplier: 2}
	cfg := GlobalPlan{
		CandidateMultiplier: 10,
		CategoryWeights: map[string]int{
			"professional_experience": 0,
			"theoretical_knowledge":   -2,
		},
	}

	result := Calculate(role, cfg, nil, testCategories)
	assert.Equal(t, 0, result.Categories[0].Count, "explicit zero weight means no slots")
	assert.Equal(t, 0, result.Categories[1].Count, "negative weight never requests work")
}

func TestCalculate_EmptyCatalog(t *testing.T) {
	result := Calculate(RoleSizing{PositionCount: 4}, GlobalPlan{CandidateMultiplier: 10}, nil, nil)
	assert.Empty(t, result.Categories)
	assert.Equal(t, 40, result.CandidateCount)
	assert.Equal(t, 0, result.TotalQuestions())
}

func TestCalculate_CatalogOrderPreserved(t *testing.T) {
	result := Calculate(RoleSizing{PositionCount: 1}, GlobalPlan{CandidateMultiplier: 1}, nil, testCategories)
	require.Len(t, result.Categories, 3)
	for i, c := range result.Categories {
		assert.Equal(t, testCategories[i].Code, c.Category.Code)
	}
}
