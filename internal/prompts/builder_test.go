package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-agent/internal/plan"
	"github.com/jonathan/interview-agent/internal/rubric"
)

func testJobContext() JobContext {
	return JobContext{
		PostingTitle:        "Contracted IT Personnel Hiring 2026",
		GeneralRequirements: "Bachelor's degree in a related field",
		RoleName:            "Backend Developer",
		Multiplier:          3,
		PositionCount:       2,
		SpecialRequirements: "Go, PostgreSQL, Kubernetes, REST APIs",
	}
}

func TestBuildSlotPrompt_ContainsJobContext(t *testing.T) {
	tier := rubric.Resolve(3)
	category := plan.Category{Code: "theoretical_knowledge", Name: "Theoretical Knowledge"}

	prompt := BuildSlotPrompt(testJobContext(), tier, category, 2, 10)

	assert.Contains(t, prompt, "Contracted IT Personnel Hiring 2026")
	assert.Contains(t, prompt, "Backend Developer")
	assert.Contains(t, prompt, "3x")
	assert.Contains(t, prompt, "Go, PostgreSQL, Kubernetes, REST APIs")
	assert.Contains(t, prompt, `question 2 of 10 in the "Theoretical Knowledge" category`)
}

func TestBuildSlotPrompt_ContainsTierWeights(t *testing.T) {
	tier := rubric.Resolve(3)
	category := plan.Category{Code: "practical_application", Name: "Practical Application"}

	prompt := BuildSlotPrompt(testJobContext(), tier, category, 1, 5)

	w := tier.Weights
	assert.Contains(t, prompt, "Recall (15%)")
	assert.Contains(t, prompt, "Applied (25%)")
	assert.Contains(t, prompt, "Troubleshooting (35%)")
	assert.Contains(t, prompt, "Design (20%)")
	assert.Contains(t, prompt, "Strategic (5%)")
	require.Equal(t, 100, w.Total())
}

func TestBuildSlotPrompt_StructuralContract(t *testing.T) {
	prompt := BuildSlotPrompt(testJobContext(), rubric.Resolve(2),
		plan.Category{Code: "professional_experience", Name: "Professional Experience"}, 1, 1)

	// Exactly-two-field JSON contract and the keyword-line rule.
	assert.Contains(t, prompt, `"question"`)
	assert.Contains(t, prompt, `"expected_answer"`)
	assert.Contains(t, prompt, "4-5 comma-separated keywords")
	assert.Contains(t, prompt, "keyword line belongs inside expected_answer")
}

func TestBuildSlotPrompt_NoCodeRule(t *testing.T) {
	prompt := BuildSlotPrompt(testJobContext(), rubric.Resolve(4),
		plan.Category{Code: "practical_application", Name: "Practical Application"}, 3, 4)

	assert.Contains(t, prompt, "Writing code is strictly forbidden")
}

func TestBuildSlotPrompt_EmptyRequirementsPlaceholder(t *testing.T) {
	job := testJobContext()
	job.GeneralRequirements = ""
	job.SpecialRequirements = ""

	prompt := BuildSlotPrompt(job, rubric.Resolve(2),
		plan.Category{Code: "professional_experience", Name: "Professional Experience"}, 1, 1)

	assert.Contains(t, prompt, "Not specified")
	assert.NotContains(t, prompt, "{{.")
}

func TestSystemInstruction(t *testing.T) {
	system := SystemInstruction()

	assert.Contains(t, system, "strictly forbidden")
	assert.Contains(t, system, "JSON")
	assert.NotContains(t, system, "{{.")
}
