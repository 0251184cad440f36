package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/interview-agent/internal/generation"
	"github.com/jonathan/interview-agent/internal/plan"
	"github.com/jonathan/interview-agent/internal/rubric"
)

func TestPrintPostingReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintPostingReport(&generation.PostingReport{
		PostingID:      uuid.New(),
		PostingTitle:   "Platform Team Hiring",
		Status:         generation.StatusPartiallyCompleted,
		ModelReachable: true,
		Roles: []generation.RoleReport{
			{RoleName: "Backend Engineer", TierName: "Senior", Status: generation.StatusPartiallyCompleted, TotalSlots: 40, FailedSlots: 3},
			{RoleName: "SRE", TierName: "Lead", Status: generation.StatusCompleted, TotalSlots: 20},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "GENERATION REPORT")
	assert.Contains(t, out, "Platform Team Hiring")
	assert.Contains(t, out, "Backend Engineer")
	assert.Contains(t, out, "degraded: 3")
	assert.Contains(t, out, "┌")
	assert.Contains(t, out, "└")
}

func TestPrintPostingReportNilIsNoop(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintPostingReport(nil)
	assert.Empty(t, buf.String())
}

func TestPrintRolePlan(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	tier := rubric.Resolve(3.0)
	p.PrintRolePlan("Backend Engineer", tier, plan.RolePlan{
		CandidateCount: 20,
		Categories: []plan.CategoryPlan{
			{Category: plan.Category{Code: "theoretical_knowledge"}, Count: 40},
			{Category: plan.Category{Code: "practical_application"}, Count: 7, FromOverride: true},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "QUESTION PLAN")
	assert.Contains(t, out, "theoretical_knowledge")
	assert.Contains(t, out, "(override)")
	assert.Contains(t, out, "total: 47")
}

func TestLongLinesAreTruncated(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintPostingReport(&generation.PostingReport{
		PostingTitle:   strings.Repeat("x", 200),
		ModelReachable: true,
	})

	for _, line := range strings.Split(buf.String(), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
}
