// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/interview-agent/internal/generation"
	"github.com/jonathan/interview-agent/internal/plan"
	"github.com/jonathan/interview-agent/internal/rubric"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintPostingReport outputs a human-readable summary of a generation run.
func (p *Printer) PrintPostingReport(report *generation.PostingReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Posting:  %s\n", report.PostingTitle))
	sb.WriteString(fmt.Sprintf("Status:   %s\n", report.Status))
	if !report.ModelReachable {
		sb.WriteString("Warning:  model did not answer the reachability probe\n")
	}
	sb.WriteString(fmt.Sprintf("Duration: %s\n", report.FinishedAt.Sub(report.StartedAt).Round(1e8)))
	sb.WriteString("\n")

	for _, role := range report.Roles {
		sb.WriteString(fmt.Sprintf("%s  [%s]\n", role.RoleName, role.TierName))
		sb.WriteString(fmt.Sprintf("  status: %s", role.Status))
		if role.TotalSlots > 0 {
			sb.WriteString(fmt.Sprintf("  slots: %d", role.TotalSlots))
		}
		if role.FailedSlots > 0 {
			sb.WriteString(fmt.Sprintf("  degraded: %d", role.FailedSlots))
		}
		sb.WriteString("\n")
		if role.Error != "" {
			sb.WriteString(fmt.Sprintf("  error: %s\n", role.Error))
		}
	}

	p.printBox("GENERATION REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRolePlan outputs the projected question plan for one role.
func (p *Printer) PrintRolePlan(roleName string, tier rubric.Tier, rolePlan plan.RolePlan) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Role:       %s\n", roleName))
	sb.WriteString(fmt.Sprintf("Tier:       %s (%s)\n", tier.Name, tier.Experience))
	sb.WriteString(fmt.Sprintf("Focus:      %s\n", tier.FocusLine()))
	sb.WriteString(fmt.Sprintf("Candidates: %d\n", rolePlan.CandidateCount))
	sb.WriteString("\n")

	for _, cp := range rolePlan.Categories {
		marker := ""
		if cp.FromOverride {
			marker = " (override)"
		}
		sb.WriteString(fmt.Sprintf("  %-28s %4d%s\n", cp.Category.Code, cp.Count, marker))
	}
	sb.WriteString(fmt.Sprintf("\n  total: %d", rolePlan.TotalQuestions()))

	p.printBox("QUESTION PLAN", sb.String())
}
