package prompts

import (
	"strconv"

	"github.com/jonathan/interview-agent/internal/plan"
	"github.com/jonathan/interview-agent/internal/rubric"
)

// generationFile is the embedded template file driving slot generation.
const generationFile = "generation.json"

// JobContext carries the posting and role attributes woven into every slot
// prompt.
type JobContext struct {
	PostingTitle        string
	GeneralRequirements string
	RoleName            string
	Multiplier          float64
	PositionCount       int
	SpecialRequirements string
}

// SystemInstruction returns the fixed system instruction sent with every
// generation request.
func SystemInstruction() string {
	return MustGet(generationFile, "system-instruction")
}

// BuildSlotPrompt renders the user instruction for one question slot.
// Slot indices are 1-based within their category; the distinct-sub-topic
// requirement is a prompt-level constraint, not enforced in code.
func BuildSlotPrompt(job JobContext, tier rubric.Tier, category plan.Category, slot, total int) string {
	template := MustGet(generationFile, "slot-question")

	requirements := job.GeneralRequirements
	if requirements == "" {
		requirements = "Not specified"
	}
	special := job.SpecialRequirements
	if special == "" {
		special = "Not specified"
	}

	w := tier.Weights
	return Format(template, map[string]string{
		"PostingTitle":        job.PostingTitle,
		"GeneralRequirements": requirements,
		"RoleName":            job.RoleName,
		"Multiplier":          strconv.FormatFloat(job.Multiplier, 'f', -1, 64),
		"PositionCount":       strconv.Itoa(job.PositionCount),
		"SpecialRequirements": special,
		"TierName":            tier.Name,
		"TierExperience":      tier.Experience,
		"DifficultyLabel":     tier.DifficultyLabel(),
		"CategoryName":        category.Name,
		"SlotIndex":           strconv.Itoa(slot),
		"SlotTotal":           strconv.Itoa(total),
		"K1":                  strconv.Itoa(w.K1),
		"K2":                  strconv.Itoa(w.K2),
		"K3":                  strconv.Itoa(w.K3),
		"K4":                  strconv.Itoa(w.K4),
		"K5":                  strconv.Itoa(w.K5),
	})
}
