// Package generation provides the high-level orchestration for producing
// interview question batches: plan projection, prompt assembly, model calls,
// response repair, and atomic persistence.
package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/interview-agent/internal/db"
	"github.com/jonathan/interview-agent/internal/llm"
	"github.com/jonathan/interview-agent/internal/plan"
	"github.com/jonathan/interview-agent/internal/prompts"
	"github.com/jonathan/interview-agent/internal/repair"
	"github.com/jonathan/interview-agent/internal/rubric"
)

// Status is the lifecycle state of one role's generation batch.
type Status string

const (
	StatusPending            Status = "pending"
	StatusInProgress         Status = "in_progress"
	StatusCompleted          Status = "completed"
	StatusPartiallyCompleted Status = "partially_completed"
	StatusFailed             Status = "failed"
)

var (
	// ErrPostingNotFound is returned when the requested posting does not exist.
	ErrPostingNotFound = errors.New("posting not found")
	// ErrNoRoles is returned when a posting has no roles to generate for.
	ErrNoRoles = errors.New("posting has no roles")
	// ErrNoCategories is returned when no active question categories exist.
	ErrNoCategories = errors.New("no active question categories")
)

// Store is the persistence surface the orchestrator needs.
type Store interface {
	GetPosting(ctx context.Context, id uuid.UUID) (*db.Posting, error)
	ListRolesByPosting(ctx context.Context, postingID uuid.UUID) ([]db.Role, error)
	ListActiveCategories(ctx context.Context) ([]db.QuestionCategory, error)
	GetOrCreatePlanConfig(ctx context.Context, postingID uuid.UUID) (*db.GlobalPlanConfig, error)
	ListOverridesByRole(ctx context.Context, roleID uuid.UUID) ([]db.RoleQuestionConfig, error)
	InsertQuestionBatch(ctx context.Context, inputs []db.QuestionCreateInput) error
	InsertGenerationRecord(ctx context.Context, input db.GenerationRecordInput) error
}

// ProgressEvent represents a progress update during batch generation.
type ProgressEvent struct {
	Stage    string `json:"stage"`
	RoleName string `json:"role_name,omitempty"`
	Category string `json:"category,omitempty"`
	Slot     int    `json:"slot,omitempty"`
	Total    int    `json:"total,omitempty"`
	Message  string `json:"message"`
}

// ProgressCallback is called when generation progress occurs.
type ProgressCallback func(event ProgressEvent)

// Orchestrator drives question generation for a posting's roles.
type Orchestrator struct {
	store      Store
	client     llm.Client
	now        func() time.Time
	OnProgress ProgressCallback
}

// New builds an orchestrator over the given store and model client.
func New(store Store, client llm.Client) *Orchestrator {
	return &Orchestrator{
		store:  store,
		client: client,
		now:    time.Now,
	}
}

// RoleReport summarizes the outcome of one role's batch.
type RoleReport struct {
	RoleID          uuid.UUID     `json:"role_id"`
	RoleName        string        `json:"role_name"`
	TierName        string        `json:"tier_name"`
	DifficultyLabel string        `json:"difficulty_label"`
	Status          Status        `json:"status"`
	TotalSlots      int           `json:"total_slots"`
	FailedSlots     int           `json:"failed_slots"`
	Questions       []db.Question `json:"questions,omitempty"`
	Error           string        `json:"error,omitempty"`
}

// PostingReport summarizes a full generation run across a posting's roles.
type PostingReport struct {
	PostingID      uuid.UUID    `json:"posting_id"`
	PostingTitle   string       `json:"posting_title"`
	ModelReachable bool         `json:"model_reachable"`
	Status         Status       `json:"status"`
	Roles          []RoleReport `json:"roles"`
	StartedAt      time.Time    `json:"started_at"`
	FinishedAt     time.Time    `json:"finished_at"`
}

func (o *Orchestrator) emit(event ProgressEvent) {
	if o.OnProgress != nil {
		o.OnProgress(event)
	}
}

// modelTierFor maps a question difficulty band to a model capability tier:
// entry-band questions need no frontier model, top bands do.
func modelTierFor(tier rubric.Tier) llm.ModelTier {
	switch tier.ID {
	case rubric.Tier2x:
		return llm.TierLite
	case rubric.Tier3x:
		return llm.TierStandard
	default:
		return llm.TierAdvanced
	}
}

// GeneratePosting runs question generation for every role of a posting.
// Roles run one after another, accumulating questions in memory; the whole
// run persists in a single transaction at the end, so a persistence failure
// leaves no role's questions partially visible.
func (o *Orchestrator) GeneratePosting(ctx context.Context, postingID uuid.UUID) (*PostingReport, error) {
	posting, err := o.store.GetPosting(ctx, postingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load posting: %w", err)
	}
	if posting == nil {
		return nil, ErrPostingNotFound
	}

	roles, err := o.store.ListRolesByPosting(ctx, postingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}
	if len(roles) == 0 {
		return nil, ErrNoRoles
	}

	categories, err := o.store.ListActiveCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	if len(categories) == 0 {
		return nil, ErrNoCategories
	}

	cfg, err := o.store.GetOrCreatePlanConfig(ctx, postingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan config: %w", err)
	}

	report := &PostingReport{
		PostingID:    posting.ID,
		PostingTitle: posting.Title,
		StartedAt:    o.now(),
	}

	report.ModelReachable = o.client.Ping(ctx) == nil
	o.emit(ProgressEvent{Stage: "start", Total: len(roles),
		Message: fmt.Sprintf("Generating questions for %d role(s)", len(roles))})

	var batch []db.QuestionCreateInput
	for _, role := range roles {
		roleReport, questions := o.generateRole(ctx, posting, role, cfg, categories)
		report.Roles = append(report.Roles, roleReport)
		batch = append(batch, questions...)
	}

	if len(batch) > 0 {
		if err := o.store.InsertQuestionBatch(ctx, batch); err != nil {
			// The transaction rolled back: no question from this run is visible.
			msg := fmt.Sprintf("failed to persist question batch: %v", err)
			for i := range report.Roles {
				report.Roles[i].Status = StatusFailed
				if report.Roles[i].Error == "" {
					report.Roles[i].Error = msg
				}
			}
			report.Status = StatusFailed
			report.FinishedAt = o.now()
			o.emit(ProgressEvent{Stage: "done", Message: msg})
			return report, nil
		}
	}

	report.Status = overallStatus(report.Roles)
	report.FinishedAt = o.now()
	o.emit(ProgressEvent{Stage: "done", Message: fmt.Sprintf("Generation %s", report.Status)})
	return report, nil
}

func overallStatus(roles []RoleReport) Status {
	completed, failed := 0, 0
	for _, r := range roles {
		switch r.Status {
		case StatusCompleted:
			completed++
		case StatusFailed:
			failed++
		}
	}
	switch {
	case failed == len(roles):
		return StatusFailed
	case completed == len(roles):
		return StatusCompleted
	default:
		return StatusPartiallyCompleted
	}
}

// generateRole produces one role's questions in memory; the caller persists
// them together with every other role's. Slots run strictly in order; a
// failed slot records a degraded placeholder and the loop continues.
func (o *Orchestrator) generateRole(ctx context.Context, posting *db.Posting, role db.Role, cfg *db.GlobalPlanConfig, categories []db.QuestionCategory) (RoleReport, []db.QuestionCreateInput) {
	tier := rubric.Resolve(role.Multiplier)

	report := RoleReport{
		RoleID:          role.ID,
		RoleName:        role.Name,
		TierName:        tier.Name,
		DifficultyLabel: tier.DifficultyLabel(),
		Status:          StatusPending,
	}

	rolePlan, err := o.planForRole(ctx, role, cfg, categories)
	if err != nil {
		report.Status = StatusFailed
		report.Error = err.Error()
		return report, nil
	}
	report.TotalSlots = rolePlan.TotalQuestions()
	if report.TotalSlots == 0 {
		report.Status = StatusCompleted
		return report, nil
	}

	report.Status = StatusInProgress
	o.emit(ProgressEvent{Stage: "role", RoleName: role.Name, Total: report.TotalSlots,
		Message: fmt.Sprintf("Role %q resolved to tier %s", role.Name, tier.Name)})

	job := prompts.JobContext{
		PostingTitle:        posting.Title,
		GeneralRequirements: posting.GeneralRequirements,
		RoleName:            role.Name,
		Multiplier:          role.Multiplier,
		PositionCount:       role.PositionCount,
		SpecialRequirements: role.SpecialRequirements,
	}
	model := o.client.GetModel(modelTierFor(tier))

	var batch []db.QuestionCreateInput
	for _, catPlan := range rolePlan.Categories {
		label := catPlan.DifficultyLabel
		if !catPlan.FromOverride {
			label = tier.DifficultyLabel()
		}

		for slot := 1; slot <= catPlan.Count; slot++ {
			o.emit(ProgressEvent{Stage: "slot", RoleName: role.Name, Category: catPlan.Category.Code,
				Slot: slot, Total: catPlan.Count,
				Message: fmt.Sprintf("Generating %s question %d/%d", catPlan.Category.Code, slot, catPlan.Count)})

			question, failed := o.generateSlot(ctx, posting, role, job, tier, catPlan, label, model, slot)
			if failed {
				report.FailedSlots++
			}
			batch = append(batch, question)
		}
	}

	if report.FailedSlots == 0 {
		report.Status = StatusCompleted
	} else {
		report.Status = StatusPartiallyCompleted
	}
	return report, batch
}

func (o *Orchestrator) planForRole(ctx context.Context, role db.Role, cfg *db.GlobalPlanConfig, categories []db.QuestionCategory) (plan.RolePlan, error) {
	overrides, err := o.store.ListOverridesByRole(ctx, role.ID)
	if err != nil {
		return plan.RolePlan{}, fmt.Errorf("failed to load overrides: %w", err)
	}

	overrideMap := make(map[string]plan.Override, len(overrides))
	for _, ov := range overrides {
		overrideMap[ov.CategoryCode] = plan.Override{
			Count:           ov.QuestionCount,
			DifficultyLabel: ov.DifficultyLabel,
		}
	}

	planCategories := make([]plan.Category, 0, len(categories))
	for _, c := range categories {
		planCategories = append(planCategories, plan.Category{Code: c.Code, Name: c.Name})
	}

	return plan.Calculate(
		plan.RoleSizing{PositionCount: role.PositionCount, Multiplier: role.Multiplier},
		plan.GlobalPlan{
			CandidateMultiplier:   cfg.CandidateMultiplier,
			QuestionsPerCandidate: cfg.QuestionsPerCandidate,
			CategoryWeights:       cfg.CategoryWeights,
		},
		overrideMap, planCategories), nil
}

// generateSlot runs one model call and turns the outcome into a question row.
// It never returns an error: a failed call yields a degraded placeholder so
// the batch keeps its planned shape.
func (o *Orchestrator) generateSlot(ctx context.Context, posting *db.Posting, role db.Role, job prompts.JobContext, tier rubric.Tier, catPlan plan.CategoryPlan, label, model string, slot int) (db.QuestionCreateInput, bool) {
	prompt := prompts.BuildSlotPrompt(job, tier, catPlan.Category, slot, catPlan.Count)

	started := o.now()
	raw, err := o.client.Generate(ctx, llm.Request{Model: model, System: prompts.SystemInstruction(), User: prompt})
	elapsed := o.now().Sub(started).Milliseconds()

	record := db.GenerationRecordInput{
		PostingID:    posting.ID,
		RoleID:       role.ID,
		Model:        model,
		PromptLength: len(prompt),
		DurationMS:   elapsed,
		RawPrompt:    prompt,
	}

	if err != nil {
		record.Outcome = "failure"
		record.ErrorText = err.Error()
		if recErr := o.store.InsertGenerationRecord(ctx, record); recErr != nil {
			o.emit(ProgressEvent{Stage: "warn", RoleName: role.Name,
				Message: fmt.Sprintf("failed to record generation audit row: %v", recErr)})
		}
		return db.QuestionCreateInput{
			RoleID:          role.ID,
			PostingID:       posting.ID,
			CategoryCode:    catPlan.Category.Code,
			QuestionText:    fmt.Sprintf("[generation failed for %s slot %d]", catPlan.Category.Code, slot),
			DifficultyLabel: label,
			Model:           model,
			Degraded:        true,
		}, true
	}

	pair := repair.Repair(raw)
	record.Outcome = "success"
	record.ResponseLength = len(raw)
	record.RawResponse = raw
	if !pair.Parsed {
		// Recovered, not fatal: the plain-text fallback still yields a
		// question, but the audit trail must show the parse gave up.
		record.Outcome = "partial"
		record.ErrorText = "structured parse failed; response kept as plain question text"
	}
	if recErr := o.store.InsertGenerationRecord(ctx, record); recErr != nil {
		o.emit(ProgressEvent{Stage: "warn", RoleName: role.Name,
			Message: fmt.Sprintf("failed to record generation audit row: %v", recErr)})
	}

	return db.QuestionCreateInput{
		RoleID:          role.ID,
		PostingID:       posting.ID,
		CategoryCode:    catPlan.Category.Code,
		QuestionText:    pair.Question,
		ExpectedAnswer:  pair.ExpectedAnswer,
		ScoringNotes:    pair.ScoringNotes,
		DifficultyLabel: label,
		Model:           model,
		Degraded:        false,
	}, false
}
