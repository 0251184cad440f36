package db

import (
	"time"

	"github.com/google/uuid"
)

// Posting is a job posting that roles and generated questions hang off of.
// Body holds the announcement's free text; only the general requirements
// feed prompt assembly.
type Posting struct {
	ID                  uuid.UUID `json:"id"`
	Title               string    `json:"title"`
	Body                string    `json:"body"`
	GeneralRequirements string    `json:"general_requirements"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// PostingCreateInput carries the fields needed to create a posting.
type PostingCreateInput struct {
	Title               string
	Body                string
	GeneralRequirements string
}

// Role is a position within a posting. Multiplier is the compensation
// multiplier used to resolve the difficulty tier; PositionCount scales the
// per-category question counts.
type Role struct {
	ID                  uuid.UUID `json:"id"`
	PostingID           uuid.UUID `json:"posting_id"`
	Name                string    `json:"name"`
	Multiplier          float64   `json:"multiplier"`
	PositionCount       int       `json:"position_count"`
	SpecialRequirements string    `json:"special_requirements"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// RoleCreateInput carries the fields needed to create a role.
type RoleCreateInput struct {
	PostingID           uuid.UUID
	Name                string
	Multiplier          float64
	PositionCount       int
	SpecialRequirements string
}

// RoleUpdateInput carries partial updates to a role. Nil fields are left
// untouched.
type RoleUpdateInput struct {
	Name                *string
	Multiplier          *float64
	PositionCount       *int
	SpecialRequirements *string
}

// QuestionCategory is a question category (e.g. theoretical_knowledge).
// Inactive categories are retained for referential integrity but excluded
// from planning.
type QuestionCategory struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OrderIndex  int       `json:"order_index"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryCreateInput carries the fields needed to create a category.
type CategoryCreateInput struct {
	Code        string
	Name        string
	Description string
	OrderIndex  int
}

// GlobalPlanConfig is the posting-scoped generation baseline. CategoryWeights
// maps category code to an integer weight; a nil map means the stored JSON
// was absent or malformed and callers should fall back to default weights.
type GlobalPlanConfig struct {
	ID                    uuid.UUID      `json:"id"`
	PostingID             uuid.UUID      `json:"posting_id"`
	CandidateMultiplier   int            `json:"candidate_multiplier"`
	QuestionsPerCandidate int            `json:"questions_per_candidate"`
	CategoryWeights       map[string]int `json:"category_weights"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
}

// PlanConfigInput carries the fields for replacing a posting's plan config.
type PlanConfigInput struct {
	CandidateMultiplier   int
	QuestionsPerCandidate int
	CategoryWeights       map[string]int
}

// RoleQuestionConfig is a per-role, per-category override of the computed
// plan. An override wins over the weight-derived count unconditionally.
type RoleQuestionConfig struct {
	ID              uuid.UUID `json:"id"`
	RoleID          uuid.UUID `json:"role_id"`
	CategoryID      uuid.UUID `json:"category_id"`
	CategoryCode    string    `json:"category_code"`
	QuestionCount   int       `json:"question_count"`
	DifficultyLabel string    `json:"difficulty_label"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// OverrideInput carries the fields for upserting a role question override.
type OverrideInput struct {
	RoleID          uuid.UUID
	CategoryCode    string
	QuestionCount   int
	DifficultyLabel string
}

// Question is a persisted interview question. Degraded marks placeholder
// entries recorded for slots whose generation failed. ScoringNotes holds the
// jury-facing evaluation criteria when the model supplied them.
type Question struct {
	ID              uuid.UUID `json:"id"`
	RoleID          uuid.UUID `json:"role_id"`
	PostingID       uuid.UUID `json:"posting_id"`
	CategoryCode    string    `json:"category_code"`
	QuestionText    string    `json:"question_text"`
	ExpectedAnswer  string    `json:"expected_answer"`
	ScoringNotes    string    `json:"scoring_notes"`
	DifficultyLabel string    `json:"difficulty_label"`
	Model           string    `json:"model"`
	Degraded        bool      `json:"degraded"`
	CreatedAt       time.Time `json:"created_at"`
}

// QuestionCreateInput carries the fields for one question row in a batch.
type QuestionCreateInput struct {
	RoleID          uuid.UUID
	PostingID       uuid.UUID
	CategoryCode    string
	QuestionText    string
	ExpectedAnswer  string
	ScoringNotes    string
	DifficultyLabel string
	Model           string
	Degraded        bool
}

// GenerationRecord is an append-only audit row for a single model call.
type GenerationRecord struct {
	ID             uuid.UUID `json:"id"`
	PostingID      uuid.UUID `json:"posting_id"`
	RoleID         uuid.UUID `json:"role_id"`
	Model          string    `json:"model"`
	PromptLength   int       `json:"prompt_length"`
	ResponseLength int       `json:"response_length"`
	DurationMS     int64     `json:"duration_ms"`
	Outcome        string    `json:"outcome"`
	ErrorText      string    `json:"error_text"`
	RawPrompt      string    `json:"raw_prompt"`
	RawResponse    string    `json:"raw_response"`
	CreatedAt      time.Time `json:"created_at"`
}

// GenerationRecordInput carries the fields for one audit row.
type GenerationRecordInput struct {
	PostingID      uuid.UUID
	RoleID         uuid.UUID
	Model          string
	PromptLength   int
	ResponseLength int
	DurationMS     int64
	Outcome        string
	ErrorText      string
	RawPrompt      string
	RawResponse    string
}
