package server

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CreatePostingRequest represents the request to create a posting.
type CreatePostingRequest struct {
	Title               string `json:"title" validate:"required,min=1,max=300"`
	Body                string `json:"body,omitempty"`
	GeneralRequirements string `json:"general_requirements,omitempty"`
}

// CreateRoleRequest represents the request to add a role to a posting.
type CreateRoleRequest struct {
	Name                string  `json:"name" validate:"required,min=1,max=200"`
	Multiplier          float64 `json:"multiplier" validate:"required,gt=0"`
	PositionCount       int     `json:"position_count" validate:"required,gte=1"`
	SpecialRequirements string  `json:"special_requirements,omitempty"`
}

// UpdateRoleRequest represents a partial role update.
type UpdateRoleRequest struct {
	Name                *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Multiplier          *float64 `json:"multiplier,omitempty" validate:"omitempty,gt=0"`
	PositionCount       *int     `json:"position_count,omitempty" validate:"omitempty,gte=1"`
	SpecialRequirements *string  `json:"special_requirements,omitempty"`
}

// CreateCategoryRequest represents the request to create a question category.
type CreateCategoryRequest struct {
	Code        string `json:"code" validate:"required,min=1,max=100"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description,omitempty"`
	OrderIndex  int    `json:"order_index" validate:"gte=0"`
}

// UpdateCategoryRequest represents the request to update a category.
type UpdateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description,omitempty"`
	OrderIndex  int    `json:"order_index" validate:"gte=0"`
	Active      bool   `json:"active"`
}

// PlanConfigRequest represents the request to replace a posting's plan config.
// A zero candidate multiplier is valid and plans no interviews.
type PlanConfigRequest struct {
	CandidateMultiplier   int            `json:"candidate_multiplier" validate:"gte=0"`
	QuestionsPerCandidate int            `json:"questions_per_candidate" validate:"required,gte=1"`
	CategoryWeights       map[string]int `json:"category_weights" validate:"required,min=1"`
}

// OverrideRequest represents the request to pin a role's question count for
// one category.
type OverrideRequest struct {
	CategoryCode    string `json:"category_code" validate:"required"`
	QuestionCount   int    `json:"question_count" validate:"gte=0"`
	DifficultyLabel string `json:"difficulty_label,omitempty"`
}

// BulkOverrideRequest represents a batch of override entries for one role.
type BulkOverrideRequest struct {
	RoleID    string            `json:"role_id" validate:"required,uuid"`
	Overrides []OverrideRequest `json:"overrides" validate:"required,min=1,dive"`
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		messages := make([]string, 0, len(validationErrors))
		for _, fieldErr := range validationErrors {
			messages = append(messages,
				fmt.Sprintf("%s failed on %s", fieldErr.Field(), fieldErr.Tag()))
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}
