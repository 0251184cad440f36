package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/interview-agent/internal/db"
	"github.com/jonathan/interview-agent/internal/generation"
)

// ErrNotFound indicates a requested entity does not exist
type ErrNotFound struct {
	Entity string
	ID     uuid.UUID
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var notFound *ErrNotFound
	var validation *ErrValidation
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrDuplicateTitle), errors.Is(err, db.ErrDuplicateCode):
		return http.StatusConflict
	case errors.Is(err, generation.ErrPostingNotFound):
		return http.StatusNotFound
	case errors.Is(err, generation.ErrNoRoles), errors.Is(err, generation.ErrNoCategories):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
