package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jonathan/interview-agent/internal/db"
)

// handleListCategories returns the category catalog. Inactive entries are
// included only with ?all=true.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	var (
		categories []db.QuestionCategory
		err        error
	)
	if r.URL.Query().Get("all") == "true" {
		categories, err = s.db.ListCategories(r.Context())
	} else {
		categories, err = s.db.ListActiveCategories(r.Context())
	}
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list categories: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"categories": categories,
		"count":      len(categories),
	})
}

// handleCreateCategory creates a question category
func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	category, err := s.db.CreateCategory(r.Context(), db.CategoryCreateInput{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		OrderIndex:  req.OrderIndex,
	})
	if err != nil {
		if errors.Is(err, db.ErrDuplicateCode) {
			s.errorResponse(w, http.StatusConflict, err.Error())
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create category: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, category)
}

// handleUpdateCategory updates a category's display attributes and active flag
func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parsePathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	category, err := s.db.UpdateCategory(r.Context(), id, req.Name, req.Description, req.OrderIndex, req.Active)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to update category: "+err.Error())
		return
	}
	if category == nil {
		s.errorResponse(w, http.StatusNotFound, "Category not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, category)
}

// handleDeleteCategory removes a category, deactivating instead when existing
// role configs still reference it
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parsePathID(w, r, "id")
	if !ok {
		return
	}

	deleted, err := s.db.DeleteCategory(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete category: "+err.Error())
		return
	}

	status := "deleted"
	if !deleted {
		status = "deactivated"
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": status})
}
