package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/interview-agent/internal/db"
)

// parsePathID parses the {id} path segment as a UUID.
func (s *Server) parsePathID(w http.ResponseWriter, r *http.Request, segment string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(segment))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid "+segment+": must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// handleCreatePosting creates a posting
func (s *Server) handleCreatePosting(w http.ResponseWriter, r *http.Request) {
	var req CreatePostingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	posting, err := s.db.CreatePosting(r.Context(), db.PostingCreateInput{
		Title:               req.Title,
		Body:                req.Body,
		GeneralRequirements: req.GeneralRequirements,
	})
	if err != nil {
		if errors.Is(err, db.ErrDuplicateTitle) {
			s.errorResponse(w, http.StatusConflict, err.Error())
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create posting: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, posting)
}

// handleGetPosting returns a posting with its roles
func (s *Server) handleGetPosting(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parsePathID(w, r, "id")
	if !ok {
		return
	}

	posting, err := s.db.GetPosting(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get posting: "+err.Error())
		return
	}
	if posting == nil {
		s.errorResponse(w, http.StatusNotFound, "Posting not found")
		return
	}

	roles, err := s.db.ListRolesByPosting(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list roles: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"posting": posting,
		"roles":   roles,
	})
}

// handleListPostings lists postings, newest first
func (s *Server) handleListPostings(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	postings, err := s.db.ListPostings(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list postings: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"postings": postings,
		"count":    len(postings),
	})
}

// handleDeletePosting removes a posting and everything under it
func (s *Server) handleDeletePosting(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parsePathID(w, r, "id")
	if !ok {
		return
	}

	deleted, err := s.db.DeletePosting(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete posting: "+err.Error())
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "Posting not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}
