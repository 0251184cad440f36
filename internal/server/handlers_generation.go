package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/jonathan/interview-agent/internal/db"
	"github.com/jonathan/interview-agent/internal/generation"
)

// handleGenerate runs question generation for every role of a posting. The
// call is synchronous: role batches run in order and the full report comes
// back in the response.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	postingID, ok := s.parsePathID(w, r, "id")
	if !ok {
		return
	}

	report, err := s.newOrchestrator().GeneratePosting(r.Context(), postingID)
	if err != nil {
		switch {
		case errors.Is(err, generation.ErrPostingNotFound):
			s.errorResponse(w, http.StatusNotFound, "Posting not found")
		case errors.Is(err, generation.ErrNoRoles):
			s.errorResponse(w, http.StatusUnprocessableEntity, "Posting has no roles to generate for")
		case errors.Is(err, generation.ErrNoCategories):
			s.errorResponse(w, http.StatusUnprocessableEntity, "No active question categories configured")
		default:
			s.errorResponse(w, http.StatusInternalServerError, "Generation failed: "+err.Error())
		}
		return
	}

	s.jsonResponse(w, http.StatusOK, report)
}

// handleListQuestions returns a posting's questions grouped by role and
// category
func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	postingID, ok := s.parsePathID(w, r, "id")
	if !ok {
		return
	}

	posting, err := s.db.GetPosting(r.Context(), postingID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get posting: "+err.Error())
		return
	}
	if posting == nil {
		s.errorResponse(w, http.StatusNotFound, "Posting not found")
		return
	}

	questions, err := s.db.ListQuestionsByPosting(r.Context(), postingID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list questions: "+err.Error())
		return
	}

	// role id -> category code -> questions
	grouped := map[string]map[string][]db.Question{}
	for _, q := range questions {
		roleKey := q.RoleID.String()
		if grouped[roleKey] == nil {
			grouped[roleKey] = map[string][]db.Question{}
		}
		grouped[roleKey][q.CategoryCode] = append(grouped[roleKey][q.CategoryCode], q)
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"posting_id": postingID,
		"total":      len(questions),
		"by_role":    grouped,
	})
}

// handleListGenerationRecords returns a posting's model-call audit rows
func (s *Server) handleListGenerationRecords(w http.ResponseWriter, r *http.Request) {
	postingID, ok := s.parsePathID(w, r, "id")
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	records, err := s.db.ListGenerationRecords(r.Context(), postingID, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list generation records: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"records": records,
		"count":   len(records),
	})
}
