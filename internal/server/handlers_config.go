package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/interview-agent/internal/db"
	"github.com/jonathan/interview-agent/internal/plan"
	"github.com/jonathan/interview-agent/internal/rubric"
)

// handleGetPlanConfig returns a posting's plan config, creating it with
// defaults on first read
func (s *Server) handleGetPlanConfig(w http.ResponseWriter, r *http.Request) {
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

	cfg, err := s.db.GetOrCreatePlanConfig(r.Context(), postingID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load plan config: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, cfg)
}

// handleReplacePlanConfig overwrites a posting's plan config. Every role
// override under the posting is invalidated in the same transaction; the
// response reports how many were removed.
func (s *Server) handleReplacePlanConfig(w http.ResponseWriter, r *http.Request) {
	postingID, ok := s.parsePathID(w, r, "id")
	if !ok {
		return
	}

	var req PlanConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}
	for code, weight := range req.CategoryWeights {
		if weight < 0 {
			s.errorResponse(w, http.StatusBadRequest, "Category weight for "+code+" must be non-negative")
			return
		}
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

	cfg, invalidated, err := s.db.ReplacePlanConfig(r.Context(), postingID, db.PlanConfigInput{
		CandidateMultiplier:   req.CandidateMultiplier,
		QuestionsPerCandidate: req.QuestionsPerCandidate,
		CategoryWeights:       req.CategoryWeights,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to replace plan config: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"config":                cfg,
		"invalidated_overrides": invalidated,
	})
}

// handleRolePlans projects the effective per-category question counts for
// every role of a posting without generating anything
func (s *Server) handleRolePlans(w http.ResponseWriter, r *http.Request) {
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

	cfg, err := s.db.GetOrCreatePlanConfig(r.Context(), postingID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load plan config: "+err.Error())
		return
	}

	categories, err := s.db.ListActiveCategories(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list categories: "+err.Error())
		return
	}
	planCategories := make([]plan.Category, 0, len(categories))
	for _, c := range categories {
		planCategories = append(planCategories, plan.Category{Code: c.Code, Name: c.Name})
	}

	roles, err := s.db.ListRolesByPosting(r.Context(), postingID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list roles: "+err.Error())
		return
	}

	type rolePlanView struct {
		RoleID   uuid.UUID     `json:"role_id"`
		RoleName string        `json:"role_name"`
		Tier     rubric.Tier   `json:"tier"`
		Plan     plan.RolePlan `json:"plan"`
		Total    int           `json:"total_questions"`
	}

	views := make([]rolePlanView, 0, len(roles))
	for _, role := range roles {
		overrides, err := s.db.ListOverridesByRole(r.Context(), role.ID)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Failed to list overrides: "+err.Error())
			return
		}
		overrideMap := make(map[string]plan.Override, len(overrides))
		for _, ov := range overrides {
			overrideMap[ov.CategoryCode] = plan.Override{
				Count:           ov.QuestionCount,
				DifficultyLabel: ov.DifficultyLabel,
			}
		}

		rolePlan := plan.Calculate(
			plan.RoleSizing{PositionCount: role.PositionCount, Multiplier: role.Multiplier},
			plan.GlobalPlan{
				CandidateMultiplier:   cfg.CandidateMultiplier,
				QuestionsPerCandidate: cfg.QuestionsPerCandidate,
				CategoryWeights:       cfg.CategoryWeights,
			},
			overrideMap, planCategories)

		views = append(views, rolePlanView{
			RoleID:   role.ID,
			RoleName: role.Name,
			Tier:     rubric.Resolve(role.Multiplier),
			Plan:     rolePlan,
			Total:    rolePlan.TotalQuestions(),
		})
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"role_plans": views})
}

// handleUpsertOverride pins one role/category question count
func (s *Server) handleUpsertOverride(w http.ResponseWriter, r *http.Request) {
	roleID, ok := s.parsePathID(w, r, "id")
	if !ok {
		return
	}

	var req OverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	role, err := s.db.GetRole(r.Context(), roleID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get role: "+err.Error())
		return
	}
	if role == nil {
		s.errorResponse(w, http.StatusNotFound, "Role not found")
		return
	}

	override, err := s.db.UpsertOverride(r.Context(), db.OverrideInput{
		RoleID:          roleID,
		CategoryCode:    req.CategoryCode,
		QuestionCount:   req.QuestionCount,
		DifficultyLabel: req.DifficultyLabel,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to upsert override: "+err.Error())
		return
	}
	if override == nil {
		s.errorResponse(w, http.StatusNotFound, "Unknown category code: "+req.CategoryCode)
		return
	}

	s.jsonResponse(w, http.StatusOK, override)
}

// handleListRoleOverrides lists a role's overrides
func (s *Server) handleListRoleOverrides(w http.ResponseWriter, r *http.Request) {
	roleID, ok := s.parsePathID(w, r, "id")
	if !ok {
		return
	}

	overrides, err := s.db.ListOverridesByRole(r.Context(), roleID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list overrides: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"overrides": overrides,
		"count":     len(overrides),
	})
}

// handleBulkUpsertOverrides applies a batch of overrides atomically
func (s *Server) handleBulkUpsertOverrides(w http.ResponseWriter, r *http.Request) {
	postingID, ok := s.parsePathID(w, r, "id")
	if !ok {
		return
	}

	var req BulkOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	roleID, err := uuid.Parse(req.RoleID)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid role_id: must be a UUID")
		return
	}

	role, err := s.db.GetRole(r.Context(), roleID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get role: "+err.Error())
		return
	}
	if role == nil || role.PostingID != postingID {
		s.errorResponse(w, http.StatusNotFound, "Role not found under this posting")
		return
	}

	inputs := make([]db.OverrideInput, 0, len(req.Overrides))
	for _, ov := range req.Overrides {
		inputs = append(inputs, db.OverrideInput{
			RoleID:          roleID,
			CategoryCode:    ov.CategoryCode,
			QuestionCount:   ov.QuestionCount,
			DifficultyLabel: ov.DifficultyLabel,
		})
	}

	results, err := s.db.BulkUpsertOverrides(r.Context(), inputs)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to upsert overrides: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"overrides": results,
		"count":     len(results),
	})
}

// handleDeleteOverride removes a single override
func (s *Server) handleDeleteOverride(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parsePathID(w, r, "id")
	if !ok {
		return
	}

	deleted, err := s.db.DeleteOverride(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete override: "+err.Error())
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "Override not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}
