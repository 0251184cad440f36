package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/interview-agent/internal/db"
	"github.com/jonathan/interview-agent/internal/rubric"
)

// handleCreateRole adds a role to a posting
func (s *Server) handleCreateRole(w http.ResponseWriter, r *http.Request) {
	postingID, ok := s.parsePathID(w, r, "id")
	if !ok {
		return
	}

	var req CreateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
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

	role, err := s.db.CreateRole(r.Context(), db.RoleCreateInput{
		PostingID:           postingID,
		Name:                req.Name,
		Multiplier:          req.Multiplier,
		PositionCount:       req.PositionCount,
		SpecialRequirements: req.SpecialRequirements,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create role: "+err.Error())
		return
	}

	tier := rubric.Resolve(role.Multiplier)
	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"role": role,
		"tier": tier,
	})
}

// handleListRoles lists a posting's roles with their resolved tiers
func (s *Server) handleListRoles(w http.ResponseWriter, r *http.Request) {
	postingID, ok := s.parsePathID(w, r, "id")
	if !ok {
		return
	}

	roles, err := s.db.ListRolesByPosting(r.Context(), postingID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list roles: "+err.Error())
		return
	}

	type roleWithTier struct {
		db.Role
		Tier rubric.Tier `json:"tier"`
	}
	result := make([]roleWithTier, 0, len(roles))
	for _, role := range roles {
		result = append(result, roleWithTier{Role: role, Tier: rubric.Resolve(role.Multiplier)})
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"roles": result,
		"count": len(result),
	})
}

// handleUpdateRole applies a partial update to a role
func (s *Server) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	roleID, ok := s.parsePathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	role, err := s.db.UpdateRole(r.Context(), roleID, db.RoleUpdateInput{
		Name:                req.Name,
		Multiplier:          req.Multiplier,
		PositionCount:       req.PositionCount,
		SpecialRequirements: req.SpecialRequirements,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to update role: "+err.Error())
		return
	}
	if role == nil {
		s.errorResponse(w, http.StatusNotFound, "Role not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"role": role,
		"tier": rubric.Resolve(role.Multiplier),
	})
}

// handleDeleteRole removes a role
func (s *Server) handleDeleteRole(w http.ResponseWriter, r *http.Request) {
	roleID, ok := s.parsePathID(w, r, "id")
	if !ok {
		return
	}

	deleted, err := s.db.DeleteRole(r.Context(), roleID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete role: "+err.Error())
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "Role not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleListTiers exposes the difficulty tier catalog for client display
func (s *Server) handleListTiers(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{"tiers": rubric.AllTiers()})
}
