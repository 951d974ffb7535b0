package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/lifeosapp/lifeos-api/internal/database"
	"github.com/lifeosapp/lifeos-api/internal/models"
	"github.com/lifeosapp/lifeos-api/internal/validation"
)

// MilestoneHandler handles milestone-related requests
type MilestoneHandler struct {
	milestoneRepo *database.MilestoneRepository
}

// NewMilestoneHandler creates a new milestone handler
func NewMilestoneHandler(milestoneRepo *database.MilestoneRepository) *MilestoneHandler {
	return &MilestoneHandler{milestoneRepo: milestoneRepo}
}

// RegisterRoutes registers milestone routes on the given router.
// The router should already have the /milestones prefix.
func (h *MilestoneHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListMilestones).Methods("GET")
	r.HandleFunc("", h.CreateMilestone).Methods("POST")
	r.HandleFunc("/{id}", h.GetMilestone).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateMilestone).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteMilestone).Methods("DELETE")
}

// CreateMilestoneRequest represents a create milestone request
type CreateMilestoneRequest struct {
	Title  string  `json:"title" validate:"required,min=1,max=500"`
	GoalID *string `json:"goal_id,omitempty"`
	Due    *string `json:"due,omitempty"`
	Done   bool    `json:"done"`
}

// UpdateMilestoneRequest represents an update milestone request
type UpdateMilestoneRequest struct {
	Title  *string `json:"title,omitempty"`
	GoalID *string `json:"goal_id,omitempty"`
	Due    *string `json:"due,omitempty"`
	Done   *bool   `json:"done,omitempty"`
}

// ListMilestones lists milestones, optionally filtered by goal
func (h *MilestoneHandler) ListMilestones(w http.ResponseWriter, r *http.Request) {
	var goalID *uuid.UUID
	if g := r.URL.Query().Get("goal_id"); g != "" {
		parsed, err := uuid.Parse(g)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "invalid goal_id")
			return
		}
		goalID = &parsed
	}

	milestones, err := h.milestoneRepo.List(r.Context(), goalID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to retrieve milestones")
		return
	}
	if milestones == nil {
		milestones = []*models.Milestone{}
	}

	respondJSON(w, http.StatusOK, milestones)
}

// CreateMilestone creates a new milestone
func (h *MilestoneHandler) CreateMilestone(w http.ResponseWriter, r *http.Request) {
	var req CreateMilestoneRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}
	if err := validateStruct(w, &req); err != nil {
		return
	}

	goalID, err := parseOptionalUUID(req.GoalID, "goal_id")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	due, err := parseOptionalDate(req.Due)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid due date")
		return
	}

	milestone := &models.Milestone{
		Title:  validation.SanitizeText(req.Title),
		GoalID: goalID,
		Due:    due,
		Done:   req.Done,
	}

	if err := h.milestoneRepo.Create(r.Context(), milestone); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to create milestone")
		return
	}

	respondJSON(w, http.StatusCreated, milestone)
}

// GetMilestone retrieves a single milestone
func (h *MilestoneHandler) GetMilestone(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid milestone id")
		return
	}

	milestone, err := h.milestoneRepo.GetByID(r.Context(), id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "milestone not found")
		return
	}

	respondJSON(w, http.StatusOK, milestone)
}

// UpdateMilestone applies a partial update to a milestone
func (h *MilestoneHandler) UpdateMilestone(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid milestone id")
		return
	}

	var req UpdateMilestoneRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	ctx := r.Context()
	milestone, err := h.milestoneRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "milestone not found")
		return
	}

	if req.Title != nil {
		milestone.Title = validation.SanitizeText(*req.Title)
	}
	if req.GoalID != nil {
		goalID, err := parseOptionalUUID(req.GoalID, "goal_id")
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		milestone.GoalID = goalID
	}
	if req.Due != nil {
		due, err := parseOptionalDate(req.Due)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "invalid due date")
			return
		}
		milestone.Due = due
	}
	if req.Done != nil {
		milestone.Done = *req.Done
	}

	if err := h.milestoneRepo.Update(ctx, milestone); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to update milestone")
		return
	}

	respondJSON(w, http.StatusOK, milestone)
}

// DeleteMilestone deletes a milestone
func (h *MilestoneHandler) DeleteMilestone(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid milestone id")
		return
	}

	if err := h.milestoneRepo.Delete(r.Context(), id); err != nil {
		respondJSONError(w, http.StatusNotFound, "milestone not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
