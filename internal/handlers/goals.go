package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/lifeosapp/lifeos-api/internal/database"
	"github.com/lifeosapp/lifeos-api/internal/models"
	"github.com/lifeosapp/lifeos-api/internal/validation"
)

// GoalHandler handles goal-related requests
type GoalHandler struct {
	goalRepo *database.GoalRepository
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(goalRepo *database.GoalRepository) *GoalHandler {
	return &GoalHandler{goalRepo: goalRepo}
}

// RegisterRoutes registers goal routes on the given router.
// The router should already have the /goals prefix.
func (h *GoalHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListGoals).Methods("GET")
	r.HandleFunc("", h.CreateGoal).Methods("POST")
	r.HandleFunc("/{id}", h.GetGoal).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateGoal).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteGoal).Methods("DELETE")
}

// CreateGoalRequest represents a create goal request
type CreateGoalRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=500"`
	Horizon     string  `json:"horizon" validate:"required,goal_horizon"`
	Purpose     *string `json:"purpose,omitempty"`
	IdentityTag *string `json:"identity_tag,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	ColorHex    *string `json:"color_hex,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	TargetDate  *string `json:"target_date,omitempty"`
}

// UpdateGoalRequest represents an update goal request
type UpdateGoalRequest struct {
	Title       *string `json:"title,omitempty"`
	Horizon     *string `json:"horizon,omitempty"`
	Purpose     *string `json:"purpose,omitempty"`
	IdentityTag *string `json:"identity_tag,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	ColorHex    *string `json:"color_hex,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	TargetDate  *string `json:"target_date,omitempty"`
}

// ListGoals lists goals, optionally filtered by horizon
func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var horizon *models.Horizon
	if hz := r.URL.Query().Get("horizon"); hz != "" {
		if err := validation.ValidateGoalHorizon(hz); err != nil {
			respondJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		hzEnum := models.Horizon(hz)
		horizon = &hzEnum
	}

	goals, err := h.goalRepo.List(ctx, horizon)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to retrieve goals")
		return
	}
	if goals == nil {
		goals = []*models.Goal{}
	}

	respondJSON(w, http.StatusOK, goals)
}

// CreateGoal creates a new goal
func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req CreateGoalRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	if err := validateStruct(w, &req); err != nil {
		return
	}

	targetDate, err := parseOptionalDate(req.TargetDate)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid target_date")
		return
	}

	goal := &models.Goal{
		Title:       validation.SanitizeText(req.Title),
		Horizon:     models.Horizon(req.Horizon),
		Purpose:     req.Purpose,
		IdentityTag: req.IdentityTag,
		Notes:       req.Notes,
		ColorHex:    req.ColorHex,
		Icon:        req.Icon,
		TargetDate:  targetDate,
	}

	if err := h.goalRepo.Create(r.Context(), goal); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to create goal")
		return
	}

	respondJSON(w, http.StatusCreated, goal)
}

// GetGoal retrieves a single goal
func (h *GoalHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid goal id")
		return
	}

	goal, err := h.goalRepo.GetByID(r.Context(), id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "goal not found")
		return
	}

	respondJSON(w, http.StatusOK, goal)
}

// UpdateGoal applies a partial update to a goal
func (h *GoalHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid goal id")
		return
	}

	var req UpdateGoalRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	ctx := r.Context()
	goal, err := h.goalRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "goal not found")
		return
	}

	if req.Title != nil {
		goal.Title = validation.SanitizeText(*req.Title)
	}
	if req.Horizon != nil {
		if err := validation.ValidateGoalHorizon(*req.Horizon); err != nil {
			respondJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		goal.Horizon = models.Horizon(*req.Horizon)
	}
	if req.Purpose != nil {
		goal.Purpose = req.Purpose
	}
	if req.IdentityTag != nil {
		goal.IdentityTag = req.IdentityTag
	}
	if req.Notes != nil {
		goal.Notes = req.Notes
	}
	if req.ColorHex != nil {
		goal.ColorHex = req.ColorHex
	}
	if req.Icon != nil {
		goal.Icon = req.Icon
	}
	if req.TargetDate != nil {
		targetDate, err := parseOptionalDate(req.TargetDate)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "invalid target_date")
			return
		}
		goal.TargetDate = targetDate
	}

	if err := h.goalRepo.Update(ctx, goal); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to update goal")
		return
	}

	respondJSON(w, http.StatusOK, goal)
}

// DeleteGoal deletes a goal
func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid goal id")
		return
	}

	if err := h.goalRepo.Delete(r.Context(), id); err != nil {
		respondJSONError(w, http.StatusNotFound, "goal not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Shared request helpers for the CRUD handlers.

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return err
		}
		respondJSONError(w, http.StatusBadRequest, "invalid request body")
		return err
	}
	return nil
}

func validateStruct(w http.ResponseWriter, req any) error {
	if err := validation.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
			respondJSONError(w, http.StatusBadRequest,
				fmt.Sprintf("validation failed: %s", validationErrors[0].Error()))
			return err
		}
		respondJSONError(w, http.StatusBadRequest, "validation failed")
		return err
	}
	return nil
}

func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["id"])
}

// parseOptionalDate accepts RFC3339 timestamps and plain dates
func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, *s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
