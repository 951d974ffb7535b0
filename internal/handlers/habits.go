package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/lifeosapp/lifeos-api/internal/database"
	"github.com/lifeosapp/lifeos-api/internal/models"
	"github.com/lifeosapp/lifeos-api/internal/validation"
)

// HabitHandler handles habit-related requests
type HabitHandler struct {
	habitRepo *database.HabitRepository
}

// NewHabitHandler creates a new habit handler
func NewHabitHandler(habitRepo *database.HabitRepository) *HabitHandler {
	return &HabitHandler{habitRepo: habitRepo}
}

// RegisterRoutes registers habit routes on the given router.
// The router should already have the /habits prefix.
func (h *HabitHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListHabits).Methods("GET")
	r.HandleFunc("", h.CreateHabit).Methods("POST")
	r.HandleFunc("/{id}", h.GetHabit).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateHabit).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteHabit).Methods("DELETE")
}

// CreateHabitRequest represents a create habit request
type CreateHabitRequest struct {
	Title      string  `json:"title" validate:"required,min=1,max=500"`
	Cadence    string  `json:"cadence" validate:"required,min=1,max=100"`
	Streak     *int    `json:"streak,omitempty" validate:"omitempty,min=0"`
	GoalID     *string `json:"goal_id,omitempty"`
	CategoryID *string `json:"category_id,omitempty"`
}

// UpdateHabitRequest represents an update habit request
type UpdateHabitRequest struct {
	Title      *string `json:"title,omitempty"`
	Cadence    *string `json:"cadence,omitempty"`
	Streak     *int    `json:"streak,omitempty" validate:"omitempty,min=0"`
	GoalID     *string `json:"goal_id,omitempty"`
	CategoryID *string `json:"category_id,omitempty"`
}

// ListHabits lists habits, optionally filtered by goal
func (h *HabitHandler) ListHabits(w http.ResponseWriter, r *http.Request) {
	var goalID *uuid.UUID
	if g := r.URL.Query().Get("goal_id"); g != "" {
		parsed, err := uuid.Parse(g)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "invalid goal_id")
			return
		}
		goalID = &parsed
	}

	habits, err := h.habitRepo.List(r.Context(), goalID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to retrieve habits")
		return
	}
	if habits == nil {
		habits = []*models.Habit{}
	}

	respondJSON(w, http.StatusOK, habits)
}

// CreateHabit creates a new habit
func (h *HabitHandler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	var req CreateHabitRequest
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
	categoryID, err := parseOptionalUUID(req.CategoryID, "category_id")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	habit := &models.Habit{
		Title:      validation.SanitizeText(req.Title),
		Cadence:    validation.SanitizeText(req.Cadence),
		Streak:     req.Streak,
		GoalID:     goalID,
		CategoryID: categoryID,
	}

	if err := h.habitRepo.Create(r.Context(), habit); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to create habit")
		return
	}

	respondJSON(w, http.StatusCreated, habit)
}

// GetHabit retrieves a single habit
func (h *HabitHandler) GetHabit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid habit id")
		return
	}

	habit, err := h.habitRepo.GetByID(r.Context(), id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "habit not found")
		return
	}

	respondJSON(w, http.StatusOK, habit)
}

// UpdateHabit applies a partial update to a habit
func (h *HabitHandler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid habit id")
		return
	}

	var req UpdateHabitRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}
	if err := validateStruct(w, &req); err != nil {
		return
	}

	ctx := r.Context()
	habit, err := h.habitRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "habit not found")
		return
	}

	if req.Title != nil {
		habit.Title = validation.SanitizeText(*req.Title)
	}
	if req.Cadence != nil {
		habit.Cadence = validation.SanitizeText(*req.Cadence)
	}
	if req.Streak != nil {
		habit.Streak = req.Streak
	}
	if req.GoalID != nil {
		goalID, err := parseOptionalUUID(req.GoalID, "goal_id")
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		habit.GoalID = goalID
	}
	if req.CategoryID != nil {
		categoryID, err := parseOptionalUUID(req.CategoryID, "category_id")
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		habit.CategoryID = categoryID
	}

	if err := h.habitRepo.Update(ctx, habit); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to update habit")
		return
	}

	respondJSON(w, http.StatusOK, habit)
}

// DeleteHabit deletes a habit
func (h *HabitHandler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid habit id")
		return
	}

	if err := h.habitRepo.Delete(r.Context(), id); err != nil {
		respondJSONError(w, http.StatusNotFound, "habit not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
