package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lifeosapp/lifeos-api/internal/agent"
	"github.com/lifeosapp/lifeos-api/internal/database"
	"github.com/lifeosapp/lifeos-api/internal/models"
)

// StatsHandler serves derived per-goal statistics and deterministic insights.
// Stats are computed on read and never persisted.
type StatsHandler struct {
	goalRepo      *database.GoalRepository
	taskRepo      *database.TaskRepository
	milestoneRepo *database.MilestoneRepository
	habitRepo     *database.HabitRepository
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(
	goalRepo *database.GoalRepository,
	taskRepo *database.TaskRepository,
	milestoneRepo *database.MilestoneRepository,
	habitRepo *database.HabitRepository,
) *StatsHandler {
	return &StatsHandler{
		goalRepo:      goalRepo,
		taskRepo:      taskRepo,
		milestoneRepo: milestoneRepo,
		habitRepo:     habitRepo,
	}
}

// RegisterRoutes registers stats routes on the given router.
// The router should already have the /goals prefix.
func (h *StatsHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/{id}/stats", h.GoalStats).Methods("GET")
}

// GoalStatsResponse bundles the derived stats with the optional insight
type GoalStatsResponse struct {
	Stats   agent.GoalStats `json:"stats"`
	Insight *string         `json:"insight,omitempty"`
}

// GoalStats computes stats and the rule-based insight for one goal
func (h *StatsHandler) GoalStats(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid goal id")
		return
	}

	ctx := r.Context()
	goal, err := h.goalRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "goal not found")
		return
	}

	tasks, err := h.taskRepo.List(ctx, nil, &id)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to retrieve tasks")
		return
	}
	milestones, err := h.milestoneRepo.List(ctx, &id)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to retrieve milestones")
		return
	}
	habits, err := h.habitRepo.List(ctx, &id)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to retrieve habits")
		return
	}

	stats := agent.ComputeGoalStats(*goal, derefTasks(tasks), derefMilestones(milestones), derefHabits(habits))

	resp := GoalStatsResponse{Stats: stats}
	if insight, ok := agent.CoachInsight(*goal, stats); ok {
		resp.Insight = &insight
	}

	respondJSON(w, http.StatusOK, resp)
}

func derefTasks(in []*models.Task) []models.Task {
	out := make([]models.Task, 0, len(in))
	for _, t := range in {
		out = append(out, *t)
	}
	return out
}

func derefMilestones(in []*models.Milestone) []models.Milestone {
	out := make([]models.Milestone, 0, len(in))
	for _, m := range in {
		out = append(out, *m)
	}
	return out
}

func derefHabits(in []*models.Habit) []models.Habit {
	out := make([]models.Habit, 0, len(in))
	for _, h := range in {
		out = append(out, *h)
	}
	return out
}
