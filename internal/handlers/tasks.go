package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/lifeosapp/lifeos-api/internal/database"
	"github.com/lifeosapp/lifeos-api/internal/models"
	"github.com/lifeosapp/lifeos-api/internal/validation"
)

// TaskHandler handles task-related requests
type TaskHandler struct {
	taskRepo *database.TaskRepository
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskRepo *database.TaskRepository) *TaskHandler {
	return &TaskHandler{taskRepo: taskRepo}
}

// RegisterRoutes registers task routes on the given router.
// The router should already have the /tasks prefix.
func (h *TaskHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTasks).Methods("GET")
	r.HandleFunc("", h.CreateTask).Methods("POST")
	r.HandleFunc("/{id}", h.GetTask).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateTask).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteTask).Methods("DELETE")
	r.HandleFunc("/{id}/complete", h.CompleteTask).Methods("POST")
}

// CreateTaskRequest represents a create task request
type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=500"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty" validate:"omitempty,task_status"`
	Due         *string `json:"due,omitempty"`
	GoalID      *string `json:"goal_id,omitempty"`
	ProjectID   *string `json:"project_id,omitempty"`
	CategoryID  *string `json:"category_id,omitempty"`
}

// UpdateTaskRequest represents an update task request
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty" validate:"omitempty,task_status"`
	Due         *string `json:"due,omitempty"`
	GoalID      *string `json:"goal_id,omitempty"`
	ProjectID   *string `json:"project_id,omitempty"`
	CategoryID  *string `json:"category_id,omitempty"`
}

// ListTasks lists tasks, optionally filtered by status and goal
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var status *models.TaskStatus
	if s := r.URL.Query().Get("status"); s != "" {
		if err := validation.ValidateTaskStatus(s); err != nil {
			respondJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		sEnum := models.TaskStatus(s)
		status = &sEnum
	}

	var goalID *uuid.UUID
	if g := r.URL.Query().Get("goal_id"); g != "" {
		parsed, err := uuid.Parse(g)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "invalid goal_id")
			return
		}
		goalID = &parsed
	}

	tasks, err := h.taskRepo.List(ctx, status, goalID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to retrieve tasks")
		return
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}

	respondJSON(w, http.StatusOK, tasks)
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}
	if err := validateStruct(w, &req); err != nil {
		return
	}

	due, err := parseOptionalDate(req.Due)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid due date")
		return
	}

	goalID, projectID, categoryID, err := parseTaskRefs(req.GoalID, req.ProjectID, req.CategoryID)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	task := &models.Task{
		Title:       validation.SanitizeText(req.Title),
		Description: req.Description,
		Status:      models.TaskStatusOpen,
		Due:         due,
		GoalID:      goalID,
		ProjectID:   projectID,
		CategoryID:  categoryID,
	}
	if req.Status != nil {
		task.Status = models.TaskStatus(*req.Status)
	}

	if err := h.taskRepo.Create(r.Context(), task); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to create task")
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

// GetTask retrieves a single task
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	task, err := h.taskRepo.GetByID(r.Context(), id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "task not found")
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// UpdateTask applies a partial update to a task
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var req UpdateTaskRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}
	if err := validateStruct(w, &req); err != nil {
		return
	}

	ctx := r.Context()
	task, err := h.taskRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "task not found")
		return
	}

	if req.Title != nil {
		task.Title = validation.SanitizeText(*req.Title)
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.Status != nil {
		task.Status = models.TaskStatus(*req.Status)
	}
	if req.Due != nil {
		due, err := parseOptionalDate(req.Due)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "invalid due date")
			return
		}
		task.Due = due
	}
	goalID, projectID, categoryID, err := parseTaskRefs(req.GoalID, req.ProjectID, req.CategoryID)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.GoalID != nil {
		task.GoalID = goalID
	}
	if req.ProjectID != nil {
		task.ProjectID = projectID
	}
	if req.CategoryID != nil {
		task.CategoryID = categoryID
	}

	if err := h.taskRepo.Update(ctx, task); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to update task")
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// CompleteTask marks a task done
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	ctx := r.Context()
	task, err := h.taskRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "task not found")
		return
	}

	task.Status = models.TaskStatusDone
	if err := h.taskRepo.Update(ctx, task); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to update task")
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := h.taskRepo.Delete(r.Context(), id); err != nil {
		respondJSONError(w, http.StatusNotFound, "task not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseTaskRefs parses the optional foreign key fields. An empty string
// clears the reference.
func parseTaskRefs(goalID, projectID, categoryID *string) (*uuid.UUID, *uuid.UUID, *uuid.UUID, error) {
	g, err := parseOptionalUUID(goalID, "goal_id")
	if err != nil {
		return nil, nil, nil, err
	}
	p, err := parseOptionalUUID(projectID, "project_id")
	if err != nil {
		return nil, nil, nil, err
	}
	c, err := parseOptionalUUID(categoryID, "category_id")
	if err != nil {
		return nil, nil, nil, err
	}
	return g, p, c, nil
}
