package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lifeosapp/lifeos-api/internal/database"
	"github.com/lifeosapp/lifeos-api/internal/models"
	"github.com/lifeosapp/lifeos-api/internal/validation"
)

// RefHandler handles the category and project reference tables
type RefHandler struct {
	categoryRepo *database.CategoryRepository
	projectRepo  *database.ProjectRepository
}

// NewRefHandler creates a new reference table handler
func NewRefHandler(categoryRepo *database.CategoryRepository, projectRepo *database.ProjectRepository) *RefHandler {
	return &RefHandler{categoryRepo: categoryRepo, projectRepo: projectRepo}
}

// RegisterRoutes registers reference table routes on the API router
func (h *RefHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/categories", h.ListCategories).Methods("GET")
	r.HandleFunc("/categories", h.CreateCategory).Methods("POST")
	r.HandleFunc("/categories/{id}", h.DeleteCategory).Methods("DELETE")
	r.HandleFunc("/projects", h.ListProjects).Methods("GET")
	r.HandleFunc("/projects", h.CreateProject).Methods("POST")
	r.HandleFunc("/projects/{id}", h.DeleteProject).Methods("DELETE")
}

// CreateCategoryRequest represents a create category request
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// CreateProjectRequest represents a create project request
type CreateProjectRequest struct {
	Name  string  `json:"name" validate:"required,min=1,max=200"`
	Notes *string `json:"notes,omitempty"`
}

// ListCategories lists all categories
func (h *RefHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryRepo.List(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to retrieve categories")
		return
	}
	if categories == nil {
		categories = []*models.Category{}
	}
	respondJSON(w, http.StatusOK, categories)
}

// CreateCategory creates a new category
func (h *RefHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}
	if err := validateStruct(w, &req); err != nil {
		return
	}

	category := &models.Category{Name: validation.SanitizeText(req.Name)}
	if err := h.categoryRepo.Create(r.Context(), category); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	respondJSON(w, http.StatusCreated, category)
}

// DeleteCategory deletes a category
func (h *RefHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := h.categoryRepo.Delete(r.Context(), id); err != nil {
		respondJSONError(w, http.StatusNotFound, "category not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListProjects lists all projects
func (h *RefHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectRepo.List(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to retrieve projects")
		return
	}
	if projects == nil {
		projects = []*models.Project{}
	}
	respondJSON(w, http.StatusOK, projects)
}

// CreateProject creates a new project
func (h *RefHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}
	if err := validateStruct(w, &req); err != nil {
		return
	}

	project := &models.Project{
		Name:  validation.SanitizeText(req.Name),
		Notes: req.Notes,
	}
	if err := h.projectRepo.Create(r.Context(), project); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to create project")
		return
	}

	respondJSON(w, http.StatusCreated, project)
}

// DeleteProject deletes a project
func (h *RefHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	if err := h.projectRepo.Delete(r.Context(), id); err != nil {
		respondJSONError(w, http.StatusNotFound, "project not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
