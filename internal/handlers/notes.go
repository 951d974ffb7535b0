package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lifeosapp/lifeos-api/internal/database"
	"github.com/lifeosapp/lifeos-api/internal/models"
	"github.com/lifeosapp/lifeos-api/internal/validation"
)

// NoteHandler handles journal and note requests
type NoteHandler struct {
	noteRepo *database.NoteRepository
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(noteRepo *database.NoteRepository) *NoteHandler {
	return &NoteHandler{noteRepo: noteRepo}
}

// RegisterRoutes registers note routes on the given router.
// The router should already have the /notes prefix.
func (h *NoteHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListNotes).Methods("GET")
	r.HandleFunc("", h.CreateNote).Methods("POST")
	r.HandleFunc("/{id}", h.GetNote).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateNote).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteNote).Methods("DELETE")
}

// CreateNoteRequest represents a create note request
type CreateNoteRequest struct {
	Title    *string `json:"title,omitempty"`
	NoteType string  `json:"note_type" validate:"required,note_type"`
	Mood     *int    `json:"mood,omitempty" validate:"omitempty,min=1,max=5"`
	Energy   *int    `json:"energy,omitempty" validate:"omitempty,min=1,max=5"`
	Content  *string `json:"content,omitempty"`
}

// UpdateNoteRequest represents an update note request
type UpdateNoteRequest struct {
	Title    *string `json:"title,omitempty"`
	NoteType *string `json:"note_type,omitempty" validate:"omitempty,note_type"`
	Mood     *int    `json:"mood,omitempty" validate:"omitempty,min=1,max=5"`
	Energy   *int    `json:"energy,omitempty" validate:"omitempty,min=1,max=5"`
	Content  *string `json:"content,omitempty"`
}

// ListNotes lists all notes, newest first
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.noteRepo.List(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to retrieve notes")
		return
	}
	if notes == nil {
		notes = []*models.Note{}
	}

	respondJSON(w, http.StatusOK, notes)
}

// CreateNote creates a new note
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}
	if err := validateStruct(w, &req); err != nil {
		return
	}

	note := &models.Note{
		Title:    req.Title,
		NoteType: models.NoteType(req.NoteType),
		Mood:     req.Mood,
		Energy:   req.Energy,
		Content:  req.Content,
	}
	if note.Content != nil {
		sanitized := validation.SanitizeText(*note.Content)
		note.Content = &sanitized
	}

	if err := h.noteRepo.Create(r.Context(), note); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to create note")
		return
	}

	respondJSON(w, http.StatusCreated, note)
}

// GetNote retrieves a single note
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid note id")
		return
	}

	note, err := h.noteRepo.GetByID(r.Context(), id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "note not found")
		return
	}

	respondJSON(w, http.StatusOK, note)
}

// UpdateNote applies a partial update to a note
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid note id")
		return
	}

	var req UpdateNoteRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}
	if err := validateStruct(w, &req); err != nil {
		return
	}

	ctx := r.Context()
	note, err := h.noteRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "note not found")
		return
	}

	if req.Title != nil {
		note.Title = req.Title
	}
	if req.NoteType != nil {
		note.NoteType = models.NoteType(*req.NoteType)
	}
	if req.Mood != nil {
		note.Mood = req.Mood
	}
	if req.Energy != nil {
		note.Energy = req.Energy
	}
	if req.Content != nil {
		sanitized := validation.SanitizeText(*req.Content)
		note.Content = &sanitized
	}

	if err := h.noteRepo.Update(ctx, note); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to update note")
		return
	}

	respondJSON(w, http.StatusOK, note)
}

// DeleteNote deletes a note
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid note id")
		return
	}

	if err := h.noteRepo.Delete(r.Context(), id); err != nil {
		respondJSONError(w, http.StatusNotFound, "note not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
