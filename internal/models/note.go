package models

import (
	"time"

	"github.com/google/uuid"
)

// NoteType distinguishes journal entries from free notes
type NoteType string

const (
	NoteTypeJournal NoteType = "journal"
	NoteTypeNote    NoteType = "note"
)

// Note represents a journal entry or free note. Mood and Energy are 1-5 when set.
type Note struct {
	ID        uuid.UUID `json:"id"`
	Title     *string   `json:"title,omitempty"`
	NoteType  NoteType  `json:"note_type"`
	Mood      *int      `json:"mood,omitempty"`
	Energy    *int      `json:"energy,omitempty"`
	Content   *string   `json:"content,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
