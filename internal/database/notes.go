package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lifeosapp/lifeos-api/internal/models"
)

// NoteRepository handles journal and note database operations
type NoteRepository struct {
	db *DB
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create creates a new note
func (r *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	query := `
		INSERT INTO notes (id, title, note_type, mood, energy, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	if note.NoteType == "" {
		note.NoteType = models.NoteTypeNote
	}

	err := r.db.QueryRowContext(ctx, query,
		note.ID,
		nullString(note.Title),
		note.NoteType,
		nullInt(note.Mood),
		nullInt(note.Energy),
		nullString(note.Content),
		time.Now(),
	).Scan(&note.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

// GetByID retrieves a note by ID
func (r *NoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	query := `
		SELECT id, title, note_type, mood, energy, content, created_at
		FROM notes
		WHERE id = $1
	`

	note, err := scanNote(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("note not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return note, nil
}

// List retrieves all notes, newest first
func (r *NoteRepository) List(ctx context.Context) ([]*models.Note, error) {
	return r.list(ctx, nil)
}

// ListSince retrieves notes created at or after the given time, newest first.
// The digest worker uses it to bound the retro window.
func (r *NoteRepository) ListSince(ctx context.Context, since time.Time) ([]*models.Note, error) {
	return r.list(ctx, &since)
}

func (r *NoteRepository) list(ctx context.Context, since *time.Time) ([]*models.Note, error) {
	query := `
		SELECT id, title, note_type, mood, energy, content, created_at
		FROM notes
	`
	args := []any{}

	if since != nil {
		query += " WHERE created_at >= $1"
		args = append(args, *since)
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []*models.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}

	return notes, nil
}

// Update updates an existing note
func (r *NoteRepository) Update(ctx context.Context, note *models.Note) error {
	query := `
		UPDATE notes
		SET title = $2, note_type = $3, mood = $4, energy = $5, content = $6
		WHERE id = $1
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		note.ID,
		nullString(note.Title),
		note.NoteType,
		nullInt(note.Mood),
		nullInt(note.Energy),
		nullString(note.Content),
	).Scan(&note.CreatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("note not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	return nil
}

// Delete deletes a note by ID
func (r *NoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("note not found")
	}

	return nil
}

func scanNote(row rowScanner) (*models.Note, error) {
	note := &models.Note{}
	var title, content sql.NullString
	var mood, energy sql.NullInt64

	err := row.Scan(
		&note.ID,
		&title,
		&note.NoteType,
		&mood,
		&energy,
		&content,
		&note.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	note.Title = stringPtr(title)
	note.Mood = intPtr(mood)
	note.Energy = intPtr(energy)
	note.Content = stringPtr(content)

	return note, nil
}
