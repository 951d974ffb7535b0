package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lifeosapp/lifeos-api/internal/models"
)

// GoalReader is the read surface the coach handler and digest worker need
type GoalReader interface {
	List(ctx context.Context, horizon *models.Horizon) ([]*models.Goal, error)
}

// TaskReader is the read surface the coach handler and digest worker need
type TaskReader interface {
	List(ctx context.Context, status *models.TaskStatus, goalID *uuid.UUID) ([]*models.Task, error)
}

// HabitReader is the read surface the coach handler and digest worker need
type HabitReader interface {
	List(ctx context.Context, goalID *uuid.UUID) ([]*models.Habit, error)
}

// NoteReader is the read surface the digest worker needs
type NoteReader interface {
	ListSince(ctx context.Context, since time.Time) ([]*models.Note, error)
}

// DigestWriter is the write surface the digest worker needs
type DigestWriter interface {
	Create(ctx context.Context, digest *models.Digest) error
}

// Ensure concrete types implement the interfaces
var (
	_ GoalReader   = (*GoalRepository)(nil)
	_ TaskReader   = (*TaskRepository)(nil)
	_ HabitReader  = (*HabitRepository)(nil)
	_ NoteReader   = (*NoteRepository)(nil)
	_ DigestWriter = (*DigestRepository)(nil)
)
