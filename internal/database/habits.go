package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lifeosapp/lifeos-api/internal/models"
)

// HabitRepository handles habit database operations
type HabitRepository struct {
	db *DB
}

// NewHabitRepository creates a new habit repository
func NewHabitRepository(db *DB) *HabitRepository {
	return &HabitRepository{db: db}
}

// Create creates a new habit
func (r *HabitRepository) Create(ctx context.Context, habit *models.Habit) error {
	query := `
		INSERT INTO habits (id, title, cadence, streak, goal_id, category_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	if habit.ID == uuid.Nil {
		habit.ID = uuid.New()
	}

	err := r.db.QueryRowContext(ctx, query,
		habit.ID,
		habit.Title,
		habit.Cadence,
		nullInt(habit.Streak),
		nullUUID(habit.GoalID),
		nullUUID(habit.CategoryID),
		time.Now(),
	).Scan(&habit.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create habit: %w", err)
	}

	return nil
}

// GetByID retrieves a habit by ID
func (r *HabitRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Habit, error) {
	query := `
		SELECT id, title, cadence, streak, goal_id, category_id, created_at
		FROM habits
		WHERE id = $1
	`

	habit, err := scanHabit(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("habit not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}

	return habit, nil
}

// List retrieves all habits, optionally filtered by goal
func (r *HabitRepository) List(ctx context.Context, goalID *uuid.UUID) ([]*models.Habit, error) {
	query := `
		SELECT id, title, cadence, streak, goal_id, category_id, created_at
		FROM habits
	`
	args := []any{}

	if goalID != nil {
		query += " WHERE goal_id = $1"
		args = append(args, *goalID)
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query habits: %w", err)
	}
	defer rows.Close()

	var habits []*models.Habit
	for rows.Next() {
		habit, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, habit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating habits: %w", err)
	}

	return habits, nil
}

// Update updates an existing habit
func (r *HabitRepository) Update(ctx context.Context, habit *models.Habit) error {
	query := `
		UPDATE habits
		SET title = $2, cadence = $3, streak = $4, goal_id = $5, category_id = $6
		WHERE id = $1
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		habit.ID,
		habit.Title,
		habit.Cadence,
		nullInt(habit.Streak),
		nullUUID(habit.GoalID),
		nullUUID(habit.CategoryID),
	).Scan(&habit.CreatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("habit not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}

	return nil
}

// Delete deletes a habit by ID
func (r *HabitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("habit not found")
	}

	return nil
}

func scanHabit(row rowScanner) (*models.Habit, error) {
	habit := &models.Habit{}
	var streak sql.NullInt64
	var goalID, categoryID uuid.NullUUID

	err := row.Scan(
		&habit.ID,
		&habit.Title,
		&habit.Cadence,
		&streak,
		&goalID,
		&categoryID,
		&habit.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	habit.Streak = intPtr(streak)
	habit.GoalID = uuidPtr(goalID)
	habit.CategoryID = uuidPtr(categoryID)

	return habit, nil
}
