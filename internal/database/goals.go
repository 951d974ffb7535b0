package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lifeosapp/lifeos-api/internal/models"
)

// GoalRepository handles goal database operations
type GoalRepository struct {
	db *DB
}

// NewGoalRepository creates a new goal repository
func NewGoalRepository(db *DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// Create creates a new goal
func (r *GoalRepository) Create(ctx context.Context, goal *models.Goal) error {
	query := `
		INSERT INTO goals (id, title, horizon, purpose, identity_tag, notes, color_hex, icon, target_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`

	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}

	err := r.db.QueryRowContext(ctx, query,
		goal.ID,
		goal.Title,
		goal.Horizon,
		nullString(goal.Purpose),
		nullString(goal.IdentityTag),
		nullString(goal.Notes),
		nullString(goal.ColorHex),
		nullString(goal.Icon),
		nullTime(goal.TargetDate),
		time.Now(),
	).Scan(&goal.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}

	return nil
}

// GetByID retrieves a goal by ID
func (r *GoalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Goal, error) {
	query := `
		SELECT id, title, horizon, purpose, identity_tag, notes, color_hex, icon, target_date, created_at
		FROM goals
		WHERE id = $1
	`

	goal, err := scanGoal(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("goal not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}

	return goal, nil
}

// List retrieves all goals, optionally filtered by horizon
func (r *GoalRepository) List(ctx context.Context, horizon *models.Horizon) ([]*models.Goal, error) {
	query := `
		SELECT id, title, horizon, purpose, identity_tag, notes, color_hex, icon, target_date, created_at
		FROM goals
	`
	args := []any{}

	if horizon != nil {
		query += " WHERE horizon = $1"
		args = append(args, string(*horizon))
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var goals []*models.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, goal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}

	return goals, nil
}

// Update updates an existing goal
func (r *GoalRepository) Update(ctx context.Context, goal *models.Goal) error {
	query := `
		UPDATE goals
		SET title = $2, horizon = $3, purpose = $4, identity_tag = $5, notes = $6, color_hex = $7, icon = $8, target_date = $9
		WHERE id = $1
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		goal.ID,
		goal.Title,
		goal.Horizon,
		nullString(goal.Purpose),
		nullString(goal.IdentityTag),
		nullString(goal.Notes),
		nullString(goal.ColorHex),
		nullString(goal.Icon),
		nullTime(goal.TargetDate),
	).Scan(&goal.CreatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("goal not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}

	return nil
}

// Delete deletes a goal by ID
func (r *GoalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("goal not found")
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (*models.Goal, error) {
	goal := &models.Goal{}
	var purpose, identityTag, notes, colorHex, icon sql.NullString
	var targetDate sql.NullTime

	err := row.Scan(
		&goal.ID,
		&goal.Title,
		&goal.Horizon,
		&purpose,
		&identityTag,
		&notes,
		&colorHex,
		&icon,
		&targetDate,
		&goal.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	goal.Purpose = stringPtr(purpose)
	goal.IdentityTag = stringPtr(identityTag)
	goal.Notes = stringPtr(notes)
	goal.ColorHex = stringPtr(colorHex)
	goal.Icon = stringPtr(icon)
	goal.TargetDate = timePtr(targetDate)

	return goal, nil
}
