package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lifeosapp/lifeos-api/internal/models"
)

// MilestoneRepository handles milestone database operations
type MilestoneRepository struct {
	db *DB
}

// NewMilestoneRepository creates a new milestone repository
func NewMilestoneRepository(db *DB) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

// Create creates a new milestone
func (r *MilestoneRepository) Create(ctx context.Context, milestone *models.Milestone) error {
	query := `
		INSERT INTO milestones (id, goal_id, title, due, done, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	if milestone.ID == uuid.Nil {
		milestone.ID = uuid.New()
	}

	err := r.db.QueryRowContext(ctx, query,
		milestone.ID,
		nullUUID(milestone.GoalID),
		milestone.Title,
		nullTime(milestone.Due),
		milestone.Done,
		time.Now(),
	).Scan(&milestone.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create milestone: %w", err)
	}

	return nil
}

// GetByID retrieves a milestone by ID
func (r *MilestoneRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Milestone, error) {
	query := `
		SELECT id, goal_id, title, due, done, created_at
		FROM milestones
		WHERE id = $1
	`

	milestone, err := scanMilestone(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("milestone not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get milestone: %w", err)
	}

	return milestone, nil
}

// List retrieves all milestones, optionally filtered by goal
func (r *MilestoneRepository) List(ctx context.Context, goalID *uuid.UUID) ([]*models.Milestone, error) {
	query := `
		SELECT id, goal_id, title, due, done, created_at
		FROM milestones
	`
	args := []any{}

	if goalID != nil {
		query += " WHERE goal_id = $1"
		args = append(args, *goalID)
	}

	query += " ORDER BY due ASC NULLS LAST, created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query milestones: %w", err)
	}
	defer rows.Close()

	var milestones []*models.Milestone
	for rows.Next() {
		milestone, err := scanMilestone(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan milestone: %w", err)
		}
		milestones = append(milestones, milestone)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating milestones: %w", err)
	}

	return milestones, nil
}

// Update updates an existing milestone
func (r *MilestoneRepository) Update(ctx context.Context, milestone *models.Milestone) error {
	query := `
		UPDATE milestones
		SET goal_id = $2, title = $3, due = $4, done = $5
		WHERE id = $1
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		milestone.ID,
		nullUUID(milestone.GoalID),
		milestone.Title,
		nullTime(milestone.Due),
		milestone.Done,
	).Scan(&milestone.CreatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("milestone not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update milestone: %w", err)
	}

	return nil
}

// Delete deletes a milestone by ID
func (r *MilestoneRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM milestones WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete milestone: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("milestone not found")
	}

	return nil
}

func scanMilestone(row rowScanner) (*models.Milestone, error) {
	milestone := &models.Milestone{}
	var goalID uuid.NullUUID
	var due sql.NullTime

	err := row.Scan(
		&milestone.ID,
		&goalID,
		&milestone.Title,
		&due,
		&milestone.Done,
		&milestone.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	milestone.GoalID = uuidPtr(goalID)
	milestone.Due = timePtr(due)

	return milestone, nil
}
