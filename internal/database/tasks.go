package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lifeosapp/lifeos-api/internal/models"
)

// TaskRepository handles task database operations
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create creates a new task
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, title, description, status, due, goal_id, project_id, category_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if task.Status == "" {
		task.Status = models.TaskStatusOpen
	}

	err := r.db.QueryRowContext(ctx, query,
		task.ID,
		task.Title,
		nullString(task.Description),
		task.Status,
		nullTime(task.Due),
		nullUUID(task.GoalID),
		nullUUID(task.ProjectID),
		nullUUID(task.CategoryID),
		time.Now(),
	).Scan(&task.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetByID retrieves a task by ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	query := `
		SELECT id, title, description, status, due, goal_id, project_id, category_id, created_at
		FROM tasks
		WHERE id = $1
	`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// List retrieves tasks, optionally filtered by status and goal
func (r *TaskRepository) List(ctx context.Context, status *models.TaskStatus, goalID *uuid.UUID) ([]*models.Task, error) {
	query := `
		SELECT id, title, description, status, due, goal_id, project_id, category_id, created_at
		FROM tasks
	`
	var clauses []string
	args := []any{}
	argIndex := 1

	if status != nil {
		clauses = append(clauses, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, string(*status))
		argIndex++
	}
	if goalID != nil {
		clauses = append(clauses, fmt.Sprintf("goal_id = $%d", argIndex))
		args = append(args, *goalID)
		argIndex++
	}

	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}

	query += " ORDER BY due ASC NULLS LAST, created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// Update updates an existing task
func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, due = $5, goal_id = $6, project_id = $7, category_id = $8
		WHERE id = $1
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		task.ID,
		task.Title,
		nullString(task.Description),
		task.Status,
		nullTime(task.Due),
		nullUUID(task.GoalID),
		nullUUID(task.ProjectID),
		nullUUID(task.CategoryID),
	).Scan(&task.CreatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("task not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	return nil
}

// Delete deletes a task by ID
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("task not found")
	}

	return nil
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	var description sql.NullString
	var due sql.NullTime
	var goalID, projectID, categoryID uuid.NullUUID

	err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&task.Status,
		&due,
		&goalID,
		&projectID,
		&categoryID,
		&task.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Description = stringPtr(description)
	task.Due = timePtr(due)
	task.GoalID = uuidPtr(goalID)
	task.ProjectID = uuidPtr(projectID)
	task.CategoryID = uuidPtr(categoryID)

	return task, nil
}
