package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lifeosapp/lifeos-api/internal/models"
)

// DigestRepository handles stored retro digest operations
type DigestRepository struct {
	db *DB
}

// NewDigestRepository creates a new digest repository
func NewDigestRepository(db *DB) *DigestRepository {
	return &DigestRepository{db: db}
}

// Create stores a new digest
func (r *DigestRepository) Create(ctx context.Context, digest *models.Digest) error {
	query := `
		INSERT INTO digests (id, period_start, period_end, response, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	if digest.ID == uuid.Nil {
		digest.ID = uuid.New()
	}

	err := r.db.QueryRowContext(ctx, query,
		digest.ID,
		digest.PeriodStart,
		digest.PeriodEnd,
		[]byte(digest.Response),
		time.Now(),
	).Scan(&digest.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create digest: %w", err)
	}

	return nil
}

// GetLatest retrieves the most recently stored digest
func (r *DigestRepository) GetLatest(ctx context.Context) (*models.Digest, error) {
	query := `
		SELECT id, period_start, period_end, response, created_at
		FROM digests
		ORDER BY created_at DESC
		LIMIT 1
	`

	digest := &models.Digest{}
	var response []byte

	err := r.db.QueryRowContext(ctx, query).Scan(
		&digest.ID,
		&digest.PeriodStart,
		&digest.PeriodEnd,
		&response,
		&digest.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("digest not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get digest: %w", err)
	}

	digest.Response = response
	return digest, nil
}

// List retrieves stored digests, newest first
func (r *DigestRepository) List(ctx context.Context, limit int) ([]*models.Digest, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, period_start, period_end, response, created_at
		FROM digests
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query digests: %w", err)
	}
	defer rows.Close()

	var digests []*models.Digest
	for rows.Next() {
		digest := &models.Digest{}
		var response []byte

		err := rows.Scan(
			&digest.ID,
			&digest.PeriodStart,
			&digest.PeriodEnd,
			&response,
			&digest.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan digest: %w", err)
		}

		digest.Response = response
		digests = append(digests, digest)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating digests: %w", err)
	}

	return digests, nil
}
