package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duynhne/vchartered/internal/core/domain"
)

// PgxActivityRepository implements domain.ActivityRepository using pgxpool.
type PgxActivityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository creates a new PgxActivityRepository.
func NewActivityRepository(pool *pgxpool.Pool) *PgxActivityRepository {
	return &PgxActivityRepository{pool: pool}
}

// Append inserts one activity row.
func (r *PgxActivityRepository) Append(ctx context.Context, event domain.ActivityEvent) error {
	query := `INSERT INTO activity_logs (email, action, details, timestamp) VALUES ($1, $2, $3, $4)`
	_, err := r.pool.Exec(ctx, query, event.Email, string(event.Action), event.Details, event.Timestamp)
	return err
}
