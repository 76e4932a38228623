package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duynhne/vchartered/internal/core/domain"
)

// PgxResultRepository implements domain.ResultRepository using pgxpool.
type PgxResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new PgxResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *PgxResultRepository {
	return &PgxResultRepository{pool: pool}
}

// Create appends one result row.
func (r *PgxResultRepository) Create(ctx context.Context, email, subject string, score int, date time.Time) error {
	query := `INSERT INTO results (email, subject, score, date) VALUES ($1, $2, $3, $4)`
	_, err := r.pool.Exec(ctx, query, email, subject, score, date)
	return err
}

// Top returns the highest scores; ties keep insertion order.
func (r *PgxResultRepository) Top(ctx context.Context, limit int) ([]domain.ScoreEntry, error) {
	query := `SELECT email, subject, score FROM results ORDER BY score DESC, id ASC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.ScoreEntry, 0, limit)
	for rows.Next() {
		var e domain.ScoreEntry
		if err := rows.Scan(&e.Email, &e.Subject, &e.Score); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// ByEmail returns every result of the user in insertion order.
func (r *PgxResultRepository) ByEmail(ctx context.Context, email string) ([]domain.HistoryEntry, error) {
	query := `SELECT subject, score, date FROM results WHERE email = $1 ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		if err := rows.Scan(&e.Subject, &e.Score, &e.Date); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
