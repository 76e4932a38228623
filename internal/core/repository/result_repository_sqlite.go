package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/duynhne/vchartered/internal/core/domain"
)

// SQLiteResultRepository implements domain.ResultRepository on SQLite.
// Dates are stored as YYYY-MM-DD text.
type SQLiteResultRepository struct {
	db DBTX
}

// NewSQLiteResultRepository creates a new SQLiteResultRepository.
func NewSQLiteResultRepository(db DBTX) *SQLiteResultRepository {
	return &SQLiteResultRepository{db: db}
}

// Create appends one result row.
func (r *SQLiteResultRepository) Create(ctx context.Context, email, subject string, score int, date time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO results (email, subject, score, date) VALUES (?, ?, ?, ?)`,
		email, subject, score, date.Format(sqliteDateLayout),
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Top returns the highest scores; ties keep insertion order.
func (r *SQLiteResultRepository) Top(ctx context.Context, limit int) ([]domain.ScoreEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT email, subject, score FROM results ORDER BY score DESC, id ASC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.ScoreEntry, 0, limit)
	for rows.Next() {
		var e domain.ScoreEntry
		if err := rows.Scan(&e.Email, &e.Subject, &e.Score); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate result rows: %w", err)
	}
	return entries, nil
}

// ByEmail returns every result of the user in insertion order.
func (r *SQLiteResultRepository) ByEmail(ctx context.Context, email string) ([]domain.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT subject, score, date FROM results WHERE email = ? ORDER BY id ASC`, email,
	)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var (
			e    domain.HistoryEntry
			date string
		)
		if err := rows.Scan(&e.Subject, &e.Score, &date); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		e.Date, err = time.Parse(sqliteDateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("bad result date %q: %w", date, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate result rows: %w", err)
	}
	return entries, nil
}
