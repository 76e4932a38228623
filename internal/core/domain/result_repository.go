package domain

import (
	"context"
	"time"
)

// ResultRepository stores exam results for the leaderboard and history views.
type ResultRepository interface {
	// Create appends one result row dated at the given time.
	Create(ctx context.Context, email, subject string, score int, date time.Time) error

	// Top returns up to limit rows ordered by score descending; ties keep
	// insertion order.
	Top(ctx context.Context, limit int) ([]ScoreEntry, error)

	// ByEmail returns every result of the given user in insertion order.
	ByEmail(ctx context.Context, email string) ([]HistoryEntry, error)
}
