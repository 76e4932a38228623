package repository

import (
	"context"
	"fmt"

	"github.com/duynhne/vchartered/internal/core/domain"
)

// SQLiteActivityRepository implements domain.ActivityRepository on a local SQLite file.
type SQLiteActivityRepository struct {
	db DBTX
}

// NewSQLiteActivityRepository creates a new SQLiteActivityRepository.
func NewSQLiteActivityRepository(db DBTX) *SQLiteActivityRepository {
	return &SQLiteActivityRepository{db: db}
}

// Append inserts one activity row. Timestamps are stored as UTC text.
func (r *SQLiteActivityRepository) Append(ctx context.Context, event domain.ActivityEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activity_logs (email, action, details, timestamp) VALUES (?, ?, ?, ?)`,
		event.Email, string(event.Action), event.Details, event.Timestamp.UTC().Format(sqliteTimestampLayout),
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
