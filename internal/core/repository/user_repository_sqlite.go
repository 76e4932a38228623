package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/duynhne/vchartered/internal/core/domain"
)

// SQLiteUserRepository implements domain.UserRepository on a local SQLite file.
type SQLiteUserRepository struct {
	db DBTX
}

// NewSQLiteUserRepository creates a new SQLiteUserRepository.
func NewSQLiteUserRepository(db DBTX) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

// GetByEmail returns the user matching the given email.
// Returns (nil, nil) when no user is found.
func (r *SQLiteUserRepository) GetByEmail(ctx context.Context, email string) (*domain.UserRow, error) {
	var row domain.UserRow
	err := r.db.QueryRowContext(ctx,
		`SELECT email, username, password_hash FROM users WHERE email = ?`, email,
	).Scan(&row.Email, &row.DisplayName, &row.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &row, nil
}

// Create inserts a new user in one ON CONFLICT statement and reports
// domain.ErrDuplicateEmail when the email is already taken.
func (r *SQLiteUserRepository) Create(ctx context.Context, email, displayName, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (email, username, password_hash) VALUES (?, ?, ?)
		ON CONFLICT(email) DO NOTHING
	`, email, displayName, passwordHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return domain.ErrDuplicateEmail
	}
	return nil
}
