package domain

import (
	"context"
	"errors"
)

// ErrDuplicateEmail is returned by UserRepository.Create when the email is
// already registered. No row is written in that case.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRow represents a user record returned from the database.
// It includes the password hash so the Logic layer can verify credentials.
type UserRow struct {
	Email        string
	DisplayName  string
	PasswordHash string
}

// UserRepository defines the data-access contract for user operations.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only, never on SQL directly.
type UserRepository interface {
	// GetByEmail returns the user matching the given email.
	// Returns (nil, nil) when no user is found.
	GetByEmail(ctx context.Context, email string) (*UserRow, error)

	// Create inserts a new user in a single statement.
	// Returns ErrDuplicateEmail when the email already exists.
	Create(ctx context.Context, email, displayName, passwordHash string) error
}
