// Package v1 provides the credential store, session and study business
// logic for API version 1.
//
// Error Handling:
// This package defines sentinel errors that represent common failures.
// They are wrapped with context using fmt.Errorf("%w") when returned from
// business logic methods.
//
// Example Usage:
//
//	if row == nil || !s.hasher.Verify(row.PasswordHash, password) {
//	    return "", fmt.Errorf("authenticate %q: %w", email, ErrInvalidCredentials)
//	}
//
// Error Checking (in handlers):
//
//	switch {
//	case errors.Is(err, logicv1.ErrInvalidCredentials):
//	    c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
//	default:
//	    c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
//	}
package v1

import "errors"

// Sentinel errors for credential, session and study operations.
var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	// HTTP Status: 401 Unauthorized
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserExists indicates the email is already registered.
	// HTTP Status: 409 Conflict
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidInput indicates a required field is empty or malformed.
	// HTTP Status: 400 Bad Request
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthenticated indicates the request carries no valid session token.
	// HTTP Status: 401 Unauthorized
	ErrUnauthenticated = errors.New("authentication required")

	// ErrGenerationFailed indicates the generation service failed after its retry.
	// HTTP Status: 502 Bad Gateway
	ErrGenerationFailed = errors.New("generation failed")

	// ErrGenerationUnavailable indicates no generation service is configured.
	// HTTP Status: 503 Service Unavailable
	ErrGenerationUnavailable = errors.New("generation unavailable")
)
