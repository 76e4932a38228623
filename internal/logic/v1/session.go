package v1

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/vchartered/internal/core/domain"
	"github.com/duynhne/vchartered/middleware"
)

// Identity is the caller a request acts on behalf of. The zero value is
// the anonymous caller.
type Identity struct {
	Email       string
	DisplayName string
}

// Anonymous is the identity of a request without a usable session token.
var Anonymous = Identity{}

// Authenticated reports whether the identity belongs to a registered user.
func (i Identity) Authenticated() bool {
	return i.Email != ""
}

// SessionManager derives the caller identity from a client-carried token
// on every request. It keeps no server-side session state: possession of a
// decodable token for a known user is the whole proof.
type SessionManager struct {
	store *CredentialStore
	codec TokenCodec
}

// NewSessionManager creates a SessionManager backed by the given store and codec.
func NewSessionManager(store *CredentialStore, codec TokenCodec) *SessionManager {
	return &SessionManager{store: store, codec: codec}
}

// Login verifies the credentials and mints a token for the email.
func (m *SessionManager) Login(ctx context.Context, email, password string) (string, Identity, error) {
	ctx, span := middleware.StartSpan(ctx, "session.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	displayName, err := m.store.Authenticate(ctx, email, password)
	if err != nil {
		span.RecordError(err)
		middleware.AuthOutcomes.WithLabelValues("login", "rejected").Inc()
		return "", Anonymous, err
	}

	token, err := m.codec.Encode(email)
	if err != nil {
		span.RecordError(err)
		middleware.AuthOutcomes.WithLabelValues("login", "error").Inc()
		return "", Anonymous, fmt.Errorf("encode session token: %w", err)
	}

	middleware.AuthOutcomes.WithLabelValues("login", "ok").Inc()
	m.store.RecordEvent(ctx, email, domain.ActionLogin, "")

	return token, Identity{Email: email, DisplayName: displayName}, nil
}

// Resolve decodes token and looks the user up. It never fails: empty,
// malformed or tampered tokens, unknown users and storage errors all
// resolve to Anonymous.
func (m *SessionManager) Resolve(ctx context.Context, token string) Identity {
	if token == "" {
		return Anonymous
	}

	email, ok := m.codec.Decode(token)
	if !ok {
		middleware.AuthOutcomes.WithLabelValues("resolve", "malformed").Inc()
		return Anonymous
	}

	user, err := m.store.Lookup(ctx, email)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Session lookup failed, treating caller as anonymous")
		middleware.AuthOutcomes.WithLabelValues("resolve", "error").Inc()
		return Anonymous
	}
	if user == nil {
		middleware.AuthOutcomes.WithLabelValues("resolve", "unknown").Inc()
		return Anonymous
	}

	return Identity{Email: user.Email, DisplayName: user.DisplayName}
}

// Logout records a Logout event for the identity the token resolved to
// (blank when already anonymous). Dropping the token from the address is
// the presentation layer's job, so repeated calls are harmless.
func (m *SessionManager) Logout(ctx context.Context, token string) Identity {
	prior := m.Resolve(ctx, token)
	m.store.RecordEvent(ctx, prior.Email, domain.ActionLogout, "")
	middleware.AuthOutcomes.WithLabelValues("logout", "ok").Inc()
	return Anonymous
}
