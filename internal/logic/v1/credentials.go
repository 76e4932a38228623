package v1

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/vchartered/internal/core/domain"
	"github.com/duynhne/vchartered/middleware"
)

const (
	defaultTopLimit = 10
	maxTopLimit     = 100
)

// LeaderboardCache caches top-N score lists. Implementations must be safe
// for concurrent use; every method is best-effort.
type LeaderboardCache interface {
	Get(ctx context.Context, limit int) ([]domain.ScoreEntry, bool)
	Set(ctx context.Context, limit int, entries []domain.ScoreEntry)
	Invalidate(ctx context.Context)
}

type noopCache struct{}

func (noopCache) Get(context.Context, int) ([]domain.ScoreEntry, bool) { return nil, false }
func (noopCache) Set(context.Context, int, []domain.ScoreEntry)       {}
func (noopCache) Invalidate(context.Context)                          {}

// CredentialStore is the authoritative record of registered identities and
// of the result and activity logs derived from them.
// It depends on repository interfaces (injected via constructor) and
// MUST NOT access the database or SQL directly.
type CredentialStore struct {
	users    domain.UserRepository
	results  domain.ResultRepository
	activity domain.ActivityRepository
	hasher   PasswordHasher
	cache    LeaderboardCache
	now      func() time.Time

	// resultsGen counts RecordResult calls; a TopScores read that overlaps
	// one is not written back to the cache.
	resultsGen atomic.Uint64

	dummyOnce sync.Once
	dummyHash string
}

// StoreOption customises a CredentialStore.
type StoreOption func(*CredentialStore)

// WithHasher replaces the default bcrypt hasher.
func WithHasher(h PasswordHasher) StoreOption {
	return func(s *CredentialStore) { s.hasher = h }
}

// WithLeaderboardCache puts a cache in front of TopScores.
func WithLeaderboardCache(c LeaderboardCache) StoreOption {
	return func(s *CredentialStore) { s.cache = c }
}

// WithClock overrides the time source used for result dates and event timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *CredentialStore) { s.now = now }
}

// NewCredentialStore creates a CredentialStore over the given repositories.
func NewCredentialStore(users domain.UserRepository, results domain.ResultRepository, activity domain.ActivityRepository, opts ...StoreOption) *CredentialStore {
	s := &CredentialStore{
		users:    users,
		results:  results,
		activity: activity,
		hasher:   NewBcryptHasher(0),
		cache:    noopCache{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a new user. The password is hashed before it reaches
// the repository. A duplicate email returns ErrUserExists and leaves the
// stored row untouched.
func (s *CredentialStore) Register(ctx context.Context, email, displayName, password string) error {
	ctx, span := middleware.StartSpan(ctx, "store.register", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if strings.TrimSpace(email) == "" || strings.TrimSpace(displayName) == "" || password == "" {
		return fmt.Errorf("register: email, display name and password are required: %w", ErrInvalidInput)
	}
	if !ValidEmail(email) {
		return fmt.Errorf("register %q: malformed email: %w", email, ErrInvalidInput)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.Create(ctx, email, displayName, hash); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			span.SetAttributes(attribute.Bool("registration.success", false))
			middleware.AuthOutcomes.WithLabelValues("register", "duplicate").Inc()
			return fmt.Errorf("register user %q: %w", email, ErrUserExists)
		}
		span.RecordError(err)
		middleware.AuthOutcomes.WithLabelValues("register", "error").Inc()
		return fmt.Errorf("insert user: %w", err)
	}

	span.SetAttributes(attribute.Bool("registration.success", true))
	span.AddEvent("user.registered")
	middleware.AuthOutcomes.WithLabelValues("register", "ok").Inc()

	s.RecordEvent(ctx, email, domain.ActionSignup, "")
	return nil
}

// Authenticate checks the password for email and returns the stored
// display name. Unknown emails and wrong passwords produce the same error,
// and an unknown email still pays for one hash comparison.
func (s *CredentialStore) Authenticate(ctx context.Context, email, password string) (string, error) {
	ctx, span := middleware.StartSpan(ctx, "store.authenticate", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	row, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("query user: %w", err)
	}

	if row == nil {
		s.hasher.Verify(s.dummy(), password)
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return "", fmt.Errorf("authenticate %q: %w", email, ErrInvalidCredentials)
	}
	if !s.hasher.Verify(row.PasswordHash, password) {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return "", fmt.Errorf("authenticate %q: %w", email, ErrInvalidCredentials)
	}

	span.SetAttributes(attribute.Bool("auth.success", true))
	span.AddEvent("user.authenticated")
	return row.DisplayName, nil
}

// Lookup returns the public view of the user, or (nil, nil) when unknown.
func (s *CredentialStore) Lookup(ctx context.Context, email string) (*domain.User, error) {
	row, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	return &domain.User{Email: row.Email, DisplayName: row.DisplayName}, nil
}

// RecordEvent appends an activity entry. Storage failures are logged and
// swallowed so they never break the calling flow.
func (s *CredentialStore) RecordEvent(ctx context.Context, email string, action domain.Action, details string) {
	err := s.activity.Append(ctx, domain.ActivityEvent{
		Email:     email,
		Action:    action,
		Details:   details,
		Timestamp: s.now(),
	})
	if err != nil {
		middleware.DroppedWrites.WithLabelValues("activity_logs").Inc()
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("action", string(action)).
			Msg("Failed to record activity")
	}
}

// RecordResult appends a result dated today and invalidates the cached leaderboard.
func (s *CredentialStore) RecordResult(ctx context.Context, email, subject string, score int) error {
	if err := s.results.Create(ctx, email, subject, score, s.now()); err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	s.resultsGen.Add(1)
	s.cache.Invalidate(ctx)
	return nil
}

// TopScores returns the best results, highest first. limit <= 0 selects the
// default; values above the cap are clamped.
func (s *CredentialStore) TopScores(ctx context.Context, limit int) ([]domain.ScoreEntry, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}

	if cached, ok := s.cache.Get(ctx, limit); ok {
		return cached, nil
	}

	gen := s.resultsGen.Load()
	entries, err := s.results.Top(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query top scores: %w", err)
	}
	if s.resultsGen.Load() == gen {
		s.cache.Set(ctx, limit, entries)
	}
	return entries, nil
}

// History returns every result recorded for email.
func (s *CredentialStore) History(ctx context.Context, email string) ([]domain.HistoryEntry, error) {
	entries, err := s.results.ByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	return entries, nil
}

func (s *CredentialStore) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("vchartered-dummy-password")
	})
	return s.dummyHash
}
