package v1

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/duynhne/vchartered/config"
	"github.com/duynhne/vchartered/internal/core"
	"github.com/duynhne/vchartered/internal/core/domain"
	"github.com/duynhne/vchartered/internal/core/repository"
	"github.com/duynhne/vchartered/internal/generation"
)

func newTestBackend(t *testing.T) *core.Store {
	t.Helper()
	st, err := core.Open(context.Background(), config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(st.Close)
	return st
}

func newTestStore(t *testing.T, opts ...StoreOption) *CredentialStore {
	t.Helper()
	st := newTestBackend(t)
	opts = append([]StoreOption{WithHasher(NewBcryptHasher(bcrypt.MinCost))}, opts...)
	return NewCredentialStore(st.Users, st.Results, st.Activity, opts...)
}

// newTestStoreDB is newTestStore with access to the underlying database,
// for tests that inspect the rows a flow leaves behind.
func newTestStoreDB(t *testing.T, opts ...StoreOption) (*CredentialStore, *sql.DB) {
	t.Helper()
	ctx := context.Background()
	db, err := core.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, core.MigrateSQLite(ctx, db))

	opts = append([]StoreOption{WithHasher(NewBcryptHasher(bcrypt.MinCost))}, opts...)
	return NewCredentialStore(
		repository.NewSQLiteUserRepository(db),
		repository.NewSQLiteResultRepository(db),
		repository.NewSQLiteActivityRepository(db),
		opts...,
	), db
}

// activityRows returns "email|action" for every activity row in insertion order.
func activityRows(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.QueryContext(context.Background(), `SELECT email, action FROM activity_logs ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	var got []string
	for rows.Next() {
		var email, action string
		require.NoError(t, rows.Scan(&email, &action))
		got = append(got, email+"|"+action)
	}
	require.NoError(t, rows.Err())
	return got
}

type failingActivity struct{ calls int }

func (f *failingActivity) Append(context.Context, domain.ActivityEvent) error {
	f.calls++
	return errors.New("activity table unreachable")
}

type failingResults struct{ domain.ResultRepository }

func (failingResults) Create(context.Context, string, string, int, time.Time) error {
	return errors.New("results table unreachable")
}

type fakeGenerator struct {
	text    string
	err     error
	prompts []string
	images  int
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string, images ...generation.Image) (string, error) {
	g.prompts = append(g.prompts, prompt)
	g.images += len(images)
	return g.text, g.err
}
