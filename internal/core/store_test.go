package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/vchartered/config"
)

func TestOpen_SQLiteMemory(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(store.Close)

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Users.Create(ctx, "a@x.com", "Alice", "hash"))

	row, err := store.Users.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "Alice", row.DisplayName)
}

func TestMigrateSQLite_Idempotent(t *testing.T) {
	ctx := context.Background()

	db, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, MigrateSQLite(ctx, db))
	require.NoError(t, MigrateSQLite(ctx, db))

	var n int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'results', 'activity_logs')`,
	).Scan(&n))
	assert.Equal(t, 3, n)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
