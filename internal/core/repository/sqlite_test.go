package repository_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/vchartered/internal/core"
	"github.com/duynhne/vchartered/internal/core/domain"
	"github.com/duynhne/vchartered/internal/core/repository"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := core.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, core.MigrateSQLite(ctx, db))
	return db
}

func TestSQLiteUsers_CreateThenGet(t *testing.T) {
	r := repository.NewSQLiteUserRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, "a@x.com", "Alice", "h1"))

	row, err := r.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, domain.UserRow{Email: "a@x.com", DisplayName: "Alice", PasswordHash: "h1"}, *row)
}

func TestSQLiteUsers_GetMissing_ReturnsNilNil(t *testing.T) {
	r := repository.NewSQLiteUserRepository(setupDB(t))

	row, err := r.GetByEmail(context.Background(), "ghost@x.com")
	require.NoError(t, err)
	require.Nil(t, row)
}

func TestSQLiteUsers_EmailIsCaseSensitive(t *testing.T) {
	r := repository.NewSQLiteUserRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, "a@x.com", "Alice", "h1"))

	row, err := r.GetByEmail(ctx, "A@X.COM")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestSQLiteUsers_DuplicateKeepsOriginal(t *testing.T) {
	r := repository.NewSQLiteUserRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, "a@x.com", "Alice", "h1"))
	err := r.Create(ctx, "a@x.com", "Mallory", "h2")
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)

	row, err := r.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", row.DisplayName)
	assert.Equal(t, "h1", row.PasswordHash)
}

func TestSQLiteUsers_ConcurrentDuplicateSignups(t *testing.T) {
	r := repository.NewSQLiteUserRepository(setupDB(t))
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := r.Create(ctx, "race@x.com", fmt.Sprintf("user-%d", i), "h")
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, created)
}

func TestSQLiteResults_TopOrdersByScoreWithTies(t *testing.T) {
	r := repository.NewSQLiteResultRepository(setupDB(t))
	ctx := context.Background()
	now := time.Now()

	for i, score := range []int{10, 50, 30, 50, 20} {
		require.NoError(t, r.Create(ctx, fmt.Sprintf("u%d@x.com", i), "Audit", score, now))
	}

	top, err := r.Top(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)

	assert.Equal(t, []int{50, 50, 30}, []int{top[0].Score, top[1].Score, top[2].Score})
	assert.ElementsMatch(t, []string{"u1@x.com", "u3@x.com"}, []string{top[0].Email, top[1].Email})
}

func TestSQLiteResults_ByEmailInInsertionOrder(t *testing.T) {
	r := repository.NewSQLiteResultRepository(setupDB(t))
	ctx := context.Background()
	day := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

	require.NoError(t, r.Create(ctx, "a@x.com", "Audit", 40, day))
	require.NoError(t, r.Create(ctx, "b@x.com", "Tax", 10, day))
	require.NoError(t, r.Create(ctx, "a@x.com", "Law", 35, day))

	hist, err := r.ByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "Audit", hist[0].Subject)
	assert.Equal(t, 40, hist[0].Score)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), hist[0].Date)
	assert.Equal(t, "Law", hist[1].Subject)
}

func TestSQLiteActivity_Append(t *testing.T) {
	db := setupDB(t)
	r := repository.NewSQLiteActivityRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Append(ctx, domain.ActivityEvent{
		Action:    domain.ActionVisit,
		Details:   "home",
		Timestamp: time.Now(),
	}))
	require.NoError(t, r.Append(ctx, domain.ActivityEvent{
		Email:     "a@x.com",
		Action:    domain.ActionLogin,
		Timestamp: time.Now(),
	}))

	rows, err := db.QueryContext(ctx, `SELECT email, action FROM activity_logs ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	var got []string
	for rows.Next() {
		var email, action string
		require.NoError(t, rows.Scan(&email, &action))
		got = append(got, email+"|"+action)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"|Visit", "a@x.com|Login"}, got)
}
