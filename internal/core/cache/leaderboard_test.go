package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/vchartered/internal/core/domain"
)

func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisLeaderboard_DegradesWhenRedisIsDown(t *testing.T) {
	c := NewRedisLeaderboard(unreachableClient(t), time.Minute)
	ctx := context.Background()

	assert.NotPanics(t, func() {
		c.Set(ctx, 3, []domain.ScoreEntry{{Email: "a@x.com", Subject: "Audit", Score: 40}})
		c.Invalidate(ctx)
	})

	entries, ok := c.Get(ctx, 3)
	assert.False(t, ok)
	assert.Nil(t, entries)
}

func TestConnect_FailsFast(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := Connect(ctx, "127.0.0.1:1", "", 0)
	require.Error(t, err)
}
