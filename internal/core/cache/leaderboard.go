// Package cache keeps short-lived copies of leaderboard queries in Redis.
package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/duynhne/vchartered/internal/core/domain"
)

// leaderboardKey holds one hash field per requested limit, so a single DEL
// drops every cached variant.
const leaderboardKey = "cache:leaderboard:top"

// RedisLeaderboard caches top-N score lists in a Redis hash.
type RedisLeaderboard struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisLeaderboard wraps an existing client. ttl bounds staleness for
// writers that bypass this process.
func NewRedisLeaderboard(rdb *redis.Client, ttl time.Duration) *RedisLeaderboard {
	return &RedisLeaderboard{rdb: rdb, ttl: ttl}
}

// Connect opens a Redis client and verifies it with a ping.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// Get returns the cached list for limit. Misses and Redis errors both
// report ok=false.
func (c *RedisLeaderboard) Get(ctx context.Context, limit int) ([]domain.ScoreEntry, bool) {
	data, err := c.rdb.HGet(ctx, leaderboardKey, strconv.Itoa(limit)).Bytes()
	if err != nil {
		if err != redis.Nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("Leaderboard cache read failed")
		}
		return nil, false
	}

	var entries []domain.ScoreEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

// Set stores entries for limit and refreshes the key TTL.
func (c *RedisLeaderboard) Set(ctx context.Context, limit int, entries []domain.ScoreEntry) {
	data, err := json.Marshal(entries)
	if err != nil {
		return
	}

	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, leaderboardKey, strconv.Itoa(limit), data)
	pipe.Expire(ctx, leaderboardKey, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Leaderboard cache write failed")
	}
}

// Invalidate drops every cached limit.
func (c *RedisLeaderboard) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, leaderboardKey).Err(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Leaderboard cache invalidation failed")
	}
}
