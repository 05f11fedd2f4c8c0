package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTLLeaderboard keeps leaderboards fresh enough for roster views without
// re-reading every participant record on each page load.
const TTLLeaderboard = 30 * time.Second

// ErrMiss is returned when a key is absent.
var ErrMiss = errors.New("cache miss")

type Cache struct {
	rdb *redis.Client
}

// New connects to Redis at the given URL. An empty URL disables caching;
// callers get a nil *Cache whose methods all report misses.
func New(ctx context.Context, redisURL string) (*Cache, error) {
	if redisURL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Cache{rdb: rdb}, nil
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	if c == nil {
		return "", ErrMiss
	}
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// LeaderboardKey scopes cached leaderboards by challenge and viewer (the
// viewer's own entry is pinned, so the rendering differs per user).
func LeaderboardKey(challengeName, userID string) string {
	return fmt.Sprintf("leaderboard:%s:%s", challengeName, userID)
}
