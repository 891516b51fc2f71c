// Package cache is an optional redis-backed read-through cache for hot
// character lookups. When no redis address is configured the client is nil
// and every method degrades to a no-op.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how stale a cached record may get.
const DefaultTTL = 5 * time.Minute

// Client wraps a redis connection with JSON marshaling.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to redis and verifies the connection. An empty address
// returns a nil client, which disables caching.
func New(ctx context.Context, addr, password string, db int, ttl time.Duration) (*Client, error) {
	if addr == "" {
		return nil, nil
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: connect: %w", err)
	}
	return &Client{rdb: rdb, ttl: ttl}, nil
}

// Enabled reports whether caching is active.
func (c *Client) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Get retrieves a key and unmarshals it into dest. The first return value
// reports whether the key was present.
func (c *Client) Get(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal([]byte(val), dest)
}

// Set stores a value under the key with the configured TTL.
func (c *Client) Set(ctx context.Context, key string, value any) error {
	if !c.Enabled() {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

// Delete removes keys. Missing keys are not an error.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
