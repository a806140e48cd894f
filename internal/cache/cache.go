// Package cache provides a Redis-backed read cache for facet and stats results.
//
// Entries live under a generation number. Invalidate bumps the generation, so
// every older entry becomes unreachable at once and expires through its TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/honeycarbs/jobboard/internal/domain/job"
)

const defaultPrefix = "jobboard"

var _ job.Cache = (*Cache)(nil)

// Cache implements job.Cache on Redis
type Cache struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
}

// New connects to Redis at the given URL and returns a Cache.
// URL format: redis://localhost:6379/0
func New(redisURL string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("cache: invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: redis ping failed: %w", err)
	}

	return NewWithClient(client, ttl, defaultPrefix), nil
}

// NewWithClient wraps an existing client. prefix namespaces every key.
func NewWithClient(client redis.UniversalClient, ttl time.Duration, prefix string) *Cache {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Cache{client: client, ttl: ttl, prefix: prefix}
}

// Get decodes the entry for key into dst. Any miss or failure reports false.
// The returned slot pins a later Set to the generation read here.
func (c *Cache) Get(ctx context.Context, key string, dst any) (job.CacheSlot, bool) {
	gen, err := c.generation(ctx)
	if err != nil {
		return job.CacheSlot{Key: key, Generation: -1}, false
	}

	slot := job.CacheSlot{Key: key, Generation: gen}

	data, err := c.client.Get(ctx, c.entryKey(gen, key)).Bytes()
	if err != nil {
		return slot, false
	}

	return slot, json.Unmarshal(data, dst) == nil
}

// Set stores value in slot. A slot from an older generation is unreachable,
// so a value computed before an Invalidate expires unseen.
func (c *Cache) Set(ctx context.Context, slot job.CacheSlot, value any) error {
	if slot.Generation < 0 {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal error: %w", err)
	}

	return c.client.Set(ctx, c.entryKey(slot.Generation, slot.Key), data, c.ttl).Err()
}

// Invalidate starts a new generation
func (c *Cache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.generationKey()).Err(); err != nil {
		return fmt.Errorf("cache: bump generation: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *Cache) Close(context.Context) error {
	return c.client.Close()
}

func (c *Cache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache: read generation: %w", err)
	}
	return gen, nil
}

func (c *Cache) generationKey() string {
	return c.prefix + ":gen"
}

func (c *Cache) entryKey(gen int64, key string) string {
	return fmt.Sprintf("%s:%d:%s", c.prefix, gen, key)
}
