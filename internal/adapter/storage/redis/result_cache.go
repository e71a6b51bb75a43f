package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ResultCache implements ports.ResultCache using Redis. Operation results
// are cached under the client's reference id so retried requests return
// the original outcome instead of re-applying the mutation.
type ResultCache struct {
	client *goredis.Client
	prefix string
}

// NewResultCache creates a new Redis-backed operation result cache.
func NewResultCache(client *goredis.Client) *ResultCache {
	return &ResultCache{
		client: client,
		prefix: "opresult:",
	}
}

// Get retrieves a cached operation result by reference key.
// Returns nil, nil if the key does not exist.
func (c *ResultCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis result cache get: %w", err)
	}
	return val, nil
}

// Set stores an operation result with TTL.
func (c *ResultCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis result cache set: %w", err)
	}
	return nil
}
