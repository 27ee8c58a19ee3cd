package rebac

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisKV implements KV using Redis for distributed deployments. Expiry is
// enforced by Redis itself; an expired key simply stops existing.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV creates a new Redis-backed key-value handle.
func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

// SetWithExpiry writes a value with the given TTL, overwriting any existing
// entry.
func (kv *RedisKV) SetWithExpiry(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := kv.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis kv: set failed: %w", err)
	}
	return nil
}

// Get returns the value for key. An absent or expired key is a miss, not an
// error.
func (kv *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := kv.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis kv: get failed: %w", err)
	}
	return value, true, nil
}

// Compile-time interface check
var _ KV = (*RedisKV)(nil)
