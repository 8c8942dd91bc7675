package persistence

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps session keys in Redis under a common prefix so several
// storefront processes can share one server.
type RedisStore struct {
	client  *redis.Client
	prefix  string
	baseTTL time.Duration
}

// NewRedisStore returns a store writing keys as prefix+key. A zero baseTTL
// stores keys without expiry; otherwise each write gets up to five minutes
// of jitter on top so that idle sessions do not all expire together.
func NewRedisStore(client *redis.Client, prefix string, baseTTL time.Duration) *RedisStore {
	return &RedisStore{
		client:  client,
		prefix:  prefix,
		baseTTL: baseTTL,
	}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, r.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisStore) key(key string) string {
	return r.prefix + key
}

func (r *RedisStore) ttl() time.Duration {
	if r.baseTTL <= 0 {
		return 0
	}
	jitter := time.Duration(rand.Intn(5)) * time.Minute
	return r.baseTTL + jitter
}
