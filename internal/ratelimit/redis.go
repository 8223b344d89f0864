package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultKeyPrefix namespaces limiter keys in a shared Redis instance
const defaultKeyPrefix = "contactd:ratelimit"

// RedisStore is a counter store backed by Redis INCR with expiry, shared
// across service replicas. INCR is atomic on the server, so concurrent
// submissions from the same identity cannot lose updates.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// RedisOption configures the RedisStore
type RedisOption func(*RedisStore)

// WithKeyPrefix overrides the Redis key prefix
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// NewRedisStore creates a counter store on the given Redis client
func NewRedisStore(rdb *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		rdb:    rdb,
		prefix: defaultKeyPrefix,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Incr implements Store. The expiry is set only when the key has none, so
// the window runs from the first submission rather than sliding on each one.
func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	k := s.prefix + ":" + key

	pipe := s.rdb.Pipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	ttl := pipe.TTL(ctx, k)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	remaining := ttl.Val()
	if remaining < 0 {
		remaining = window
	}

	return incr.Val(), remaining, nil
}
