package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is the shared-store Limiter for multi-instance deployments.  The
// window is a counter key with a TTL: INCR opens or bumps it atomically and
// EXPIRE NX pins the TTL only when the key is created, so every instance
// observes the same window boundaries.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis wraps an already-connected client.  Prefix namespaces the keys
// (e.g. "rl") so limiter state coexists with other Redis users.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(identifier string) string {
	return fmt.Sprintf("%s:%s", r.prefix, identifier)
}

// Check implements Limiter.  Unlike the in-memory limiter a Redis failure
// is surfaced to the caller, which decides whether to fail open or closed.
func (r *Redis) Check(ctx context.Context, identifier string, max int, window time.Duration) (Result, error) {
	key := r.key(identifier)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	ttl := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, err
	}

	count := int(incr.Val())
	resetAt := time.Now().Add(window)
	if d := ttl.Val(); d > 0 {
		resetAt = time.Now().Add(d)
	}
	if count > max {
		return Result{Allowed: false, Remaining: 0, ResetAt: resetAt}, nil
	}
	return Result{Allowed: true, Remaining: max - count, ResetAt: resetAt}, nil
}

// Reset clears the window for an identifier.
func (r *Redis) Reset(ctx context.Context, identifier string) error {
	return r.client.Del(ctx, r.key(identifier)).Err()
}
