// Package ratelimit throttles coupon redemption attempts per user so coupon
// codes cannot be brute forced.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisLimiter counts attempts in a fixed window keyed by user. The counter
// key expires with the window, so an idle user's slate clears on its own.
type RedisLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

func NewRedisLimiter(client *redis.Client, maxAttempts int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:      client,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

// Allow increments the user's attempt counter and reports whether this
// attempt is within the limit. The increment and the expiry are pipelined so
// a counter can never be created without a TTL.
func (l *RedisLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	key := fmt.Sprintf("coupon_attempts:%s", userID)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to count attempt: %w", err)
	}

	return incr.Val() <= int64(l.maxAttempts), nil
}
