package redis

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// counter is the subset of RedisClient a fixed-window limiter needs.
type counter interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
}

type RateLimiter struct {
	client counter
}

func NewRateLimiter(client RedisClient) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow counts one hit against key and reports whether the window still has room.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, err
	}

	if count == 1 {
		err = r.client.Expire(ctx, key, window)
		if err != nil {
			return false, err
		}
	}

	if count > int64(limit) {
		return false, nil
	}

	return true, nil
}

func LoginKey(mobile string) string {
	return fmt.Sprintf("rate_limit:login:%s", strings.TrimSpace(mobile))
}

func SMSKey(to string) string {
	return fmt.Sprintf("rate_limit:sms:%s", strings.TrimSpace(to))
}
