// Package limiter throttles login attempts with redis-backed counters,
// slowing down online password guessing against a single account or from a
// single address.
package limiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avoronova/postboard-auth/internal/common"
)

// ErrUnavailable reports that redis could not be reached. Callers decide the
// policy; the auth service fails open so login availability does not depend
// on the throttle backend.
var ErrUnavailable = errors.New("login limiter unavailable")

// LoginLimiter counts attempts per email and per client IP inside a fixed
// window, using the INCR-then-EXPIRE pattern. The first increment of a key
// starts its window.
type LoginLimiter struct {
	redis       *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginLimiter builds a limiter over the given redis client.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		redis:       client,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

// Enforce registers one attempt for the email and, when non-empty, the client
// IP, and returns common.ErrRateLimited once either budget is exhausted.
func (l *LoginLimiter) Enforce(ctx context.Context, email, ip string) error {
	if err := l.enforceKey(ctx, emailKey(email)); err != nil {
		return err
	}

	if ip != "" {
		if err := l.enforceKey(ctx, ipKey(ip)); err != nil {
			return err
		}
	}

	return nil
}

func (l *LoginLimiter) enforceKey(ctx context.Context, key string) error {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	if count > int64(l.maxAttempts) {
		return common.ErrRateLimited
	}

	return nil
}

func emailKey(email string) string {
	return "login:" + email
}

func ipKey(ip string) string {
	return "loginip:" + ip
}
