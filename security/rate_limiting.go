package security

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window per-caller limiter backed by Redis.
// Authenticated callers are keyed by user id, anonymous ones by IP.
type RateLimiter struct {
	redis *redis.Client
	limit int
}

func NewRateLimiter(redisClient *redis.Client, perMinute int) *RateLimiter {
	return &RateLimiter{redis: redisClient, limit: perMinute}
}

// RSVPRateLimit returns a route middleware for the RSVP endpoint.
func (r *RateLimiter) RSVPRateLimit() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		caller := e.RealIP()
		if e.Auth != nil {
			caller = "user:" + e.Auth.Id
		}

		allowed, err := r.Allow(e.Request.Context(), "rsvp", caller)
		if err != nil {
			// A broken limiter must not take the endpoint down with it.
			return e.Next()
		}
		if !allowed {
			return apis.NewApiError(http.StatusTooManyRequests, "Too many requests. Please try again later.", nil)
		}

		return e.Next()
	}
}

// Allow counts one request against the caller's current minute window.
func (r *RateLimiter) Allow(ctx context.Context, scope, caller string) (bool, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", scope, caller)

	count, err := r.redis.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if count == 1 {
		r.redis.Expire(ctx, key, time.Minute)
	}

	return count <= int64(r.limit), nil
}
