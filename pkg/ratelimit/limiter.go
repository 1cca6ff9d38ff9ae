// Package ratelimit implements a Redis-backed sliding window limiter.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// slidingWindow trims entries older than the window, then admits the call
// when fewer than limit remain. Returns {allowed, remaining, reset_at_ms}.
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
	local current = redis.call('ZCARD', key)

	if current < limit then
		local counter = redis.call('INCR', key .. ':seq')
		redis.call('ZADD', key, now, now .. ':' .. counter)
		local expire_seconds = math.ceil(window_ms / 1000)
		redis.call('EXPIRE', key, expire_seconds)
		redis.call('EXPIRE', key .. ':seq', expire_seconds)
		return {1, limit - current - 1, 0}
	end

	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	local reset_at = 0
	if oldest and #oldest >= 2 then
		reset_at = tonumber(oldest[2]) + window_ms
	end
	return {0, 0, reset_at}
`)

var ErrNoClient = errors.New("ratelimit: redis client is nil")

// Result describes the outcome of one Allow call.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
	Limit     int
}

// RetryAfter is the wait until the window frees a slot.
func (r *Result) RetryAfter(now time.Time) time.Duration {
	if r.Allowed || !r.ResetAt.After(now) {
		return 0
	}
	return r.ResetAt.Sub(now)
}

type Limiter struct {
	client    redis.Scripter
	keyPrefix string
	now       func() time.Time
}

func NewLimiter(client redis.Scripter, keyPrefix string) *Limiter {
	return &Limiter{
		client:    client,
		keyPrefix: keyPrefix,
		now:       time.Now,
	}
}

// Allow records one call for key and reports whether it fits in the window.
func (l *Limiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	if l.client == nil {
		return nil, ErrNoClient
	}
	if limit <= 0 || window <= 0 {
		return nil, fmt.Errorf("ratelimit: invalid limit %d per %s", limit, window)
	}

	now := l.now()
	redisKey := l.keyPrefix + ":" + key

	values, err := slidingWindow.Run(ctx, l.client, []string{redisKey},
		now.UnixMilli(), now.Add(-window).UnixMilli(), limit, window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("ratelimit: script failed: %w", err)
	}
	if len(values) != 3 {
		return nil, fmt.Errorf("ratelimit: unexpected response length %d", len(values))
	}

	resetAt := now.Add(window)
	if values[2] > 0 {
		resetAt = time.UnixMilli(values[2])
	}

	return &Result{
		Allowed:   values[0] == 1,
		Remaining: int(values[1]),
		ResetAt:   resetAt,
		Limit:     limit,
	}, nil
}
