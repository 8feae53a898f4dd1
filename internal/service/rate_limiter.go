package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var ErrRateLimited = errors.New("too many requests, slow down")

// fixedWindowScript counts hits in the current window. The first hit sets
// the expiry, so the window starts with the first request.
//
// Returns {count, ttl_ms}.
var fixedWindowScript = redis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	local ttl = redis.call('PTTL', KEYS[1])
	return {count, ttl}
`)

const rateLimitKeyPrefix = "ratelimit:"

// RateLimiter allows at most limit hits per window for a key.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

type redisRateLimiter struct {
	redisClient *redis.Client
	log         *logrus.Logger
	limit       int
	window      time.Duration
}

// NewRateLimiter returns a limiter that never blocks when limit <= 0.
func NewRateLimiter(redisClient *redis.Client, log *logrus.Logger, limit int, window time.Duration) RateLimiter {
	return &redisRateLimiter{
		redisClient: redisClient,
		log:         log,
		limit:       limit,
		window:      window,
	}
}

// Allow reports whether the hit fits in the window and, when it does not,
// how long until the window resets.
func (l *redisRateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	if l.limit <= 0 {
		return true, 0, nil
	}

	res, err := fixedWindowScript.Run(ctx, l.redisClient, []string{rateLimitKeyPrefix + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		l.log.Warnf("Failed Lua script rate limit for %s: %+v", key, err)
		return false, 0, fmt.Errorf("lua rate limit for %s: %w", key, err)
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("lua rate limit for %s: unexpected reply %v", key, res)
	}

	count, ttl := res[0], time.Duration(res[1])*time.Millisecond
	if count > int64(l.limit) {
		if ttl < 0 {
			ttl = l.window
		}
		return false, ttl, nil
	}
	return true, 0, nil
}
