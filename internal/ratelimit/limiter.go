// Package ratelimit implements a Redis-backed token bucket used to guard
// the sign-up and sign-in endpoints.  The bucket state lives in Redis so
// multiple server instances share the same admission decisions.
package ratelimit

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kinolib/movie-storefront/internal/config"
)

// Limiter answers allow/deny for a client key.  A nil Redis client or a
// Redis error fails open: auth must stay usable when Redis is down.
type Limiter struct {
	cfg    config.RateLimitConfig
	rdb    *redis.Client
	script *redis.Script
}

// New returns a Limiter.  rdb may be nil, in which case every call is
// allowed.
func New(cfg config.RateLimitConfig, rdb *redis.Client) *Limiter {
	return &Limiter{
		cfg: cfg,
		rdb: rdb,
		script: redis.NewScript(`
            local key = KEYS[1]
            local now_ms = tonumber(ARGV[1])
            local capacity = tonumber(ARGV[2])
            local refill_tokens = tonumber(ARGV[3])
            local interval_ms = tonumber(ARGV[4])
            local ttl_seconds = tonumber(ARGV[5])

            local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
            local tokens = tonumber(state[1])
            local last_refill = tonumber(state[2])

            if tokens == nil or last_refill == nil then
                tokens = capacity
                last_refill = now_ms
            end

            if interval_ms > 0 and refill_tokens > 0 then
                local elapsed = math.max(0, now_ms - last_refill)
                local intervals = math.floor(elapsed / interval_ms)
                if intervals > 0 then
                    tokens = math.min(capacity, tokens + (intervals * refill_tokens))
                    last_refill = last_refill + (intervals * interval_ms)
                end
            end

            local allowed = 0
            if tokens > 0 then
                allowed = 1
                tokens = tokens - 1
            end

            redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
            redis.call('EXPIRE', key, ttl_seconds)

            return allowed
        `),
	}
}

// Allow consumes one token from the bucket for key and reports whether
// the action is admitted.  The key is usually the client's IP address.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if !l.cfg.Enabled || l.rdb == nil {
		return true
	}

	args := []interface{}{
		time.Now().UnixMilli(),
		l.cfg.Capacity,
		l.cfg.RefillTokens,
		l.cfg.RefillInterval.Milliseconds(),
		int64(l.cfg.TTL.Seconds()),
	}
	res, err := l.script.Run(ctx, l.rdb, []string{l.cfg.Prefix + ":" + key}, args...).Int64()
	if err != nil {
		if l.cfg.Debug {
			log.Printf("ratelimit: redis error for key=%s: %v", key, err)
		}
		return true
	}
	return res == 1
}
