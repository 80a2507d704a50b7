package middleware

import (
	"context"
	"strings"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/nguyentranbao-ct/complaint-registry/internal/models"
)

// Limiter is a token bucket rate limiter backed by Redis.
type Limiter struct {
	rdb    redis.Scripter
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

// NewLimiter allows limit requests per window for each key. A nil client
// disables limiting.
func NewLimiter(rdb redis.Scripter, limit int, window time.Duration, prefix string) *Limiter {
	if prefix == "" {
		prefix = "rl:"
	} else if !strings.HasPrefix(prefix, "rl:") {
		prefix = "rl:" + prefix
	}
	return &Limiter{rdb: rdb, limit: limit, window: window, prefix: prefix, now: time.Now}
}

// Allow consumes a token for key if one is available.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	if l == nil || l.rdb == nil || l.limit <= 0 {
		return true, nil
	}
	interval := l.window.Milliseconds() / int64(l.limit)
	if interval <= 0 {
		interval = 1
	}
	now := l.now().UnixMilli()
	res, err := tokenBucket.Run(ctx, l.rdb, []string{l.prefix + key}, l.limit, interval, now).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

// RateLimit throttles requests per client IP. Redis failures let the request through.
func RateLimit(l *Limiter) echo.MiddlewareFunc {
	return RateLimitWithKey(l, func(c echo.Context) string {
		return c.RealIP()
	})
}

func RateLimitWithKey(l *Limiter, keyFunc func(c echo.Context) string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			ok, err := l.Allow(ctx, keyFunc(c))
			if err != nil {
				log.Warnw(ctx, "rate limiter unavailable", "error", err)
				return next(c)
			}
			if !ok {
				return models.ErrRateLimited
			}
			return next(c)
		}
	}
}

// tokenBucket stores the remaining tokens and last refill timestamp in a hash per key.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local interval = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local data = redis.call('HMGET', key, 'tokens', 'ts')
local tokens = tonumber(data[1])
local ts = tonumber(data[2])
if tokens == nil then
  tokens = capacity
  ts = now
else
  local delta = now - ts
  local add = math.floor(delta / interval)
  if add > 0 then
    tokens = math.min(tokens + add, capacity)
    ts = ts + add * interval
  end
end
local allowed = 0
if tokens > 0 then
  tokens = tokens - 1
  allowed = 1
end
redis.call('HSET', key, 'tokens', tokens, 'ts', ts)
redis.call('PEXPIRE', key, interval * capacity)
return allowed
`)
