package utils

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// WindowCounter increments the counter for key and returns the new value.
// The counter expires after window.
type WindowCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter is a fixed-window counter shared by every API instance.
type RedisCounter struct {
	rdb *redis.Client
}

func NewRedisCounter(rdb *redis.Client) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	ms := window.Milliseconds()
	if ms <= 0 {
		ms = time.Minute.Milliseconds()
	}
	res, err := fixedWindowScript.Run(ctx, r.rdb, []string{key}, ms).Result()
	if err != nil {
		return 0, err
	}
	switch v := res.(type) {
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected redis script result type %T", res)
	}
}

// Violation describes a client that went over its limit.
type Violation struct {
	ClientKey   string
	Route       string
	Count       int64
	Limit       int
	WindowStart time.Time
}

// RateLimiter limits requests per client and route.
type RateLimiter struct {
	Counter  WindowCounter
	Limit    int
	Window   time.Duration
	Prefix   string
	FailOpen bool
	Logger   *slog.Logger
	// OnViolation runs once per client, route and window.
	OnViolation func(ctx context.Context, v Violation)
	now         func() time.Time
}

func NewRateLimiter(counter WindowCounter, limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		Counter:  counter,
		Limit:    limit,
		Window:   window,
		Prefix:   "rl",
		FailOpen: true,
		Logger:   slog.Default(),
		now:      time.Now,
	}
}

// clientKey prefers the authenticated user over the remote address.
func clientKey(c *gin.Context) string {
	if id := c.GetString("userId"); id != "" {
		return "user:" + id
	}
	return "ip:" + c.ClientIP()
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := rl.now()
		windowStart := now.Truncate(rl.Window)
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		client := clientKey(c)
		key := strings.Join([]string{rl.Prefix, route, client, strconv.FormatInt(windowStart.Unix(), 10)}, ":")

		count, err := rl.Counter.Incr(c.Request.Context(), key, rl.Window)
		if err != nil {
			rl.Logger.Warn("rate limiter error", "error", err, "route", route)
			if rl.FailOpen {
				c.Next()
				return
			}
			RespondWithError(c, http.StatusServiceUnavailable, "rate limiter unavailable")
			return
		}

		remaining := int64(rl.Limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(rl.Limit) {
			if count == int64(rl.Limit)+1 && rl.OnViolation != nil {
				rl.OnViolation(c.Request.Context(), Violation{
					ClientKey:   client,
					Route:       route,
					Count:       count,
					Limit:       rl.Limit,
					WindowStart: windowStart,
				})
			}
			retry := windowStart.Add(rl.Window).Sub(now)
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
			RespondWithError(c, http.StatusTooManyRequests, "Too many requests. Please try again later.")
			return
		}
		c.Next()
	}
}
