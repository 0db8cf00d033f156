package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var rdb *redis.Client

// RateLimitConfig defines the per-IP transport limit for an endpoint.
// This is the outer abuse layer; the OTP engine additionally enforces
// its own per-user limits against stored challenge records.
type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
	Algorithm   string // "fixed_window" or "sliding_window"
}

var rateLimitRules = map[string]RateLimitConfig{
	"auth_register": {
		MaxRequests: 3, // 3 registrations per hour from same IP
		Window:      time.Hour,
		Algorithm:   "fixed_window",
	},
	"auth_login": {
		MaxRequests: 10, // 10 login attempts per 15 minutes
		Window:      15 * time.Minute,
		Algorithm:   "sliding_window",
	},
	"otp_generate": {
		MaxRequests: 5, // 5 OTP requests per 10 minutes
		Window:      10 * time.Minute,
		Algorithm:   "sliding_window",
	},
	"otp_verify": {
		MaxRequests: 10, // 10 OTP attempts per 10 minutes
		Window:      10 * time.Minute,
		Algorithm:   "sliding_window",
	},
	"otp_resend": {
		MaxRequests: 3, // 3 OTP resends per hour
		Window:      time.Hour,
		Algorithm:   "fixed_window",
	},
}

var defaultRule = RateLimitConfig{
	MaxRequests: 60,
	Window:      time.Minute,
	Algorithm:   "sliding_window",
}

// InitRateLimiter wires the redis client. A nil client disables the
// transport limiter entirely.
func InitRateLimiter(redisClient *redis.Client) {
	rdb = redisClient
}

func getRateLimitRule(path, method string) RateLimitConfig {
	switch {
	case strings.Contains(path, "/auth/register"):
		return rateLimitRules["auth_register"]
	case strings.Contains(path, "/auth/login"):
		return rateLimitRules["auth_login"]
	case strings.Contains(path, "/otp/generate-otp"):
		return rateLimitRules["otp_generate"]
	case strings.Contains(path, "/otp/verify-otp"):
		return rateLimitRules["otp_verify"]
	case strings.Contains(path, "/otp/resend-otp"):
		return rateLimitRules["otp_resend"]
	default:
		return defaultRule
	}
}

func fixedWindowRateLimit(ctx context.Context, key string, config RateLimitConfig) (bool, int, error) {
	redisKey := fmt.Sprintf("rate:fw:%s", key)

	luaScript := `
	local key = KEYS[1]
	local expiry = tonumber(ARGV[1])
	local limit = tonumber(ARGV[2])

	local count = redis.call('INCR', key)
	if count == 1 then
		redis.call('EXPIRE', key, expiry)
	end

	if count > limit then
		return {0, 0}
	end

	return {1, limit - count}
	`

	result, err := rdb.Eval(ctx, luaScript, []string{redisKey},
		int(config.Window.Seconds()), config.MaxRequests).Result()
	if err != nil {
		return false, 0, err
	}

	results := result.([]interface{})
	allowed := results[0].(int64) == 1
	remaining := int(results[1].(int64))

	return allowed, remaining, nil
}

func slidingWindowRateLimit(ctx context.Context, key string, config RateLimitConfig) (bool, int, error) {
	now := time.Now().UnixMilli()
	windowStart := now - config.Window.Milliseconds()

	redisKey := fmt.Sprintf("rate:sw:%s", key)
	// Member must be unique per request; several requests can land in
	// the same millisecond and a bare timestamp would collapse them
	// into one ZSET entry.
	member := fmt.Sprintf("%d:%s", now, uuid.NewString())

	luaScript := `
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local max_requests = tonumber(ARGV[3])
	local window_seconds = tonumber(ARGV[4])
	local member = ARGV[5]

	redis.call('ZREMRANGEBYSCORE', key, 0, window_start)

	local current = redis.call('ZCARD', key)

	if current >= max_requests then
		return {0, 0}
	end

	redis.call('ZADD', key, now, member)
	redis.call('EXPIRE', key, window_seconds + 60)

	local remaining = max_requests - current - 1
	if remaining < 0 then remaining = 0 end

	return {1, remaining}
	`

	result, err := rdb.Eval(ctx, luaScript, []string{redisKey},
		now, windowStart, config.MaxRequests, int(config.Window.Seconds()), member).Result()
	if err != nil {
		return false, 0, err
	}

	results := result.([]interface{})
	allowed := results[0].(int64) == 1
	remaining := int(results[1].(int64))

	return allowed, remaining, nil
}

// RateLimiter applies per-IP limits keyed by method and path.
func RateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || c.Request.URL.Path == "/ping" || c.Request.URL.Path == "/" {
			c.Next()
			return
		}

		rule := getRateLimitRule(c.Request.URL.Path, c.Request.Method)
		key := fmt.Sprintf("%s:%s:ip:%s", c.Request.Method, c.Request.URL.Path, c.ClientIP())

		var (
			allowed   bool
			remaining int
			err       error
		)
		switch rule.Algorithm {
		case "fixed_window":
			allowed, remaining, err = fixedWindowRateLimit(c.Request.Context(), key, rule)
		default:
			allowed, remaining, err = slidingWindowRateLimit(c.Request.Context(), key, rule)
		}
		if err != nil {
			// Fail open when redis is unavailable.
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rule.MaxRequests))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(rule.Window).Unix()))

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"message":    fmt.Sprintf("Too many requests, please try again in %v", rule.Window),
				"retryAfter": int(rule.Window.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
