package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Dharanish-AM/InterVueAI/internal/delivery/http/response"
	"github.com/Dharanish-AM/InterVueAI/pkg/logger"
	"github.com/Dharanish-AM/InterVueAI/pkg/redis"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Key prefix for Redis
	KeyPrefix string
}

// rateLimitEntry tracks request count for a key (in-memory fallback)
type rateLimitEntry struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

var (
	rateLimitStore = sync.Map{}
	cleanupOnce    sync.Once
)

// Lua script for atomic increment with TTL on first set.
// KEYS[1] = counter key, ARGV[1] = TTL in seconds.
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

// GlobalRateLimitConfig limits every endpoint per client IP.
func GlobalRateLimitConfig(limit, windowSeconds int) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    time.Duration(windowSeconds) * time.Second,
		KeyPrefix: "rl:ip:",
	}
}

// UploadRateLimitConfig is stricter: resume uploads fan out into
// extraction work and oracle calls.
func UploadRateLimitConfig(limit, windowSeconds int) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    time.Duration(windowSeconds) * time.Second,
		KeyPrefix: "rl:upload:",
	}
}

// RateLimit enforces the configured limit per client IP, preferring
// Redis and degrading to the in-memory store when it is unavailable.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	cleanupOnce.Do(startCleanup)

	return func(c *gin.Context) {
		key := cfg.KeyPrefix + c.ClientIP()

		count, ok := redisIncrement(c, key, cfg.Window)
		if !ok {
			count = memoryIncrement(key, cfg.Window)
		}

		if count > cfg.Limit {
			c.Header("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))
			response.Error(c, http.StatusTooManyRequests, "Too many requests. Please slow down.", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

func redisIncrement(c *gin.Context, key string, window time.Duration) (int, bool) {
	client := redis.Client()
	if client == nil {
		return 0, false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 500*time.Millisecond)
	defer cancel()

	result, err := client.Eval(ctx, rateLimitLuaScript, []string{key},
		int(window.Seconds())).Int()
	if err != nil {
		logger.Log.Warn("rate limit redis error, using in-memory fallback", "error", err)
		return 0, false
	}
	return result, true
}

func memoryIncrement(key string, window time.Duration) int {
	now := time.Now()
	value, _ := rateLimitStore.LoadOrStore(key, &rateLimitEntry{resetAt: now.Add(window)})
	entry := value.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(window)
	}
	entry.count++
	return entry.count
}

// startCleanup runs a background goroutine to clean up expired entries
func startCleanup() {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		for range ticker.C {
			now := time.Now()
			rateLimitStore.Range(func(key, value interface{}) bool {
				entry := value.(*rateLimitEntry)
				entry.mu.Lock()
				expired := now.After(entry.resetAt)
				entry.mu.Unlock()
				if expired {
					rateLimitStore.Delete(key)
				}
				return true
			})
		}
	}()
}
