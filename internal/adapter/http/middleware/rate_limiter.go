package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"userapp/internal/core/telemetry"
	"userapp/pkg/config"
)

const defaultRateLimitKey = "default"

type RateLimitEndpointConfig struct {
	Requests int
	Window   time.Duration
	KeyFunc  func(*gin.Context) string
}

// RateLimiter is a fixed-window counter per endpoint and client IP, kept in an
// expiring in-process cache.
type RateLimiter struct {
	cache   *cache.Cache
	config  map[string]RateLimitEndpointConfig
	logger  *config.Logger
	metrics *telemetry.AppMetrics
	mutex   sync.RWMutex
}

type RateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

// NewRateLimiter builds a limiter from "METHOD /path" keyed limits plus a
// "default" entry applied to everything else.
func NewRateLimiter(limits map[string]config.RateLimitConfig, logger *config.Logger, metrics *telemetry.AppMetrics) *RateLimiter {
	if logger == nil {
		logger = config.NewNopLogger()
	}

	configs := make(map[string]RateLimitEndpointConfig, len(limits)+1)

	for key, limit := range limits {
		configs[key] = RateLimitEndpointConfig{
			Requests: limit.Requests,
			Window:   limit.Window,
			KeyFunc:  clientIP,
		}
	}

	if _, ok := configs[defaultRateLimitKey]; !ok {
		configs[defaultRateLimitKey] = RateLimitEndpointConfig{
			Requests: 600,
			Window:   time.Minute,
			KeyFunc:  clientIP,
		}
	}

	return &RateLimiter{
		cache:   cache.New(5*time.Minute, 10*time.Minute),
		config:  configs,
		logger:  logger,
		metrics: metrics,
	}
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := routeLabel(c)
		endpoint, configKey := rl.lookup(c.Request.Method+" "+route, route)

		key := fmt.Sprintf("rate_limit:%s:%s", configKey, endpoint.KeyFunc(c))

		allowed, remaining, resetTime := rl.checkRateLimit(key, endpoint)

		c.Header("X-RateLimit-Limit", strconv.Itoa(endpoint.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(c.Request.Context(), route)
			}

			rl.logger.Ctx(c.Request.Context()).Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", c.Request.URL.Path),
				zap.Int("limit", endpoint.Requests),
				zap.Duration("window", endpoint.Window))

			retryAfter := int(time.Until(resetTime).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": retryAfter,
			})
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(c.Request.Context(), route)
		}

		c.Next()
	}
}

func (rl *RateLimiter) lookup(methodPath, path string) (RateLimitEndpointConfig, string) {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()

	if endpoint, ok := rl.config[methodPath]; ok {
		return endpoint, methodPath
	}

	if endpoint, ok := rl.config[path]; ok {
		return endpoint, path
	}

	return rl.config[defaultRateLimitKey], defaultRateLimitKey
}

func (rl *RateLimiter) checkRateLimit(key string, endpoint RateLimitEndpointConfig) (bool, int, time.Time) {
	now := time.Now()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if found, ok := rl.cache.Get(key); ok {
		entry := found.(RateLimitEntry)

		if now.Before(entry.ResetTime) {
			if entry.Count >= endpoint.Requests {
				return false, 0, entry.ResetTime
			}

			entry.Count++
			rl.cache.Set(key, entry, time.Until(entry.ResetTime))

			return true, endpoint.Requests - entry.Count, entry.ResetTime
		}
	}

	resetTime := now.Add(endpoint.Window)
	rl.cache.Set(key, RateLimitEntry{Count: 1, ResetTime: resetTime}, endpoint.Window)

	return true, endpoint.Requests - 1, resetTime
}

func (rl *RateLimiter) GetStats() map[string]any {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()

	return map[string]any{
		"active_entries": rl.cache.ItemCount(),
		"configs":        len(rl.config),
	}
}

func clientIP(c *gin.Context) string {
	return c.ClientIP()
}
