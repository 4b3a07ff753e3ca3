package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pageza/recipe-api/backend/internal/apperrors"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// Limiter decides whether a request identified by key may proceed.
// It returns whether the request is allowed, the requests left in the
// current window and when the window resets.
type Limiter interface {
	IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error)
	Config() RateLimitConfig
}

// RateLimiter is a fixed window limiter backed by Redis
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
	}
}

func (rl *RateLimiter) Config() RateLimitConfig {
	return rl.config
}

// IsAllowed counts a request against key in the current window
func (rl *RateLimiter) IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error) {
	windowStart := time.Now().Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= rl.config.Limit, remaining, windowStart.Add(rl.config.Window), nil
}

// LocalRateLimiter is an in-process token bucket limiter used when Redis is
// not configured. Limits are per process.
type LocalRateLimiter struct {
	config  RateLimitConfig
	maxKeys int

	mu       sync.Mutex
	limiters map[string]*localEntry
}

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewLocalRateLimiter(config RateLimitConfig) *LocalRateLimiter {
	return &LocalRateLimiter{
		config:   config,
		maxKeys:  10000,
		limiters: make(map[string]*localEntry),
	}
}

func (l *LocalRateLimiter) Config() RateLimitConfig {
	return l.config
}

func (l *LocalRateLimiter) IsAllowed(_ context.Context, key string) (bool, int, time.Time, error) {
	now := time.Now()
	every := l.config.Window / time.Duration(l.config.Limit)

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= l.maxKeys {
			l.evict(now)
		}
		entry = &localEntry{limiter: rate.NewLimiter(rate.Every(every), l.config.Limit)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now

	allowed := entry.limiter.AllowN(now, 1)
	remaining := int(entry.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return allowed, remaining, now.Add(every), nil
}

// evict drops buckets idle for a full window.
func (l *LocalRateLimiter) evict(now time.Time) {
	for k, e := range l.limiters {
		if now.Sub(e.lastSeen) > l.config.Window {
			delete(l.limiters, k)
		}
	}
}

// NewTokenRateLimiter limits token requests per client. It uses Redis when
// a client is given and an in-process limiter otherwise.
func NewTokenRateLimiter(redisClient *redis.Client, perMinute int) Limiter {
	cfg := RateLimitConfig{
		Window:    time.Minute,
		Limit:     perMinute,
		KeyPrefix: "rate_limit:token",
	}
	if redisClient != nil {
		return NewRateLimiter(redisClient, cfg)
	}
	return NewLocalRateLimiter(cfg)
}

// RateLimitMiddleware enforces l per client IP. Limiter errors let the
// request through.
func RateLimitMiddleware(l Limiter, log *zap.Logger) gin.HandlerFunc {
	cfg := l.Config()
	return func(c *gin.Context) {
		allowed, remaining, resetTime, err := l.IsAllowed(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warn("rate limit check failed", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			retryAfter := int(time.Until(resetTime).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, &apperrors.Error{
				Code:    apperrors.CodeRateLimited,
				Message: fmt.Sprintf("You have exceeded the rate limit of %d requests per %v", cfg.Limit, cfg.Window),
			})
			return
		}

		c.Next()
	}
}
