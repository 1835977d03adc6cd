package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/alumnode/backend/internal/pkg/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RateLimiter limits requests per client IP with a fixed-window counter kept
// in redis, so the limit holds across instances.
type RateLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
	logger zerolog.Logger
	now    func() time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window. A nil
// client disables limiting.
func NewRateLimiter(client *redis.Client, prefix string, limit int, window time.Duration, logger zerolog.Logger) *RateLimiter {
	if window < time.Second {
		window = time.Second
	}
	return &RateLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
		logger: logger,
		now:    time.Now,
	}
}

// Allow counts one request for key and reports whether it is within the limit.
// Redis failures let the request through.
func (rl *RateLimiter) Allow(ctx context.Context, key string) bool {
	if rl.client == nil || rl.limit <= 0 {
		return true
	}

	bucket := rl.now().Unix() / int64(rl.window/time.Second)
	redisKey := fmt.Sprintf("ratelimit:%s:%s:%d", rl.prefix, key, bucket)

	count, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		rl.logger.Warn().Err(err).Msg("Rate limiter unavailable, allowing request")
		return true
	}
	if count == 1 {
		rl.client.Expire(ctx, redisKey, rl.window+time.Second)
	}
	return count <= int64(rl.limit)
}

// Limit returns a gin middleware enforcing the limit per client IP
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.Request.Context(), c.ClientIP()) {
			HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrRateLimited, "Too many requests, please try again later!"))
			c.Abort()
			return
		}
		c.Next()
	}
}
