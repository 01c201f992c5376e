package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitMiddleware counts requests per route and caller in a fixed window.
// Anonymous callers are keyed by client IP.
func RateLimitMiddleware(redisClient *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := c.GetString(UserNameKey)
		if caller == "" {
			caller = c.ClientIP()
		}
		key := fmt.Sprintf("rate_limit:%s:%s", c.FullPath(), caller)

		// the window starts with the first request and is never extended
		ctx := c.Request.Context()
		pipe := redisClient.TxPipeline()
		count := pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		ttl := pipe.PTTL(ctx, key)
		if _, err := pipe.Exec(ctx); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Rate limit check failed"})
			c.Abort()
			return
		}

		if count.Val() > int64(limit) {
			c.Header("Retry-After", retryAfter(ttl.Val(), window))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// retryAfter renders the remaining window in whole seconds, rounded up.
func retryAfter(remaining, window time.Duration) string {
	if remaining <= 0 {
		remaining = window
	}
	return strconv.Itoa(int(math.Ceil(remaining.Seconds())))
}
