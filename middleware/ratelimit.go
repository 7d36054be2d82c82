package middleware

import (
	"fmt"
	"log/slog"
	"time"

	apperror "github.com/Yulian302/taskflow-gateway/errors"
	"github.com/Yulian302/taskflow-gateway/logging"
	"github.com/Yulian302/taskflow-gateway/ratelimit"
	"github.com/gin-gonic/gin"
)

const tooManyRequests = "Too many requests. Please try again later"

// RateLimiterMiddleware caps requests per client IP in a fixed window.
// Limiter errors let the request through.
func RateLimiterMiddleware(limiter ratelimit.RateLimiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		key := fmt.Sprintf("rate:ip:%s", ip)

		count, err := limiter.Incr(c.Request.Context(), key)
		if err != nil {
			logging.FromContext(c.Request.Context()).Warn("rate limiter unavailable", slog.Any("error", err))
			c.Next()
			return
		}

		if count == 1 {
			if err := limiter.Expire(c.Request.Context(), key, window); err != nil {
				logging.FromContext(c.Request.Context()).Warn("could not set expiration for rate limiting", slog.Any("error", err))
			}
		}

		if count > int64(limit) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			apperror.TooManyRequestsResponse(c, tooManyRequests)
			return
		}

		c.Next()
	}
}
