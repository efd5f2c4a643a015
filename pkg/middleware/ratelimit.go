package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shareit-team/shareit-server/pkg/ratelimit"
	"github.com/shareit-team/shareit-server/pkg/response"
)

// RateLimitMiddleware rejects requests over the limit with 429. The key is the acting
// user header when present and the client IP otherwise. Limiter failures let the
// request through.
func RateLimitMiddleware(limiter ratelimit.Limiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if uid := c.GetHeader(UserIDHeader); uid != "" {
			key = "user:" + uid
		}

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			response.TooManyRequests(c, "Too many requests")
			return
		}
		c.Next()
	}
}
