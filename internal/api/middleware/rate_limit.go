package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"reading-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type RateLimitMiddleware struct {
	limiter RateLimiter
}

func NewRateLimitMiddleware(limiter RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

// RateLimit limits authenticated requests per user and path.
func (rm *RateLimitMiddleware) RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserID(c)
		if userID == "" {
			response.Error(c, http.StatusUnauthorized, response.MsgMissingToken)
			return
		}
		rm.check(c, fmt.Sprintf("rate_limit:%s:%s", userID, c.Request.URL.Path), requests, window)
	}
}

// RateLimitIP limits public requests per client IP and path.
func (rm *RateLimitMiddleware) RateLimitIP(requests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		rm.check(c, fmt.Sprintf("rate_limit_ip:%s:%s", c.ClientIP(), c.Request.URL.Path), requests, window)
	}
}

// WebSocketRateLimit limits handshakes per client IP, before the
// connection has authenticated.
func (rm *RateLimitMiddleware) WebSocketRateLimit(requests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		rm.check(c, fmt.Sprintf("rate_limit:websocket:%s", c.ClientIP()), requests, window)
	}
}

func (rm *RateLimitMiddleware) check(c *gin.Context, key string, requests int, window time.Duration) {
	allowed, err := rm.limiter.CheckRateLimit(c.Request.Context(), key, requests, window)
	if err != nil {
		slog.Error("Rate limit check failed", "key", key, "error", err)
		response.Error(c, http.StatusInternalServerError, "Rate limit check failed")
		return
	}
	if !allowed {
		response.Error(c, http.StatusTooManyRequests, fmt.Sprintf("Too many requests. Limit: %d per %v", requests, window))
		return
	}
	c.Next()
}
