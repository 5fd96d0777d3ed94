package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"

	"reading-service/internal/auth"
	"reading-service/pkg/response"

	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 1 << 20

// ClerkWebhookGuard verifies the svix signature over the raw request body
// and leaves the body readable for the handler.
func ClerkWebhookGuard(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Unable to read request body")
			return
		}

		if err := auth.VerifyWebhook(secret, c.Request.Header, body, time.Now()); err != nil {
			slog.Warn("Rejected clerk webhook", "error", err, "remoteAddr", c.ClientIP())
			response.FromError(c, err)
			return
		}

		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Next()
	}
}
