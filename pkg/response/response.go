package response

import (
	"errors"
	"log/slog"
	"net/http"

	"reading-service/internal/auth"
	"reading-service/internal/models"
	"reading-service/internal/services"

	"github.com/gin-gonic/gin"
)

// Messages returned to API clients.
const (
	MsgMissingToken         = "No authentication token provided"
	MsgInvalidToken         = "Invalid authentication token"
	MsgWebhookSecretMissing = "Webhook secret not configured"
	MsgWebhookHeaders       = "Missing webhook signature headers"
	MsgWebhookSignature     = "Invalid clerk webhook signature"
	MsgWebhookTimestamp     = "Clerk webhook timestamp too old"
	MsgInternal             = "Internal server error"
)

var statusMessages = []struct {
	err     error
	status  int
	message string
}{
	{auth.ErrMissingToken, http.StatusUnauthorized, MsgMissingToken},
	{auth.ErrInvalidToken, http.StatusUnauthorized, MsgInvalidToken},
	{auth.ErrWebhookSecretMissing, http.StatusUnauthorized, MsgWebhookSecretMissing},
	{auth.ErrWebhookHeadersMissing, http.StatusUnauthorized, MsgWebhookHeaders},
	{auth.ErrWebhookSignature, http.StatusUnauthorized, MsgWebhookSignature},
	{auth.ErrWebhookTimestamp, http.StatusUnauthorized, MsgWebhookTimestamp},
	{services.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{services.ErrPackageNotFound, http.StatusNotFound, "Package not found"},
	{services.ErrSubscriptionNotFound, http.StatusNotFound, "Subscription not found"},
	{services.ErrArtistNotFound, http.StatusNotFound, "Artist not found"},
	{services.ErrUserAlreadyExists, http.StatusConflict, "User already exists"},
	{services.ErrMissingUserID, http.StatusBadRequest, "Missing user ID in webhook data"},
	{services.ErrInvalidRequest, http.StatusBadRequest, "Invalid request"},
}

// StatusFor maps a domain error to its HTTP status and client message.
func StatusFor(err error) (int, string) {
	for _, m := range statusMessages {
		if errors.Is(err, m.err) {
			return m.status, m.message
		}
	}
	return http.StatusInternalServerError, MsgInternal
}

// Error aborts the request with a models.ErrorResponse body.
func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		StatusCode: status,
		Message:    message,
		Error:      http.StatusText(status),
	})
}

// FromError aborts the request with the status err maps to.
func FromError(c *gin.Context, err error) {
	status, message := StatusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	Error(c, status, message)
}

// BadRequest reports a binding or validation failure.
func BadRequest(c *gin.Context, err error) {
	Error(c, http.StatusBadRequest, err.Error())
}
