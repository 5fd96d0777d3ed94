package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"reading-service/internal/auth"
	"reading-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// Context keys set by RequireAuth.
const (
	ContextUserID = "clerk_user_id"
	ContextClaims = "session_claims"
)

type SessionVerifier interface {
	VerifySession(ctx context.Context, token string) (*auth.SessionClaims, error)
}

type AuthMiddleware struct {
	verifier SessionVerifier
}

func NewAuthMiddleware(verifier SessionVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Error(c, http.StatusUnauthorized, response.MsgMissingToken)
			return
		}

		claims, err := am.verifier.VerifySession(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrMissingToken) {
				response.Error(c, http.StatusUnauthorized, response.MsgMissingToken)
				return
			}
			response.Error(c, http.StatusUnauthorized, response.MsgInvalidToken)
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// bearerToken returns the token of a "Bearer <token>" header, or "".
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" {
		return ""
	}
	return strings.TrimSpace(token)
}

// UserID returns the authenticated user set by RequireAuth.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
