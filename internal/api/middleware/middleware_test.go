package middleware

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"reading-service/internal/auth"
	"reading-service/internal/models"
	"reading-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct{}

func (fakeVerifier) VerifySession(_ context.Context, token string) (*auth.SessionClaims, error) {
	if token == "good" {
		return &auth.SessionClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user_1"}}, nil
	}
	return nil, auth.ErrInvalidToken
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRequireAuth(t *testing.T) {
	r := gin.New()
	r.GET("/me", NewAuthMiddleware(fakeVerifier{}).RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})

	cases := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"no header", "", http.StatusUnauthorized, response.MsgMissingToken},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, response.MsgMissingToken},
		{"invalid token", "Bearer forged", http.StatusUnauthorized, response.MsgInvalidToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.message, decodeError(t, w).Message)
		})
	}

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user_1", w.Body.String())
	})
}

func TestClerkWebhookGuard(t *testing.T) {
	secret := "whsec_" + base64.StdEncoding.EncodeToString([]byte("webhook-key"))
	body := `{"type":"user.created","data":{"id":"user_1"}}`

	r := gin.New()
	r.POST("/clerk-webhook", ClerkWebhookGuard(secret), func(c *gin.Context) {
		raw, _ := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, string(raw))
	})

	newRequest := func(sig string, ts time.Time) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/clerk-webhook", strings.NewReader(body))
		req.Header.Set(auth.HeaderSvixID, "msg_1")
		req.Header.Set(auth.HeaderSvixTimestamp, strconv.FormatInt(ts.Unix(), 10))
		req.Header.Set(auth.HeaderSvixSignature, sig)
		return req
	}

	t.Run("valid signature passes body through", func(t *testing.T) {
		now := time.Now()
		sig, err := auth.SignWebhook(secret, "msg_1", now, []byte(body))
		require.NoError(t, err)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, newRequest("v1,"+sig, now))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, body, w.Body.String())
	})

	t.Run("bad signature", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, newRequest("v1,bm9wZQ==", time.Now()))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, response.MsgWebhookSignature, decodeError(t, w).Message)
	})

	t.Run("missing headers", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/clerk-webhook", strings.NewReader(body)))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, response.MsgWebhookHeaders, decodeError(t, w).Message)
	})

	t.Run("secret not configured", func(t *testing.T) {
		unconfigured := gin.New()
		unconfigured.POST("/clerk-webhook", ClerkWebhookGuard(""), func(c *gin.Context) { c.Status(http.StatusOK) })
		w := httptest.NewRecorder()
		unconfigured.ServeHTTP(w, newRequest("v1,x", time.Now()))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, response.MsgWebhookSecretMissing, decodeError(t, w).Message)
	})
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

type fakeLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (f *fakeLimiter) CheckRateLimit(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	f.keys = append(f.keys, key)
	return f.allowed, f.err
}

func TestRateLimitIP(t *testing.T) {
	cases := []struct {
		name    string
		limiter *fakeLimiter
		status  int
	}{
		{"allowed", &fakeLimiter{allowed: true}, http.StatusOK},
		{"exceeded", &fakeLimiter{allowed: false}, http.StatusTooManyRequests},
		{"backend error", &fakeLimiter{err: errors.New("redis down")}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", NewRateLimitMiddleware(tc.limiter).RateLimitIP(5, time.Minute), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			require.Len(t, tc.limiter.keys, 1)
			assert.Equal(t, "rate_limit_ip:10.0.0.1:/health", tc.limiter.keys[0])
		})
	}
}

func TestRateLimit_KeysByUser(t *testing.T) {
	limiter := &fakeLimiter{allowed: true}
	r := gin.New()
	r.GET("/profile",
		func(c *gin.Context) { c.Set(ContextUserID, "user_1") },
		NewRateLimitMiddleware(limiter).RateLimit(100, time.Minute),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/profile", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"rate_limit:user_1:/profile"}, limiter.keys)
}
