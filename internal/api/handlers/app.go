package handlers

import (
	"crypto/subtle"
	"net/http"

	"reading-service/internal/api/middleware"
	"reading-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type AppHandler struct {
	healthSecret string
}

func NewAppHandler(healthSecret string) *AppHandler {
	return &AppHandler{healthSecret: healthSecret}
}

// GetHello godoc
// @Summary Root greeting
// @Tags app
// @Produce plain
// @Success 200 {string} string "Hello World!"
// @Router / [get]
func (h *AppHandler) GetHello(c *gin.Context) {
	c.String(http.StatusOK, "Hello World!")
}

// GetProtected godoc
// @Summary Echo the verified session
// @Tags app
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} models.ErrorResponse
// @Router /protected [get]
func (h *AppHandler) GetProtected(c *gin.Context) {
	claims, _ := c.Get(middleware.ContextClaims)
	c.JSON(http.StatusOK, gin.H{
		"message": "This is a protected route",
		"user":    claims,
	})
}

// CheckHealth godoc
// @Summary Health probe guarded by a shared secret
// @Tags health
// @Param secret query string true "Health secret"
// @Success 200
// @Failure 401 {object} models.ErrorResponse
// @Router /health [get]
func (h *AppHandler) CheckHealth(c *gin.Context) {
	secret := c.Query("secret")
	if h.healthSecret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(h.healthSecret)) != 1 {
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	c.Status(http.StatusOK)
}
