package handlers

import (
	"net/http"

	"reading-service/internal/api/middleware"
	"reading-service/internal/models"
	"reading-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type TokenHandler struct {
	tokens TokenManager
}

func NewTokenHandler(tokens TokenManager) *TokenHandler {
	return &TokenHandler{tokens: tokens}
}

// GetBalance godoc
// @Summary Get the caller's token balance
// @Tags tokens
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.TokenBalanceResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /tokens/balance [get]
func (h *TokenHandler) GetBalance(c *gin.Context) {
	balance, err := h.tokens.GetBalance(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

// SetBalance godoc
// @Summary Set the caller's token balance
// @Description Connected websocket subscribers receive the new balance
// @Tags tokens
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SetBalanceRequest true "New balance"
// @Success 200 {object} models.TokenBalanceResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /tokens/balance [patch]
func (h *TokenHandler) SetBalance(c *gin.Context) {
	var req models.SetBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	balance, err := h.tokens.SetBalance(c.Request.Context(), middleware.UserID(c), *req.TokenBalance)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}
