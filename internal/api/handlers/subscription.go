package handlers

import (
	"net/http"

	"reading-service/internal/api/middleware"
	"reading-service/internal/models"
	"reading-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	subscriptions SubscriptionCanceller
}

func NewSubscriptionHandler(subscriptions SubscriptionCanceller) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

// Cancel godoc
// @Summary Cancel a subscription
// @Description Voids the caller's subscription to the given package
// @Tags subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CancelSubscriptionRequest true "Package to cancel"
// @Success 201 {object} models.CancelSubscriptionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /subscriptions/cancel [post]
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	var req models.CancelSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	res, err := h.subscriptions.Cancel(c.Request.Context(), middleware.UserID(c), req.PackageType)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}
