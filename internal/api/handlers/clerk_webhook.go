package handlers

import (
	"net/http"

	"reading-service/internal/models"
	"reading-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type ClerkWebhookHandler struct {
	events ClerkEventHandler
}

func NewClerkWebhookHandler(events ClerkEventHandler) *ClerkWebhookHandler {
	return &ClerkWebhookHandler{events: events}
}

// HandleClerkWebhook godoc
// @Summary Identity provider webhook
// @Description Svix signed user.created and user.deleted events
// @Tags webhooks
// @Accept json
// @Produce json
// @Param svix-id header string true "Message ID"
// @Param svix-timestamp header string true "Unix timestamp"
// @Param svix-signature header string true "Signatures"
// @Success 201 {object} models.ClerkWebhookResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /clerk-webhook [post]
func (h *ClerkWebhookHandler) HandleClerkWebhook(c *gin.Context) {
	var event models.ClerkWebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		response.BadRequest(c, err)
		return
	}

	res, err := h.events.HandleEvent(c.Request.Context(), event)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}
