package handlers

import (
	"net/http"

	"reading-service/internal/api/middleware"
	"reading-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profiles ProfileGetter
}

func NewProfileHandler(profiles ProfileGetter) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Description Token balance, last free flip and active subscriptions
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ProfileResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profiles.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
