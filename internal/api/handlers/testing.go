package handlers

import (
	"net/http"

	"reading-service/internal/api/middleware"
	"reading-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type TestingHandler struct {
	resetter ReadingResetter
}

func NewTestingHandler(resetter ReadingResetter) *TestingHandler {
	return &TestingHandler{resetter: resetter}
}

// ResetReadings godoc
// @Summary Reset the caller's reading state
// @Description Clears the last free flip and sets the balance to 1000
// @Tags testing
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.ResetReadingsResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /testing/reset-readings [post]
func (h *TestingHandler) ResetReadings(c *gin.Context) {
	res, err := h.resetter.ResetReadings(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}
