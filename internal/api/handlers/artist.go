package handlers

import (
	"net/http"

	"reading-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type ArtistHandler struct {
	artists ArtistGetter
}

func NewArtistHandler(artists ArtistGetter) *ArtistHandler {
	return &ArtistHandler{artists: artists}
}

// GetArtist godoc
// @Summary Get an artist
// @Tags artist
// @Produce json
// @Security BearerAuth
// @Param id path string true "Artist ID"
// @Success 200 {object} models.Artist
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /artist/{id} [get]
func (h *ArtistHandler) GetArtist(c *gin.Context) {
	artist, err := h.artists.GetArtist(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, artist)
}
