package handlers

import (
	"reading-service/internal/websocket"

	"github.com/gin-gonic/gin"
	gws "github.com/gorilla/websocket"
)

type WSHandler struct {
	hub      *websocket.Hub
	upgrader *gws.Upgrader
}

func NewWSHandler(hub *websocket.Hub, allowedOrigins []string) *WSHandler {
	return &WSHandler{hub: hub, upgrader: websocket.NewUpgrader(allowedOrigins)}
}

// HandleWebSocket godoc
// @Summary Token balance websocket
// @Description Authenticates with a bearer token, then accepts subscribe and unsubscribe events and pushes token-balance:update frames
// @Tags websocket
// @Param token query string false "Session token when no Authorization header is sent"
// @Success 101 "Switching Protocols"
// @Router /token-balance [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	websocket.ServeWS(h.hub, h.upgrader, c.Writer, c.Request)
}
