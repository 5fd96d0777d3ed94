package websocket

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/gorilla/websocket"
)

// NewUpgrader accepts handshakes from the configured frontend origins.
// Requests without an Origin header are non-browser clients and allowed.
func NewUpgrader(allowedOrigins []string) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(allowedOrigins) == 0 {
				return true
			}
			return slices.Contains(allowedOrigins, origin)
		},
	}
}

// TokenFromRequest reads the session token from the Authorization header,
// falling back to the token query parameter.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return r.URL.Query().Get("token")
}

// ServeWS upgrades the request and attaches the connection to the hub.
// Authentication completes asynchronously; frames that arrive first are
// answered as unauthenticated.
func ServeWS(hub *Hub, upgrader *websocket.Upgrader, w http.ResponseWriter, r *http.Request) {
	token := TokenFromRequest(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err, "remoteAddr", r.RemoteAddr)
		return
	}

	client := NewClient(hub, conn)
	if err := hub.Register(client); err != nil {
		slog.Warn("Rejecting connection", "clientID", client.id, "error", err)
		client.closeWithReason(websocket.CloseGoingAway, "server shutting down")
		client.writeClose()
		_ = conn.Close()
		return
	}
	client.Start()

	go func() {
		if err := hub.Connect(client.ctx, client, token); err != nil && !errors.Is(err, context.Canceled) {
			slog.Debug("Connection not authenticated", "clientID", client.id, "error", err)
		}
	}()
}
