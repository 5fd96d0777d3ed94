package websocket

import (
	"encoding/json"
	"errors"
	"time"
)

// Inbound events
const (
	EventSubscribe   = "subscribe"
	EventUnsubscribe = "unsubscribe"
)

// Outbound events
const (
	EventTokenBalanceUpdate = "token-balance:update"
	EventError              = "error"
)

// Soft error messages sent to the originating connection.
const (
	MsgNotAuthenticated   = "Not authenticated"
	MsgUserNotFound       = "User not found"
	MsgFetchBalanceFailed = "Failed to fetch token balance"
	MsgInvalidMessage     = "Invalid message format"
	MsgRateLimited        = "Rate limit exceeded"
)

var (
	ErrAuthenticationMissing = errors.New("authentication token missing")
	ErrAuthenticationInvalid = errors.New("authentication token invalid")
	ErrNotAuthenticated      = errors.New("not authenticated")
	ErrClientDisconnected    = errors.New("client disconnected")
	ErrHubStopped            = errors.New("hub stopped")
)

// Frame is the JSON envelope for every websocket text frame.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type ErrorData struct {
	Message string `json:"message"`
}

func encodeFrame(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: event, Data: raw})
}

// balanceUpdateData builds the token-balance:update payload. Keys in extra
// are applied last and win over the base fields.
func balanceUpdateData(userID string, tokenBalance int, timestamp time.Time, extra map[string]any) map[string]any {
	data := make(map[string]any, 3+len(extra))
	data["userId"] = userID
	data["tokenBalance"] = tokenBalance
	data["timestamp"] = timestamp.UTC().Format(time.RFC3339Nano)
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// relayEnvelope carries an encoded frame between instances.
type relayEnvelope struct {
	UserID string          `json:"userId"`
	Frame  json.RawMessage `json:"frame"`
}
