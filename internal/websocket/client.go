package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	sendBufferSize = 256

	// Inbound frames per second per connection
	inboundRate  = 10
	inboundBurst = 20
)

// Conn is the subset of *websocket.Conn the client drives.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Client is one websocket connection. conn may be nil, in which case frames
// only accumulate in the send buffer.
type Client struct {
	id   string
	hub  *Hub
	conn Conn

	// Buffered channel of outbound frames
	send chan []byte

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	userID string

	// Close frame the write pump sends on its way out; zero code sends none
	closeCode   int
	closeReason string

	limiter *rate.Limiter
	closed  int32
	wg      sync.WaitGroup
}

func NewClient(hub *Hub, conn Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		id:      uuid.NewString(),
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		ctx:     ctx,
		cancel:  cancel,
		limiter: rate.NewLimiter(rate.Limit(inboundRate), inboundBurst),
	}
}

func (c *Client) ID() string { return c.id }

// UserID is empty until the connection authenticates.
func (c *Client) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

func (c *Client) setUserID(userID string) {
	c.mu.Lock()
	c.userID = userID
	c.mu.Unlock()
}

func (c *Client) Done() <-chan struct{} { return c.ctx.Done() }

func (c *Client) isClosed() bool { return atomic.LoadInt32(&c.closed) == 1 }

// Send queues an encoded frame without blocking. A client whose buffer is
// full is considered dead and closed.
func (c *Client) Send(frame []byte) error {
	if c.isClosed() {
		return ErrClientDisconnected
	}
	select {
	case c.send <- frame:
		return nil
	default:
		slog.Warn("Client send buffer full, closing connection", "clientID", c.id, "userID", c.UserID())
		c.closeWithReason(websocket.CloseTryAgainLater, "send buffer full")
		return ErrClientDisconnected
	}
}

func (c *Client) SendEvent(event string, data any) error {
	frame, err := encodeFrame(event, data)
	if err != nil {
		return err
	}
	return c.Send(frame)
}

func (c *Client) sendError(message string) {
	if err := c.SendEvent(EventError, ErrorData{Message: message}); err != nil {
		slog.Debug("Failed to send error event", "clientID", c.id, "error", err)
	}
}

// close marks the client closed and stops its pumps. Idempotent.
func (c *Client) close() bool {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return false
	}
	c.cancel()
	return true
}

// closeWithReason closes the client and records the close frame for the
// write pump. It never touches the connection, so the hub loop may call it.
func (c *Client) closeWithReason(code int, reason string) {
	if c.isClosed() {
		return
	}
	c.mu.Lock()
	if c.closeCode == 0 {
		c.closeCode, c.closeReason = code, reason
	}
	c.mu.Unlock()
	c.close()
}

// writeClose sends the recorded close frame, if any. Only the goroutine that
// owns writes on conn may call it.
func (c *Client) writeClose() {
	if c.conn == nil {
		return
	}
	c.mu.RLock()
	code, reason := c.closeCode, c.closeReason
	c.mu.RUnlock()
	if code == 0 {
		return
	}
	msg := websocket.FormatCloseMessage(code, reason)
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

// Start runs the read and write pumps.
func (c *Client) Start() {
	c.wg.Add(2)
	go c.writePump()
	go c.readPump()
}

// Wait blocks until both pumps have returned.
func (c *Client) Wait() { c.wg.Wait() }

// readPump dispatches inbound frames to the hub. Per-connection operations
// run synchronously here so they apply in arrival order.
func (c *Client) readPump() {
	defer func() {
		if err := c.hub.Disconnect(c); err != nil {
			slog.Debug("Hub disconnect skipped", "clientID", c.id, "error", err)
		}
		c.close()
		_ = c.conn.Close()
		c.wg.Done()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				slog.Warn("WebSocket read error", "clientID", c.id, "error", err)
			}
			return
		}
		if c.isClosed() {
			return
		}
		if !c.limiter.Allow() {
			c.sendError(MsgRateLimited)
			continue
		}
		c.dispatch(data)
	}
}

func (c *Client) dispatch(data []byte) {
	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil || frame.Event == "" {
		c.sendError(MsgInvalidMessage)
		return
	}

	switch frame.Event {
	case EventSubscribe:
		_ = c.hub.Subscribe(c.ctx, c)
	case EventUnsubscribe:
		_ = c.hub.Unsubscribe(c)
	default:
		slog.Debug("Unknown websocket event", "clientID", c.id, "event", frame.Event)
		c.sendError("Unknown event: " + frame.Event)
	}
}

// writePump sends queued frames and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
		c.wg.Done()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				slog.Debug("WebSocket write error", "clientID", c.id, "error", err)
				c.close()
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}

		case <-c.ctx.Done():
			c.writeClose()
			return
		}
	}
}
