package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"reading-service/internal/models"
	"reading-service/internal/services"

	"github.com/gorilla/websocket"
)

// BalanceReader loads the current balance for a user. A missing user is
// reported as services.ErrUserNotFound.
type BalanceReader interface {
	GetBalance(ctx context.Context, userID string) (models.BalanceSnapshot, error)
}

// TokenVerifier resolves a session token to a user ID.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// Relay fans balance frames out across service instances. Every published
// payload, including this instance's own, comes back on BalanceUpdates.
type Relay interface {
	PublishBalanceUpdate(ctx context.Context, payload []byte) error
	BalanceUpdates(ctx context.Context) <-chan []byte
}

// Observer receives hub lifecycle signals, typically for metrics.
type Observer interface {
	ConnectionOpened()
	ConnectionClosed()
	SubscriptionsChanged(total int)
	BalanceBroadcast(recipients int)
}

type noopObserver struct{}

func (noopObserver) ConnectionOpened()        {}
func (noopObserver) ConnectionClosed()        {}
func (noopObserver) SubscriptionsChanged(int) {}
func (noopObserver) BalanceBroadcast(int)     {}

type opKind int

const (
	opRegister opKind = iota
	opAuthenticate
	opSubscribe
	opUnsubscribe
	opDisconnect
	opBroadcast
)

type result struct {
	userID string
	err    error
}

type request struct {
	kind   opKind
	client *Client
	userID string
	frame  []byte
	done   chan result
}

// Option configures a Hub.
type Option func(*Hub)

// WithRelay routes broadcasts through r so every instance delivers them.
func WithRelay(r Relay) Option {
	return func(h *Hub) { h.relay = r }
}

// WithObserver reports hub activity to o.
func WithObserver(o Observer) Option {
	return func(h *Hub) { h.observer = o }
}

// Hub owns the subscription registry and the connection to user index.
// Both are mutated only on the Run loop.
type Hub struct {
	balances BalanceReader
	verifier TokenVerifier
	relay    Relay
	observer Observer

	// Registered clients by connection ID
	clients map[string]*Client

	// userID -> connection ID -> client
	subscribers map[string]map[string]*Client

	// connection ID -> authenticated userID
	connUsers map[string]string

	// Guards the maps above for readers outside the loop
	mu sync.RWMutex

	requests chan request

	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	started  atomic.Bool
	stopOnce sync.Once
}

func NewHub(balances BalanceReader, verifier TokenVerifier, opts ...Option) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		balances:    balances,
		verifier:    verifier,
		observer:    noopObserver{},
		clients:     make(map[string]*Client),
		subscribers: make(map[string]map[string]*Client),
		connUsers:   make(map[string]string),
		requests:    make(chan request, 256),
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run processes hub requests until ctx is cancelled or Stop is called.
func (h *Hub) Run(ctx context.Context) {
	if !h.started.CompareAndSwap(false, true) {
		return
	}
	defer close(h.done)

	var relayed <-chan []byte
	if h.relay != nil {
		relayed = h.relay.BalanceUpdates(h.ctx)
	}

	slog.Info("WebSocket hub started", "relay", h.relay != nil)

	for {
		select {
		case req := <-h.requests:
			h.handle(req)

		case payload, ok := <-relayed:
			if !ok {
				slog.Warn("Balance relay closed, delivering locally only")
				relayed = nil
				continue
			}
			h.handleRelayed(payload)

		case <-ctx.Done():
			h.shutdown()
			return

		case <-h.ctx.Done():
			h.shutdown()
			return
		}
	}
}

// Stop ends the Run loop and closes every connection.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		h.cancel()
		if h.started.Load() {
			<-h.done
		}
	})
}

func (h *Hub) shutdown() {
	h.cancel()

	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[string]*Client)
	h.subscribers = make(map[string]map[string]*Client)
	h.connUsers = make(map[string]string)
	h.mu.Unlock()

	// Close frames are written by each client's write pump
	for _, c := range clients {
		c.closeWithReason(websocket.CloseGoingAway, "server shutting down")
	}
	slog.Info("WebSocket hub shutting down", "closedConnections", len(clients))
}

// submit hands req to the loop and, for synchronous requests, waits for it.
func (h *Hub) submit(req request) result {
	if h.ctx.Err() != nil {
		return result{err: ErrHubStopped}
	}
	select {
	case h.requests <- req:
	case <-h.ctx.Done():
		return result{err: ErrHubStopped}
	}
	if req.done == nil {
		return result{}
	}
	select {
	case res := <-req.done:
		return res
	case <-h.ctx.Done():
		return result{err: ErrHubStopped}
	}
}

func (h *Hub) call(kind opKind, c *Client, userID string) result {
	return h.submit(request{kind: kind, client: c, userID: userID, done: make(chan result, 1)})
}

func (h *Hub) handle(req request) {
	var res result
	switch req.kind {
	case opRegister:
		h.registerClient(req.client)
	case opAuthenticate:
		res.err = h.authenticateClient(req.client, req.userID)
	case opSubscribe:
		res = h.subscribeClient(req.client)
	case opUnsubscribe:
		h.unsubscribeClient(req.client)
	case opDisconnect:
		h.disconnectClient(req.client)
	case opBroadcast:
		h.deliver(req.userID, req.frame)
	}
	if req.done != nil {
		req.done <- res
	}
}

func (h *Hub) registerClient(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	h.observer.ConnectionOpened()
	slog.Debug("Client registered", "clientID", c.id)
}

func (h *Hub) authenticateClient(c *Client, userID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.id]; !ok {
		return ErrClientDisconnected
	}
	h.connUsers[c.id] = userID
	c.setUserID(userID)

	slog.Info("Client authenticated", "clientID", c.id, "userID", userID)
	return nil
}

func (h *Hub) subscribeClient(c *Client) result {
	h.mu.Lock()
	userID, ok := h.connUsers[c.id]
	if !ok {
		h.mu.Unlock()
		return result{err: ErrNotAuthenticated}
	}
	set := h.subscribers[userID]
	if set == nil {
		set = make(map[string]*Client)
		h.subscribers[userID] = set
	}
	set[c.id] = c
	total := h.subscriptionCountLocked()
	h.mu.Unlock()

	h.observer.SubscriptionsChanged(total)
	slog.Info("Client subscribed", "clientID", c.id, "userID", userID)
	return result{userID: userID}
}

func (h *Hub) unsubscribeClient(c *Client) {
	h.mu.Lock()
	userID, ok := h.connUsers[c.id]
	if ok {
		h.removeSubscriberLocked(userID, c.id)
	}
	total := h.subscriptionCountLocked()
	h.mu.Unlock()

	if ok {
		h.observer.SubscriptionsChanged(total)
		slog.Info("Client unsubscribed", "clientID", c.id, "userID", userID)
	}
}

func (h *Hub) disconnectClient(c *Client) {
	h.mu.Lock()
	_, registered := h.clients[c.id]
	delete(h.clients, c.id)
	userID, authed := h.connUsers[c.id]
	if authed {
		h.removeSubscriberLocked(userID, c.id)
		delete(h.connUsers, c.id)
	}
	total := h.subscriptionCountLocked()
	h.mu.Unlock()

	if registered {
		h.observer.ConnectionClosed()
		h.observer.SubscriptionsChanged(total)
		slog.Info("Client disconnected", "clientID", c.id, "userID", userID)
	}
}

func (h *Hub) removeSubscriberLocked(userID, connID string) {
	set, ok := h.subscribers[userID]
	if !ok {
		return
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(h.subscribers, userID)
	}
}

func (h *Hub) subscriptionCountLocked() int {
	n := 0
	for _, set := range h.subscribers {
		n += len(set)
	}
	return n
}

// deliver runs on the loop and so sees the registry as of this instant.
func (h *Hub) deliver(userID string, frame []byte) {
	delivered := 0
	for _, c := range h.subscribers[userID] {
		if err := c.Send(frame); err != nil {
			slog.Debug("Dropped balance update", "clientID", c.id, "userID", userID, "error", err)
			continue
		}
		delivered++
	}
	h.observer.BalanceBroadcast(delivered)
	slog.Debug("Balance update delivered", "userID", userID, "recipients", delivered)
}

func (h *Hub) handleRelayed(payload []byte) {
	var env relayEnvelope
	if err := json.Unmarshal(payload, &env); err != nil || env.UserID == "" {
		slog.Warn("Ignoring malformed relay payload", "error", err)
		return
	}
	h.deliver(env.UserID, env.Frame)
}

// Register adds a freshly upgraded connection to the hub.
func (h *Hub) Register(c *Client) error {
	return h.call(opRegister, c, "").err
}

// Connect authenticates c with token. On failure the connection is closed
// and ErrAuthenticationMissing or ErrAuthenticationInvalid is returned.
func (h *Hub) Connect(ctx context.Context, c *Client, token string) error {
	if token == "" {
		slog.Warn("Client connected without token", "clientID", c.id)
		c.closeWithReason(websocket.ClosePolicyViolation, "authentication required")
		return ErrAuthenticationMissing
	}

	userID, err := h.verifier.VerifyToken(ctx, token)
	if err != nil {
		slog.Warn("Connection authentication failed", "clientID", c.id, "error", err)
		c.closeWithReason(websocket.ClosePolicyViolation, "invalid authentication token")
		return fmt.Errorf("%w: %v", ErrAuthenticationInvalid, err)
	}

	return h.call(opAuthenticate, c, userID).err
}

// Subscribe registers c for its own user's balance updates and replies with
// the current balance. Errors are reported to c as error events.
func (h *Hub) Subscribe(ctx context.Context, c *Client) error {
	res := h.call(opSubscribe, c, "")
	if res.err != nil {
		if errors.Is(res.err, ErrNotAuthenticated) {
			slog.Warn("Unauthenticated subscribe attempt", "clientID", c.id)
			c.sendError(MsgNotAuthenticated)
		}
		return res.err
	}

	snapshot, err := h.balances.GetBalance(ctx, res.userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.sendError(MsgUserNotFound)
		} else {
			slog.Error("Error fetching token balance", "clientID", c.id, "userID", res.userID, "error", err)
			c.sendError(MsgFetchBalanceFailed)
		}
		return err
	}

	data := balanceUpdateData(snapshot.UserID, snapshot.TokenBalance, snapshot.UpdatedAt, nil)
	if err := c.SendEvent(EventTokenBalanceUpdate, data); err != nil {
		return err
	}
	slog.Debug("Sent initial token balance", "clientID", c.id, "userID", res.userID, "tokenBalance", snapshot.TokenBalance)
	return nil
}

// Unsubscribe stops balance updates to c. The connection stays authenticated.
func (h *Hub) Unsubscribe(c *Client) error {
	return h.call(opUnsubscribe, c, "").err
}

// Disconnect removes every trace of c. Safe to call more than once and for
// connections that never authenticated.
func (h *Hub) Disconnect(c *Client) error {
	return h.call(opDisconnect, c, "").err
}

// BroadcastTokenBalanceUpdate pushes a token-balance:update to every
// connection subscribed to userID. It does not wait for delivery.
func (h *Hub) BroadcastTokenBalanceUpdate(userID string, tokenBalance int, extra map[string]any) {
	frame, err := encodeFrame(EventTokenBalanceUpdate, balanceUpdateData(userID, tokenBalance, time.Now(), extra))
	if err != nil {
		slog.Error("Failed to encode balance update", "userID", userID, "error", err)
		return
	}

	if h.relay != nil {
		payload, err := json.Marshal(relayEnvelope{UserID: userID, Frame: frame})
		if err == nil {
			ctx, cancel := context.WithTimeout(h.ctx, 2*time.Second)
			err = h.relay.PublishBalanceUpdate(ctx, payload)
			cancel()
			if err == nil {
				return
			}
		}
		slog.Warn("Balance relay publish failed, delivering locally", "userID", userID, "error", err)
	}

	if res := h.submit(request{kind: opBroadcast, userID: userID, frame: frame}); res.err != nil {
		slog.Debug("Balance update not queued", "userID", userID, "error", res.err)
	}
}

// SubscriberCount returns how many connections are subscribed to userID.
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[userID])
}

// UserFor returns the user a connection authenticated as.
func (h *Hub) UserFor(connID string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	userID, ok := h.connUsers[connID]
	return userID, ok
}

// ConnectionCount returns how many connections are registered.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
