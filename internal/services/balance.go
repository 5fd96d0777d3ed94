package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"reading-service/internal/models"
	"reading-service/internal/repositories/postgres"
)

// BalanceBroadcaster pushes a balance change to the user's live connections.
type BalanceBroadcaster interface {
	BroadcastTokenBalanceUpdate(userID string, tokenBalance int, extra map[string]any)
}

// BalanceEventPublisher forwards balance changes to an event stream.
type BalanceEventPublisher interface {
	PublishBalanceEvent(ctx context.Context, event models.BalanceEvent) error
}

type NoopBalanceEventPublisher struct{}

func (NoopBalanceEventPublisher) PublishBalanceEvent(context.Context, models.BalanceEvent) error {
	return nil
}

// BalanceLookup reads balance snapshots for realtime subscribers.
type BalanceLookup struct {
	users UserStore
}

func NewBalanceLookup(users UserStore) *BalanceLookup {
	return &BalanceLookup{users: users}
}

func (l *BalanceLookup) GetBalance(ctx context.Context, userID string) (models.BalanceSnapshot, error) {
	user, err := l.users.FindByClerkID(ctx, userID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return models.BalanceSnapshot{}, ErrUserNotFound
		}
		return models.BalanceSnapshot{}, fmt.Errorf("failed to load balance: %w", err)
	}
	return models.BalanceSnapshot{
		UserID:       user.ClerkUserID,
		TokenBalance: user.TokenBalance,
		UpdatedAt:    user.UpdatedAt,
	}, nil
}

type balanceNotifier struct {
	broadcaster BalanceBroadcaster
	events      BalanceEventPublisher
	now         func() time.Time
}

func newBalanceNotifier(b BalanceBroadcaster, e BalanceEventPublisher) balanceNotifier {
	if e == nil {
		e = NoopBalanceEventPublisher{}
	}
	return balanceNotifier{broadcaster: b, events: e, now: time.Now}
}

// notify fans the new balance out to live connections and the event stream.
// Event stream failures are logged; the balance change itself has already
// been committed.
func (n balanceNotifier) notify(ctx context.Context, user *models.User, reason models.BalanceEventReason, delta int) {
	extra := map[string]any{"reason": string(reason)}
	if delta != 0 {
		extra["delta"] = delta
	}
	if n.broadcaster != nil {
		n.broadcaster.BroadcastTokenBalanceUpdate(user.ClerkUserID, user.TokenBalance, extra)
	}

	event := models.BalanceEvent{
		UserID:       user.ClerkUserID,
		TokenBalance: user.TokenBalance,
		Delta:        delta,
		Reason:       reason,
		OccurredAt:   n.now(),
	}
	if err := n.events.PublishBalanceEvent(ctx, event); err != nil {
		slog.Warn("Failed to publish balance event", "userID", user.ClerkUserID, "reason", reason, "error", err)
	}
}
