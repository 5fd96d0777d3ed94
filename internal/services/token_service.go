package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"reading-service/internal/models"
	"reading-service/internal/repositories/postgres"
)

type TokenService struct {
	users UserStore
	balanceNotifier
}

func NewTokenService(users UserStore, broadcaster BalanceBroadcaster, events BalanceEventPublisher) *TokenService {
	return &TokenService{
		users:           users,
		balanceNotifier: newBalanceNotifier(broadcaster, events),
	}
}

func (s *TokenService) GetBalance(ctx context.Context, clerkUserID string) (*models.TokenBalanceResponse, error) {
	user, err := s.users.FindByClerkID(ctx, clerkUserID)
	if err != nil {
		return nil, userLookupError(err)
	}
	slog.Debug("Token balance read", "userID", clerkUserID, "tokenBalance", user.TokenBalance)
	return &models.TokenBalanceResponse{TokenBalance: user.TokenBalance}, nil
}

// SetBalance overwrites the balance and notifies subscribers.
func (s *TokenService) SetBalance(ctx context.Context, clerkUserID string, balance int) (*models.TokenBalanceResponse, error) {
	if balance < 0 {
		return nil, fmt.Errorf("%w: tokenBalance must not be less than 0", ErrInvalidRequest)
	}
	user, err := s.users.UpdateTokenBalance(ctx, clerkUserID, balance)
	if err != nil {
		return nil, userLookupError(err)
	}
	slog.Info("Token balance set", "userID", clerkUserID, "tokenBalance", user.TokenBalance)
	s.notify(ctx, user, models.BalanceReasonSet, 0)
	return &models.TokenBalanceResponse{TokenBalance: user.TokenBalance}, nil
}

// Credit adds purchased tokens.
func (s *TokenService) Credit(ctx context.Context, clerkUserID string, amount int) (*models.TokenBalanceResponse, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: credit amount must be positive", ErrInvalidRequest)
	}
	user, err := s.users.IncrementTokenBalance(ctx, clerkUserID, amount)
	if err != nil {
		return nil, userLookupError(err)
	}
	slog.Info("Tokens credited", "userID", clerkUserID, "amount", amount, "tokenBalance", user.TokenBalance)
	s.notify(ctx, user, models.BalanceReasonPurchase, amount)
	return &models.TokenBalanceResponse{TokenBalance: user.TokenBalance}, nil
}

func userLookupError(err error) error {
	if errors.Is(err, postgres.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
