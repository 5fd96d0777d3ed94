package services

import (
	"context"
	"log/slog"

	"reading-service/internal/models"
)

const resetTokenBalance = 1000

// TestingService backs endpoints used by QA to put an account back into a
// known state.
type TestingService struct {
	users UserStore
	balanceNotifier
}

func NewTestingService(users UserStore, broadcaster BalanceBroadcaster, events BalanceEventPublisher) *TestingService {
	return &TestingService{
		users:           users,
		balanceNotifier: newBalanceNotifier(broadcaster, events),
	}
}

func (s *TestingService) ResetReadings(ctx context.Context, clerkUserID string) (*models.ResetReadingsResponse, error) {
	user, err := s.users.ResetTestingState(ctx, clerkUserID, resetTokenBalance)
	if err != nil {
		return nil, userLookupError(err)
	}
	slog.Info("User testing state reset", "userID", clerkUserID)
	s.notify(ctx, user, models.BalanceReasonReset, 0)
	return &models.ResetReadingsResponse{
		Success: true,
		Message: "User testing state reset successfully",
	}, nil
}
