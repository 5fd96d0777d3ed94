package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"reading-service/internal/models"
	"reading-service/internal/repositories/postgres"
)

// ClerkWebhookService keeps local users in step with the identity provider.
type ClerkWebhookService struct {
	users UserStore
}

func NewClerkWebhookService(users UserStore) *ClerkWebhookService {
	return &ClerkWebhookService{users: users}
}

// HandleEvent dispatches on the event type. Unknown types are acknowledged
// with {received: true}.
func (s *ClerkWebhookService) HandleEvent(ctx context.Context, event models.ClerkWebhookEvent) (any, error) {
	slog.Info("Received Clerk webhook event", "type", event.Type)

	switch event.Type {
	case models.ClerkEventUserCreated:
		return s.HandleUserCreated(ctx, event.Data)
	case models.ClerkEventUserDeleted:
		return s.HandleUserDeleted(ctx, event.Data)
	default:
		slog.Debug("Ignoring Clerk webhook event", "type", event.Type)
		return models.WebhookAck{Received: true}, nil
	}
}

func (s *ClerkWebhookService) HandleUserCreated(ctx context.Context, data models.ClerkWebhookData) (*models.ClerkWebhookResult, error) {
	if data.ID == "" {
		slog.Error("Clerk user data is missing 'id' field")
		return nil, ErrMissingUserID
	}

	slog.Info("Creating user", "userID", data.ID)
	user := &models.User{ClerkUserID: data.ID}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, postgres.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: %s", ErrUserAlreadyExists, data.ID)
		}
		slog.Error("Failed to create user", "userID", data.ID, "error", err)
		return nil, err
	}

	slog.Info("User created successfully", "id", user.ID, "userID", data.ID)
	return &models.ClerkWebhookResult{Success: true, UserID: user.ID}, nil
}

func (s *ClerkWebhookService) HandleUserDeleted(ctx context.Context, data models.ClerkWebhookData) (*models.ClerkWebhookResult, error) {
	if data.ID == "" {
		return nil, ErrMissingUserID
	}

	slog.Info("Deleting user", "userID", data.ID)
	if err := s.users.DeleteByClerkID(ctx, data.ID); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		slog.Error("Failed to delete user", "userID", data.ID, "error", err)
		return nil, err
	}
	return &models.ClerkWebhookResult{Success: true}, nil
}
