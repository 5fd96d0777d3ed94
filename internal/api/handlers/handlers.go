package handlers

import (
	"context"

	"reading-service/internal/models"
)

// Service dependencies, declared where they are consumed.

type ProfileGetter interface {
	GetProfile(ctx context.Context, clerkUserID string) (*models.ProfileResponse, error)
}

type TokenManager interface {
	GetBalance(ctx context.Context, clerkUserID string) (*models.TokenBalanceResponse, error)
	SetBalance(ctx context.Context, clerkUserID string, balance int) (*models.TokenBalanceResponse, error)
}

type SubscriptionCanceller interface {
	Cancel(ctx context.Context, clerkUserID string, t models.PackageType) (*models.CancelSubscriptionResponse, error)
}

type ArtistGetter interface {
	GetArtist(ctx context.Context, id string) (*models.Artist, error)
}

type ReadingResetter interface {
	ResetReadings(ctx context.Context, clerkUserID string) (*models.ResetReadingsResponse, error)
}

type ClerkEventHandler interface {
	HandleEvent(ctx context.Context, event models.ClerkWebhookEvent) (any, error)
}

type CheckoutHandler interface {
	HandleCheckoutCompleted(ctx context.Context, p models.PurchaseCompleted) error
}
