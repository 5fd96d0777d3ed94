package services

import (
	"context"
	"time"

	"reading-service/internal/models"
)

// The store interfaces below are satisfied by internal/repositories/postgres.
// Lookups report a missing row with postgres.ErrNotFound.

type UserStore interface {
	FindByClerkID(ctx context.Context, clerkUserID string) (*models.User, error)
	FindProfile(ctx context.Context, clerkUserID string, now time.Time) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	DeleteByClerkID(ctx context.Context, clerkUserID string) error
	UpdateTokenBalance(ctx context.Context, clerkUserID string, balance int) (*models.User, error)
	IncrementTokenBalance(ctx context.Context, clerkUserID string, delta int) (*models.User, error)
	ResetTestingState(ctx context.Context, clerkUserID string, balance int) (*models.User, error)
}

type PackageStore interface {
	FindByType(ctx context.Context, t models.PackageType) (*models.Package, error)
}

type SubscriptionStore interface {
	FindByUserAndPackage(ctx context.Context, clerkUserID, packageID string) (*models.Subscription, error)
	Void(ctx context.Context, sub *models.Subscription, at time.Time) error
	Save(ctx context.Context, sub *models.Subscription) error
}

type PaymentAccountStore interface {
	FindByCustomerID(ctx context.Context, provider models.PaymentProvider, customerID string) (*models.PaymentAccount, error)
}

// CheckoutLedger remembers fulfilled checkout sessions. Claim reports false
// when the session was already claimed.
type CheckoutLedger interface {
	Claim(ctx context.Context, checkout *models.FulfilledCheckout) (bool, error)
	Release(ctx context.Context, sessionID string) error
}

type ArtistStore interface {
	FindByID(ctx context.Context, id string) (*models.Artist, error)
}
