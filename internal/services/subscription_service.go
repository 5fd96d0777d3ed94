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

type SubscriptionService struct {
	packages      PackageStore
	subscriptions SubscriptionStore
	now           func() time.Time
}

func NewSubscriptionService(packages PackageStore, subscriptions SubscriptionStore) *SubscriptionService {
	return &SubscriptionService{
		packages:      packages,
		subscriptions: subscriptions,
		now:           time.Now,
	}
}

// Cancel voids the user's subscription to the package of the given type.
func (s *SubscriptionService) Cancel(ctx context.Context, clerkUserID string, t models.PackageType) (*models.CancelSubscriptionResponse, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: unknown package type %q", ErrInvalidRequest, t)
	}

	pkg, err := s.findPackage(ctx, t)
	if err != nil {
		return nil, err
	}

	sub, err := s.subscriptions.FindByUserAndPackage(ctx, clerkUserID, pkg.ID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, fmt.Errorf("%w for user %s with package type %s", ErrSubscriptionNotFound, clerkUserID, t)
		}
		return nil, err
	}

	if err := s.subscriptions.Void(ctx, sub, s.now()); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	slog.Info("Subscription voided", "userID", clerkUserID, "subscriptionID", sub.ID, "packageType", t)

	return &models.CancelSubscriptionResponse{
		ID:          sub.ID,
		PackageType: pkg.Type,
		PackageName: models.PackageName{Th: pkg.NameTh, En: pkg.NameEn},
		IsVoided:    sub.IsVoided,
		VoidedAt:    sub.VoidedAt,
	}, nil
}

// Activate grants or extends a time-bound package after a purchase.
// An active subscription is extended from its current end; an expired or
// voided one restarts now.
func (s *SubscriptionService) Activate(ctx context.Context, clerkUserID string, t models.PackageType) (*models.Subscription, error) {
	if !t.IsSubscription() {
		return nil, fmt.Errorf("%w: %s is not a subscription package", ErrInvalidRequest, t)
	}

	pkg, err := s.findPackage(ctx, t)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sub, err := s.subscriptions.FindByUserAndPackage(ctx, clerkUserID, pkg.ID)
	switch {
	case errors.Is(err, postgres.ErrNotFound):
		sub = &models.Subscription{ClerkUserID: clerkUserID, PackageID: pkg.ID, StartTime: now, EndTime: now}
	case err != nil:
		return nil, err
	case !sub.Active(now):
		sub.StartTime = now
		sub.EndTime = now
	}

	sub.EndTime = extendPeriod(sub.EndTime, t)
	sub.IsVoided = false
	sub.VoidedAt = nil
	sub.Package = *pkg

	if err := s.subscriptions.Save(ctx, sub); err != nil {
		return nil, err
	}

	slog.Info("Subscription activated", "userID", clerkUserID, "packageType", t, "endTime", sub.EndTime)
	return sub, nil
}

func (s *SubscriptionService) findPackage(ctx context.Context, t models.PackageType) (*models.Package, error) {
	pkg, err := s.packages.FindByType(ctx, t)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, fmt.Errorf("%w with type: %s", ErrPackageNotFound, t)
		}
		return nil, err
	}
	return pkg, nil
}

func extendPeriod(from time.Time, t models.PackageType) time.Time {
	if t == models.PackageYearly {
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 1, 0)
}
