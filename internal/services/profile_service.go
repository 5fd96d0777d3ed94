package services

import (
	"context"
	"time"

	"reading-service/internal/models"
)

type ProfileService struct {
	users UserStore
	now   func() time.Time
}

func NewProfileService(users UserStore) *ProfileService {
	return &ProfileService{users: users, now: time.Now}
}

// GetProfile returns the balance and the subscriptions still in effect.
func (s *ProfileService) GetProfile(ctx context.Context, clerkUserID string) (*models.ProfileResponse, error) {
	now := s.now()
	user, err := s.users.FindProfile(ctx, clerkUserID, now)
	if err != nil {
		return nil, userLookupError(err)
	}

	subs := make([]models.ProfileSubscription, 0, len(user.Subscriptions))
	for _, sub := range user.Subscriptions {
		if !sub.Active(now) {
			continue
		}
		subs = append(subs, models.ProfileSubscription{
			ID: sub.ID,
			Package: models.ProfilePackage{
				ID:       sub.Package.ID,
				NameTh:   sub.Package.NameTh,
				NameEn:   sub.Package.NameEn,
				PriceThb: sub.Package.PriceThb,
			},
			StartTime: sub.StartTime,
			EndTime:   sub.EndTime,
		})
	}

	return &models.ProfileResponse{
		TokenBalance:   user.TokenBalance,
		LastFreeFlipAt: user.LastFreeFlipAt,
		Subscriptions:  subs,
	}, nil
}
