package postgres

import (
	"context"
	"fmt"
	"time"

	"reading-service/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) FindByUserAndPackage(ctx context.Context, clerkUserID, packageID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Preload("Package").
		Where("clerk_user_id = ? AND package_id = ?", clerkUserID, packageID).
		First(&sub).Error
	if err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

// Void marks the subscription voided at the given time and updates sub in place.
func (r *SubscriptionRepository) Void(ctx context.Context, sub *models.Subscription, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("id = ?", sub.ID).
		Updates(map[string]any{"is_voided": true, "voided_at": at})
	if result.Error != nil {
		return fmt.Errorf("failed to void subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	sub.IsVoided = true
	sub.VoidedAt = &at
	return nil
}

// Save inserts the subscription or replaces the period of the existing
// row for the same user and package.
func (r *SubscriptionRepository) Save(ctx context.Context, sub *models.Subscription) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "clerk_user_id"}, {Name: "package_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"start_time", "end_time", "is_voided", "voided_at", "updated_at"}),
	}).Create(sub).Error
	if err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	return nil
}
