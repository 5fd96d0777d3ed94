package postgres

import (
	"context"
	"fmt"

	"reading-service/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CheckoutRepository struct {
	db *gorm.DB
}

func NewCheckoutRepository(db *gorm.DB) *CheckoutRepository {
	return &CheckoutRepository{db: db}
}

// Claim inserts the checkout unless its session is already recorded.
func (r *CheckoutRepository) Claim(ctx context.Context, checkout *models.FulfilledCheckout) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "session_id"}}, DoNothing: true}).
		Create(checkout)
	if res.Error != nil {
		return false, fmt.Errorf("failed to claim checkout %s: %w", checkout.SessionID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// Release forgets a claimed session so a redelivery can apply it.
func (r *CheckoutRepository) Release(ctx context.Context, sessionID string) error {
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.FulfilledCheckout{}).Error
	if err != nil {
		return fmt.Errorf("failed to release checkout %s: %w", sessionID, err)
	}
	return nil
}
