package postgres

import (
	"context"
	"fmt"

	"reading-service/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentAccountRepository struct {
	db *gorm.DB
}

func NewPaymentAccountRepository(db *gorm.DB) *PaymentAccountRepository {
	return &PaymentAccountRepository{db: db}
}

func (r *PaymentAccountRepository) FindByCustomerID(ctx context.Context, provider models.PaymentProvider, customerID string) (*models.PaymentAccount, error) {
	var acct models.PaymentAccount
	err := r.db.WithContext(ctx).
		Where("provider = ? AND provider_customer_id = ?", provider, customerID).
		First(&acct).Error
	if err != nil {
		return nil, translate(err)
	}
	return &acct, nil
}

func (r *PaymentAccountRepository) Upsert(ctx context.Context, acct *models.PaymentAccount) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "clerk_user_id"}, {Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{"provider_customer_id", "updated_at"}),
	}).Create(acct).Error
	if err != nil {
		return fmt.Errorf("failed to upsert payment account for %s: %w", acct.ClerkUserID, err)
	}
	return nil
}
