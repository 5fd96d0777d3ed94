package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentProvider string

const PaymentProviderStripe PaymentProvider = "STRIPE"

// PaymentAccount maps a user to their customer record at a payment provider.
type PaymentAccount struct {
	ID                 string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ClerkUserID        string          `gorm:"uniqueIndex:idx_payment_accounts_user_provider;not null" json:"clerkUserId"`
	Provider           PaymentProvider `gorm:"type:varchar(16);uniqueIndex:idx_payment_accounts_user_provider;not null" json:"provider"`
	ProviderCustomerID string          `gorm:"index;not null" json:"providerCustomerId"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

func (a *PaymentAccount) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// FulfilledCheckout records a checkout session whose purchase was applied.
// The primary key keeps redelivered provider events from being applied twice.
type FulfilledCheckout struct {
	SessionID   string      `gorm:"primaryKey;type:varchar(255)" json:"sessionId"`
	ClerkUserID string      `gorm:"index;not null" json:"clerkUserId"`
	PackageType PackageType `gorm:"type:varchar(32);not null" json:"packageType"`
	Quantity    int         `gorm:"not null" json:"quantity"`
	CreatedAt   time.Time   `json:"createdAt"`
}
