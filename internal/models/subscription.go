package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription grants a user access to a package between StartTime and EndTime.
// A user holds at most one subscription row per package.
type Subscription struct {
	ID          string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ClerkUserID string     `gorm:"uniqueIndex:idx_subscriptions_user_package;not null" json:"clerkUserId"`
	PackageID   string     `gorm:"uniqueIndex:idx_subscriptions_user_package;not null" json:"packageId"`
	StartTime   time.Time  `gorm:"not null" json:"startTime"`
	EndTime     time.Time  `gorm:"not null;index" json:"endTime"`
	IsVoided    bool       `gorm:"not null;default:false" json:"isVoided"`
	VoidedAt    *time.Time `json:"voidedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Package Package `gorm:"foreignKey:PackageID" json:"package"`
}

func (s *Subscription) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Active reports whether the subscription grants access at t.
func (s *Subscription) Active(t time.Time) bool {
	return !s.IsVoided && s.EndTime.After(t)
}

/** -------------------- DTOs -------------------- */
type CancelSubscriptionRequest struct {
	PackageType PackageType `json:"packageType" binding:"required,oneof=MONTHLY YEARLY FLIP_TOKEN_1" example:"MONTHLY"`
}

type PackageName struct {
	Th string `json:"th"`
	En string `json:"en"`
}

type CancelSubscriptionResponse struct {
	ID          string      `json:"id"`
	PackageType PackageType `json:"packageType"`
	PackageName PackageName `json:"packageName"`
	IsVoided    bool        `json:"isVoided"`
	VoidedAt    *time.Time  `json:"voidedAt"`
}
