package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/** --------------------ENTITIES-------------------- */
// User is a reader identified by the identity provider's user id.
type User struct {
	ID             string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ClerkUserID    string     `gorm:"uniqueIndex;not null" json:"clerkUserId"`
	TokenBalance   int        `gorm:"not null;default:0" json:"tokenBalance"`
	LastFreeFlipAt *time.Time `json:"lastFreeFlipAt"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`

	Subscriptions []Subscription `gorm:"foreignKey:ClerkUserID;references:ClerkUserID" json:"subscriptions,omitempty"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// BalanceSnapshot is the balance view pushed to realtime subscribers.
type BalanceSnapshot struct {
	UserID       string
	TokenBalance int
	UpdatedAt    time.Time
}

/** -------------------- DTOs -------------------- */
// Request
type SetBalanceRequest struct {
	TokenBalance *int `json:"tokenBalance" binding:"required,min=0" example:"100"`
}

// Response
type TokenBalanceResponse struct {
	TokenBalance int `json:"tokenBalance"`
}

type ProfileResponse struct {
	TokenBalance   int                   `json:"tokenBalance"`
	LastFreeFlipAt *time.Time            `json:"lastFreeFlipAt"`
	Subscriptions  []ProfileSubscription `json:"subscriptions"`
}

type ProfileSubscription struct {
	ID        string         `json:"id"`
	Package   ProfilePackage `json:"package"`
	StartTime time.Time      `json:"startTime"`
	EndTime   time.Time      `json:"endTime"`
}

type ProfilePackage struct {
	ID       string `json:"id"`
	NameTh   string `json:"nameTh"`
	NameEn   string `json:"nameEn"`
	PriceThb int    `json:"priceThb"`
}

type ResetReadingsResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
