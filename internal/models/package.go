package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PackageType string

const (
	PackageMonthly    PackageType = "MONTHLY"
	PackageYearly     PackageType = "YEARLY"
	PackageFlipToken1 PackageType = "FLIP_TOKEN_1"
)

func (t PackageType) IsValid() bool {
	switch t {
	case PackageMonthly, PackageYearly, PackageFlipToken1:
		return true
	}
	return false
}

// IsSubscription reports whether buying the package grants time-bound access
// rather than flip tokens.
func (t PackageType) IsSubscription() bool {
	return t == PackageMonthly || t == PackageYearly
}

// Package is a purchasable product.
type Package struct {
	ID            string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Type          PackageType `gorm:"type:varchar(32);uniqueIndex;not null" json:"type"`
	NameTh        string      `gorm:"not null" json:"nameTh"`
	NameEn        string      `gorm:"not null" json:"nameEn"`
	PriceThb      int         `gorm:"not null" json:"priceThb"`
	StripePriceID *string     `json:"stripePriceId"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

func (p *Package) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
