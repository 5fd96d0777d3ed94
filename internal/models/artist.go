package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Artist struct {
	ID          string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	FullName    string         `gorm:"not null" json:"fullName"`
	AvatarURL   string         `json:"avatarUrl"`
	Description string         `json:"description"`
	Specialties pq.StringArray `gorm:"type:text[]" json:"specialties" swaggertype:"array,string"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (a *Artist) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Art is a card illustration hosted on the asset CDN.
type Art struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ImageURL  string    `gorm:"uniqueIndex;not null" json:"imageUrl"`
	ArtistID  string    `gorm:"index;not null" json:"artistId"`
	CreatedAt time.Time `json:"createdAt"`

	Artist *Artist `gorm:"foreignKey:ArtistID" json:"artist,omitempty"`
}

func (a *Art) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
