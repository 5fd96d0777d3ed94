package postgres

import (
	"context"
	"fmt"

	"reading-service/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ArtistRepository struct {
	db *gorm.DB
}

func NewArtistRepository(db *gorm.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

func (r *ArtistRepository) FindByID(ctx context.Context, id string) (*models.Artist, error) {
	var artist models.Artist
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&artist).Error; err != nil {
		return nil, translate(err)
	}
	return &artist, nil
}

// First returns the earliest created artist.
func (r *ArtistRepository) First(ctx context.Context) (*models.Artist, error) {
	var artist models.Artist
	if err := r.db.WithContext(ctx).Order("created_at asc").First(&artist).Error; err != nil {
		return nil, translate(err)
	}
	return &artist, nil
}

func (r *ArtistRepository) FindByFullName(ctx context.Context, name string) (*models.Artist, error) {
	var artist models.Artist
	if err := r.db.WithContext(ctx).Where("full_name = ?", name).First(&artist).Error; err != nil {
		return nil, translate(err)
	}
	return &artist, nil
}

func (r *ArtistRepository) Upsert(ctx context.Context, artist *models.Artist) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "avatar_url", "description", "specialties", "updated_at"}),
	}).Create(artist).Error
	if err != nil {
		return fmt.Errorf("failed to upsert artist %s: %w", artist.ID, err)
	}
	return nil
}

type ArtRepository struct {
	db *gorm.DB
}

func NewArtRepository(db *gorm.DB) *ArtRepository {
	return &ArtRepository{db: db}
}

// CreateMany inserts arts, skipping image URLs that already exist.
// It returns the number of rows actually inserted.
func (r *ArtRepository) CreateMany(ctx context.Context, arts []models.Art) (int64, error) {
	if len(arts) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "image_url"}}, DoNothing: true}).
		Create(&arts)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to create arts: %w", result.Error)
	}
	return result.RowsAffected, nil
}
