package postgres

import (
	"context"
	"fmt"

	"reading-service/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PackageRepository struct {
	db *gorm.DB
}

func NewPackageRepository(db *gorm.DB) *PackageRepository {
	return &PackageRepository{db: db}
}

func (r *PackageRepository) FindByType(ctx context.Context, t models.PackageType) (*models.Package, error) {
	var pkg models.Package
	if err := r.db.WithContext(ctx).Where("type = ?", t).First(&pkg).Error; err != nil {
		return nil, translate(err)
	}
	return &pkg, nil
}

func (r *PackageRepository) List(ctx context.Context) ([]models.Package, error) {
	var pkgs []models.Package
	if err := r.db.WithContext(ctx).Order("price_thb asc").Find(&pkgs).Error; err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	return pkgs, nil
}

// Upsert keys on the package type.
func (r *PackageRepository) Upsert(ctx context.Context, pkg *models.Package) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "type"}},
		DoUpdates: clause.AssignmentColumns([]string{"name_th", "name_en", "price_thb", "stripe_price_id", "updated_at"}),
	}).Create(pkg).Error
	if err != nil {
		return fmt.Errorf("failed to upsert package %s: %w", pkg.Type, err)
	}
	return nil
}
