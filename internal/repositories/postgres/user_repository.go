package postgres

import (
	"context"
	"fmt"
	"time"

	"reading-service/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByClerkID(ctx context.Context, clerkUserID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("clerk_user_id = ?", clerkUserID).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindProfile loads the user with the subscriptions that are still active at now.
func (r *UserRepository) FindProfile(ctx context.Context, clerkUserID string, now time.Time) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Subscriptions", "end_time > ? AND is_voided = ?", now, false).
		Preload("Subscriptions.Package").
		Where("clerk_user_id = ?", clerkUserID).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", translate(err))
	}
	return nil
}

func (r *UserRepository) DeleteByClerkID(ctx context.Context, clerkUserID string) error {
	result := r.db.WithContext(ctx).Where("clerk_user_id = ?", clerkUserID).Delete(&models.User{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateTokenBalance(ctx context.Context, clerkUserID string, balance int) (*models.User, error) {
	return r.updateAndReload(ctx, clerkUserID, map[string]any{"token_balance": balance})
}

// IncrementTokenBalance adds delta atomically in the database.
func (r *UserRepository) IncrementTokenBalance(ctx context.Context, clerkUserID string, delta int) (*models.User, error) {
	return r.updateAndReload(ctx, clerkUserID, map[string]any{
		"token_balance": gorm.Expr("token_balance + ?", delta),
	})
}

// ResetTestingState clears the free flip marker and sets the balance.
func (r *UserRepository) ResetTestingState(ctx context.Context, clerkUserID string, balance int) (*models.User, error) {
	return r.updateAndReload(ctx, clerkUserID, map[string]any{
		"last_free_flip_at": nil,
		"token_balance":     balance,
	})
}

func (r *UserRepository) updateAndReload(ctx context.Context, clerkUserID string, values map[string]any) (*models.User, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("clerk_user_id = ?", clerkUserID).
		Updates(values)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByClerkID(ctx, clerkUserID)
}

// Upsert inserts the user or, on a clerk_user_id conflict, overwrites the
// given columns. With no columns an existing row is left untouched.
func (r *UserRepository) Upsert(ctx context.Context, user *models.User, columns ...string) error {
	conflict := clause.OnConflict{Columns: []clause.Column{{Name: "clerk_user_id"}}}
	if len(columns) == 0 {
		conflict.DoNothing = true
	} else {
		conflict.DoUpdates = clause.AssignmentColumns(append(columns, "updated_at"))
	}
	if err := r.db.WithContext(ctx).Clauses(conflict).Create(user).Error; err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", user.ClerkUserID, err)
	}
	return nil
}
