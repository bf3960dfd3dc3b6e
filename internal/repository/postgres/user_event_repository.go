package postgres

import (
	"context"
	"fmt"
	"shopSense/domain"

	"gorm.io/gorm"
)

type UserEventRepository struct {
	DB *gorm.DB
}

func NewUserEventRepository(db *gorm.DB) *UserEventRepository {
	return &UserEventRepository{DB: db}
}

func (r *UserEventRepository) Create(ctx context.Context, event *domain.UserEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to save user event: %w", err)
	}

	return nil
}

func (r *UserEventRepository) FindRecentByUser(ctx context.Context, userID string, limit int) ([]domain.UserEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var events []domain.UserEvent
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find user events: %w", err)
	}

	return events, nil
}

// FindRecentWithProducts loads events together with the product each one
// points to, so callers can build interaction text without extra lookups.
func (r *UserEventRepository) FindRecentWithProducts(ctx context.Context, userID string, limit int) ([]domain.UserEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var events []domain.UserEvent
	err := r.DB.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find user events with products: %w", err)
	}

	return events, nil
}
