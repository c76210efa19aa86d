package gormdb

import (
	"context"
	"fmt"
	"time"

	"github.com/lauzhack/pictorial/internal/domain"
	"gorm.io/gorm"
)

type generationRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewGenerationRepository(db *gorm.DB, timeout time.Duration) *generationRepository {
	return &generationRepository{db: db, timeout: timeout}
}

func (r *generationRepository) Create(ctx context.Context, generation *domain.Generation) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(generation).Error; err != nil {
		return fmt.Errorf("create generation: %w", err)
	}
	return nil
}

// ListByUser returns the user's generations, newest first.
func (r *generationRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Generation, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var generations []*domain.Generation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&generations).Error
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	return generations, nil
}
