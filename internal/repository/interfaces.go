package repository

import (
	"context"

	"github.com/lauzhack/pictorial/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type GenerationRepository interface {
	Create(ctx context.Context, generation *domain.Generation) error
	ListByUser(ctx context.Context, userID int64) ([]*domain.Generation, error)
}

type Repositories struct {
	User       UserRepository
	Generation GenerationRepository
}
