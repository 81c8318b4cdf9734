package repository

import (
	"context"

	"github.com/bagdasarian/leadpipe/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByAccount(ctx context.Context, accountID string) ([]*domain.User, error)
	SetIsActive(ctx context.Context, userID string, isActive bool) error
}
