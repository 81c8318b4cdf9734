package service

import (
	"context"
	"time"

	"github.com/bagdasarian/leadpipe/internal/domain"
)

type CreateUserInput struct {
	AccountID string
	Email     string
	Name      string
	Role      domain.Role
	Password  string
}

// UpdateUserInput - nil поля не изменяются
type UpdateUserInput struct {
	Email    *string
	Name     *string
	Role     *domain.Role
	Password *string
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context, accountID string) ([]*domain.User, error)
	UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	SetIsActive(ctx context.Context, id string, isActive bool) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*AuthResult, error)
	// UserFromToken проверяет токен и возвращает активного пользователя
	UserFromToken(ctx context.Context, token string) (*domain.User, error)
}
