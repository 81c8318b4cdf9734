package service

import (
	"context"

	"github.com/bagdasarian/leadpipe/internal/domain"
)

type AccountService interface {
	CreateAccount(ctx context.Context, name string) (*domain.Account, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]*domain.Account, error)
	RenameAccount(ctx context.Context, id, name string) (*domain.Account, error)
	DeleteAccount(ctx context.Context, id string) error
}
