package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bagdasarian/leadpipe/internal/domain"
	"github.com/bagdasarian/leadpipe/internal/repository"
)

type accountService struct {
	accountRepo repository.AccountRepository
}

// NewAccountService создает новый экземпляр AccountService
func NewAccountService(accountRepo repository.AccountRepository) AccountService {
	return &accountService{accountRepo: accountRepo}
}

func (s *accountService) CreateAccount(ctx context.Context, name string) (*domain.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("account name is required")
	}

	account := &domain.Account{Name: name}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.ErrAccountExists
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	accounts, err := s.accountRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []*domain.Account{}
	}
	return accounts, nil
}

func (s *accountService) RenameAccount(ctx context.Context, id, name string) (*domain.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("account name is required")
	}

	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	account.Name = name
	if err := s.accountRepo.Update(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.ErrAccountExists
		}
		return nil, mapRepoError(err)
	}
	return account, nil
}

// DeleteAccount удаляет аккаунт вместе с пользователями, воронками и лидами
func (s *accountService) DeleteAccount(ctx context.Context, id string) error {
	return mapRepoError(s.accountRepo.Delete(ctx, id))
}
