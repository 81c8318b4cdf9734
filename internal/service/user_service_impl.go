package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/bagdasarian/leadpipe/internal/auth"
	"github.com/bagdasarian/leadpipe/internal/domain"
	"github.com/bagdasarian/leadpipe/internal/repository"
)

type userService struct {
	userRepo    repository.UserRepository
	accountRepo repository.AccountRepository
	tokens      *auth.TokenManager
	logger      *zap.Logger
}

// NewUserService создает новый экземпляр UserService
func NewUserService(
	userRepo repository.UserRepository,
	accountRepo repository.AccountRepository,
	tokens *auth.TokenManager,
	logger *zap.Logger,
) UserService {
	return &userService{
		userRepo:    userRepo,
		accountRepo: accountRepo,
		tokens:      tokens,
		logger:      logger,
	}
}

func (s *userService) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if input.Role == "" {
		input.Role = domain.RoleMember
	}
	if !input.Role.Valid() {
		return nil, domain.NewValidationError("unknown role " + string(input.Role))
	}
	if err := auth.ValidatePasswordStrength(input.Password); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	if _, err := s.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, mapRepoError(err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		AccountID:    input.AccountID,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Name:         strings.TrimSpace(input.Name),
		Role:         input.Role,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.ErrUserExists
		}
		return nil, mapRepoError(err)
	}

	s.logger.Info("user created",
		zap.String("user_id", user.ID),
		zap.String("account_id", user.AccountID),
		zap.String("role", string(user.Role)),
	)
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, accountID string) ([]*domain.User, error) {
	users, err := s.userRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if input.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, domain.NewValidationError("unknown role " + string(*input.Role))
		}
		user.Role = *input.Role
	}
	if input.Password != nil {
		if err := auth.ValidatePasswordStrength(*input.Password); err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.ErrUserExists
		}
		return nil, mapRepoError(err)
	}
	return user, nil
}

// SetIsActive устанавливает флаг активности пользователя
func (s *userService) SetIsActive(ctx context.Context, id string, isActive bool) (*domain.User, error) {
	if err := s.userRepo.SetIsActive(ctx, id, isActive); err != nil {
		return nil, mapRepoError(err)
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			auth.SimulatePasswordCheck(password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		s.logger.Warn("failed login attempt", zap.String("user_id", user.ID))
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *userService) UserFromToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}
	return user, nil
}
