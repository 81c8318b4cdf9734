package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bagdasarian/leadpipe/internal/domain"
	"github.com/bagdasarian/leadpipe/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db: db}
}

const userColumns = `id, account_id, email, name, role, password_hash, is_active, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	accountDBID, err := stringIDToInt(accountPrefix, user.AccountID)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (account_id, email, name, role, password_hash, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	var dbID int
	err = r.db.QueryRowContext(
		ctx,
		query,
		accountDBID,
		user.Email,
		user.Name,
		string(user.Role),
		user.PasswordHash,
		user.IsActive,
		time.Now(),
	).Scan(&dbID, &user.CreatedAt)
	if err != nil {
		return mapWriteError(err)
	}

	user.ID = intToStringID(userPrefix, dbID)
	user.UpdatedAt = nil
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	dbID, err := stringIDToInt(userPrefix, user.ID)
	if err != nil {
		return err
	}

	query := `
		UPDATE users
		SET email = $2, name = $3, role = $4, password_hash = $5, is_active = $6, updated_at = $7
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	var updatedAt sql.NullTime
	err = r.db.QueryRowContext(
		ctx,
		query,
		dbID,
		user.Email,
		user.Name,
		string(user.Role),
		user.PasswordHash,
		user.IsActive,
		time.Now(),
	).Scan(&user.CreatedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrUserNotFound
		}
		return mapWriteError(err)
	}

	user.UpdatedAt = updatedAtPtr(updatedAt)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	dbID, err := stringIDToInt(userPrefix, id)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, dbID)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return r.getOne(ctx, query, email)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.User, error) {
	accountDBID, err := stringIDToInt(accountPrefix, accountID)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE account_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, accountDBID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (r *userRepository) SetIsActive(ctx context.Context, userID string, isActive bool) error {
	dbID, err := stringIDToInt(userPrefix, userID)
	if err != nil {
		return err
	}

	query := `
		UPDATE users
		SET is_active = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, dbID, isActive, time.Now())
	if err != nil {
		return err
	}
	return checkAffected(result, repository.ErrUserNotFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	user := &domain.User{}
	var dbID, accountDBID int
	var role string
	var updatedAt sql.NullTime
	err := row.Scan(
		&dbID,
		&accountDBID,
		&user.Email,
		&user.Name,
		&role,
		&user.PasswordHash,
		&user.IsActive,
		&user.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.ID = intToStringID(userPrefix, dbID)
	user.AccountID = intToStringID(accountPrefix, accountDBID)
	user.Role = domain.Role(role)
	user.UpdatedAt = updatedAtPtr(updatedAt)
	return user, nil
}
