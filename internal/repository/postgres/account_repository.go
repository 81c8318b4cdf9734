package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bagdasarian/leadpipe/internal/domain"
	"github.com/bagdasarian/leadpipe/internal/repository"
)

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *accountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (name, created_at)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	var dbID int
	err := r.db.QueryRowContext(ctx, query, account.Name, time.Now()).Scan(&dbID, &account.CreatedAt)
	if err != nil {
		return mapWriteError(err)
	}

	account.ID = intToStringID(accountPrefix, dbID)
	account.UpdatedAt = nil
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	dbID, err := stringIDToInt(accountPrefix, id)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	account := &domain.Account{}
	var updatedAt sql.NullTime
	err = r.db.QueryRowContext(ctx, query, dbID).Scan(&dbID, &account.Name, &account.CreatedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrAccountNotFound
		}
		return nil, err
	}

	account.ID = intToStringID(accountPrefix, dbID)
	account.UpdatedAt = updatedAtPtr(updatedAt)
	return account, nil
}

func (r *accountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM accounts
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account := &domain.Account{}
		var dbID int
		var updatedAt sql.NullTime
		if err := rows.Scan(&dbID, &account.Name, &account.CreatedAt, &updatedAt); err != nil {
			return nil, err
		}
		account.ID = intToStringID(accountPrefix, dbID)
		account.UpdatedAt = updatedAtPtr(updatedAt)
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	dbID, err := stringIDToInt(accountPrefix, account.ID)
	if err != nil {
		return err
	}

	query := `
		UPDATE accounts
		SET name = $2, updated_at = $3
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	var updatedAt sql.NullTime
	err = r.db.QueryRowContext(ctx, query, dbID, account.Name, time.Now()).Scan(&account.CreatedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrAccountNotFound
		}
		return mapWriteError(err)
	}

	account.UpdatedAt = updatedAtPtr(updatedAt)
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, id string) error {
	dbID, err := stringIDToInt(accountPrefix, id)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = $1", dbID)
	if err != nil {
		return err
	}
	return checkAffected(result, repository.ErrAccountNotFound)
}
