package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bagdasarian/leadpipe/internal/domain"
	"github.com/bagdasarian/leadpipe/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAccountRepo(t *testing.T) (*accountRepository, sqlmock.Sqlmock) {
	db, mock := setupMockDB(t)
	return NewAccountRepository(db), mock
}

func TestAccountRepository_Create(t *testing.T) {
	t.Run("успешное создание аккаунта", func(t *testing.T) {
		repo, mock := setupAccountRepo(t)

		now := time.Now()
		mock.ExpectQuery("INSERT INTO accounts").
			WithArgs("Acme", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(3, now))

		account := &domain.Account{Name: "Acme"}
		err := repo.Create(context.Background(), account)

		require.NoError(t, err)
		assert.Equal(t, "acc-3", account.ID)
		assert.Equal(t, now, account.CreatedAt)
		assert.Nil(t, account.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка: имя уже занято", func(t *testing.T) {
		repo, mock := setupAccountRepo(t)

		mock.ExpectQuery("INSERT INTO accounts").
			WithArgs("Acme", sqlmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.Create(context.Background(), &domain.Account{Name: "Acme"})

		assert.ErrorIs(t, err, repository.ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_GetByID(t *testing.T) {
	t.Run("успешное получение", func(t *testing.T) {
		repo, mock := setupAccountRepo(t)

		createdAt := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
		mock.ExpectQuery("SELECT id, name, created_at, updated_at FROM accounts").
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
				AddRow(1, "Acme", createdAt, nil))

		account, err := repo.GetByID(context.Background(), "acc-1")

		require.NoError(t, err)
		assert.Equal(t, "acc-1", account.ID)
		assert.Equal(t, "Acme", account.Name)
		assert.Nil(t, account.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка: аккаунт не найден", func(t *testing.T) {
		repo, mock := setupAccountRepo(t)

		mock.ExpectQuery("SELECT id, name, created_at, updated_at FROM accounts").
			WithArgs(9).
			WillReturnError(sql.ErrNoRows)

		account, err := repo.GetByID(context.Background(), "acc-9")

		assert.Nil(t, account)
		assert.ErrorIs(t, err, repository.ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка: невалидный ID", func(t *testing.T) {
		repo, mock := setupAccountRepo(t)

		_, err := repo.GetByID(context.Background(), "acc-x")

		assert.ErrorIs(t, err, repository.ErrInvalidID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_List(t *testing.T) {
	repo, mock := setupAccountRepo(t)

	createdAt := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	updatedAt := createdAt.Add(time.Hour)
	mock.ExpectQuery("SELECT id, name, created_at, updated_at FROM accounts ORDER BY name").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
			AddRow(1, "Acme", createdAt, updatedAt).
			AddRow(2, "Globex", createdAt, nil))

	accounts, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "acc-1", accounts[0].ID)
	require.NotNil(t, accounts[0].UpdatedAt)
	assert.Equal(t, updatedAt, *accounts[0].UpdatedAt)
	assert.Nil(t, accounts[1].UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Update(t *testing.T) {
	t.Run("успешное переименование", func(t *testing.T) {
		repo, mock := setupAccountRepo(t)

		now := time.Now()
		mock.ExpectQuery("UPDATE accounts").
			WithArgs(1, "Acme Inc", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now.Add(-time.Hour), now))

		account := &domain.Account{ID: "acc-1", Name: "Acme Inc"}
		err := repo.Update(context.Background(), account)

		require.NoError(t, err)
		assert.NotNil(t, account.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка: аккаунт не найден", func(t *testing.T) {
		repo, mock := setupAccountRepo(t)

		mock.ExpectQuery("UPDATE accounts").
			WithArgs(5, "Acme", sqlmock.AnyArg()).
			WillReturnError(sql.ErrNoRows)

		err := repo.Update(context.Background(), &domain.Account{ID: "acc-5", Name: "Acme"})

		assert.ErrorIs(t, err, repository.ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_Delete(t *testing.T) {
	t.Run("успешное удаление", func(t *testing.T) {
		repo, mock := setupAccountRepo(t)

		mock.ExpectExec("DELETE FROM accounts").
			WithArgs(1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Delete(context.Background(), "acc-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка: аккаунт не найден", func(t *testing.T) {
		repo, mock := setupAccountRepo(t)

		mock.ExpectExec("DELETE FROM accounts").
			WithArgs(2).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), "acc-2")
		assert.ErrorIs(t, err, repository.ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка базы данных", func(t *testing.T) {
		repo, mock := setupAccountRepo(t)

		dbErr := errors.New("database error")
		mock.ExpectExec("DELETE FROM accounts").
			WithArgs(2).
			WillReturnError(dbErr)

		err := repo.Delete(context.Background(), "acc-2")
		assert.Equal(t, dbErr, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
