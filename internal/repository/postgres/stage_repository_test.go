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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stageRowColumns = []string{"id", "pipeline_id", "name", "color", "position", "actions", "created_at", "updated_at"}

func setupStageRepo(t *testing.T) (*stageRepository, sqlmock.Sqlmock) {
	db, mock := setupMockDB(t)
	return NewStageRepository(db), mock
}

func TestStageRepository_Create(t *testing.T) {
	repo, mock := setupStageRepo(t)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO pipeline_stages").
		WithArgs(2, "Qualified", "#22c55e", `[]`, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "position", "created_at"}).AddRow(10, 3, now))

	stage := &domain.Stage{PipelineID: "pl-2", Name: "Qualified", Color: "#22c55e"}
	err := repo.Create(context.Background(), stage)

	require.NoError(t, err)
	assert.Equal(t, "st-10", stage.ID)
	assert.Equal(t, 3, stage.Position, "позиция назначается в конец воронки")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStageRepository_ListByPipeline(t *testing.T) {
	t.Run("этапы с действиями", func(t *testing.T) {
		repo, mock := setupStageRepo(t)

		createdAt := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
		mock.ExpectQuery("FROM pipeline_stages WHERE pipeline_id").
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows(stageRowColumns).
				AddRow(1, 1, "New", "#64748b", 0, []byte(`["send-email","wait"]`), createdAt, nil).
				AddRow(2, 1, "Won", "#22c55e", 1, []byte(`[]`), createdAt, nil))

		stages, err := repo.ListByPipeline(context.Background(), "pl-1")

		require.NoError(t, err)
		require.Len(t, stages, 2)
		assert.Equal(t, "st-1", stages[0].ID)
		assert.Equal(t, "pl-1", stages[0].PipelineID)
		assert.Equal(t, []string{"send-email", "wait"}, stages[0].Actions)
		assert.NotNil(t, stages[1].Actions)
		assert.Empty(t, stages[1].Actions)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("пустая воронка", func(t *testing.T) {
		repo, mock := setupStageRepo(t)

		mock.ExpectQuery("FROM pipeline_stages WHERE pipeline_id").
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows(stageRowColumns))

		stages, err := repo.ListByPipeline(context.Background(), "pl-1")

		require.NoError(t, err)
		assert.NotNil(t, stages)
		assert.Empty(t, stages)
	})

	t.Run("ошибка: битый JSON действий", func(t *testing.T) {
		repo, mock := setupStageRepo(t)

		mock.ExpectQuery("FROM pipeline_stages WHERE pipeline_id").
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows(stageRowColumns).
				AddRow(1, 1, "New", "#64748b", 0, []byte(`{`), time.Now(), nil))

		_, err := repo.ListByPipeline(context.Background(), "pl-1")
		assert.Error(t, err)
	})
}

func TestStageRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := setupStageRepo(t)

	mock.ExpectQuery("FROM pipeline_stages WHERE id").
		WithArgs(4).
		WillReturnError(sql.ErrNoRows)

	stage, err := repo.GetByID(context.Background(), "st-4")

	assert.Nil(t, stage)
	assert.ErrorIs(t, err, repository.ErrStageNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStageRepository_UpdateColor(t *testing.T) {
	repo, mock := setupStageRepo(t)

	mock.ExpectExec("UPDATE pipeline_stages SET color").
		WithArgs(4, "#ff0000", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateColor(context.Background(), "st-4", "#ff0000"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStageRepository_SaveLayout(t *testing.T) {
	stages := []domain.Stage{
		{ID: "st-1", Position: 1, Actions: []string{"b", "a"}},
		{ID: "st-2", Position: 0, Actions: nil},
	}

	t.Run("все этапы сохраняются в одной транзакции", func(t *testing.T) {
		repo, mock := setupStageRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE pipeline_stages SET position").
			WithArgs(1, 1, `["b","a"]`, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE pipeline_stages SET position").
			WithArgs(2, 0, `[]`, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.SaveLayout(context.Background(), stages))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("откат, если этап не найден", func(t *testing.T) {
		repo, mock := setupStageRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE pipeline_stages SET position").
			WithArgs(1, 1, `["b","a"]`, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.SaveLayout(context.Background(), stages)
		assert.ErrorIs(t, err, repository.ErrStageNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("откат при ошибке базы", func(t *testing.T) {
		repo, mock := setupStageRepo(t)

		dbErr := errors.New("connection reset")
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE pipeline_stages SET position").
			WillReturnError(dbErr)
		mock.ExpectRollback()

		err := repo.SaveLayout(context.Background(), stages)
		assert.Equal(t, dbErr, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStageRepository_Delete(t *testing.T) {
	t.Run("позиции уплотняются", func(t *testing.T) {
		repo, mock := setupStageRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery("DELETE FROM pipeline_stages").
			WithArgs(3).
			WillReturnRows(sqlmock.NewRows([]string{"pipeline_id", "position"}).AddRow(1, 2))
		mock.ExpectExec("SET position = position - 1").
			WithArgs(1, 2, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 4))
		mock.ExpectCommit()

		require.NoError(t, repo.Delete(context.Background(), "st-3"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка: этап не найден", func(t *testing.T) {
		repo, mock := setupStageRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery("DELETE FROM pipeline_stages").
			WithArgs(3).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err := repo.Delete(context.Background(), "st-3")
		assert.ErrorIs(t, err, repository.ErrStageNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
