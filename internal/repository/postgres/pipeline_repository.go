package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bagdasarian/leadpipe/internal/domain"
	"github.com/bagdasarian/leadpipe/internal/repository"
)

type pipelineRepository struct {
	db *sql.DB
}

func NewPipelineRepository(db *sql.DB) *pipelineRepository {
	return &pipelineRepository{db: db}
}

func (r *pipelineRepository) Create(ctx context.Context, pipeline *domain.Pipeline) error {
	accountDBID, err := stringIDToInt(accountPrefix, pipeline.AccountID)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO pipelines (account_id, name, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	var dbID int
	err = r.db.QueryRowContext(ctx, query, accountDBID, pipeline.Name, time.Now()).Scan(&dbID, &pipeline.CreatedAt)
	if err != nil {
		return mapWriteError(err)
	}

	pipeline.ID = intToStringID(pipelinePrefix, dbID)
	pipeline.UpdatedAt = nil
	return nil
}

func (r *pipelineRepository) GetByID(ctx context.Context, id string) (*domain.Pipeline, error) {
	dbID, err := stringIDToInt(pipelinePrefix, id)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, account_id, name, created_at, updated_at
		FROM pipelines
		WHERE id = $1
	`

	pipeline, err := scanPipeline(r.db.QueryRowContext(ctx, query, dbID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrPipelineNotFound
		}
		return nil, err
	}
	return pipeline, nil
}

func (r *pipelineRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Pipeline, error) {
	accountDBID, err := stringIDToInt(accountPrefix, accountID)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, account_id, name, created_at, updated_at
		FROM pipelines
		WHERE account_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, accountDBID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pipelines []*domain.Pipeline
	for rows.Next() {
		pipeline, err := scanPipeline(rows)
		if err != nil {
			return nil, err
		}
		pipelines = append(pipelines, pipeline)
	}

	return pipelines, rows.Err()
}

func (r *pipelineRepository) Rename(ctx context.Context, id, name string) error {
	dbID, err := stringIDToInt(pipelinePrefix, id)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		"UPDATE pipelines SET name = $2, updated_at = $3 WHERE id = $1",
		dbID, name, time.Now(),
	)
	if err != nil {
		return mapWriteError(err)
	}
	return checkAffected(result, repository.ErrPipelineNotFound)
}

func (r *pipelineRepository) Delete(ctx context.Context, id string) error {
	dbID, err := stringIDToInt(pipelinePrefix, id)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, "DELETE FROM pipelines WHERE id = $1", dbID)
	if err != nil {
		return err
	}
	return checkAffected(result, repository.ErrPipelineNotFound)
}

func scanPipeline(row rowScanner) (*domain.Pipeline, error) {
	pipeline := &domain.Pipeline{}
	var dbID, accountDBID int
	var updatedAt sql.NullTime
	if err := row.Scan(&dbID, &accountDBID, &pipeline.Name, &pipeline.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}

	pipeline.ID = intToStringID(pipelinePrefix, dbID)
	pipeline.AccountID = intToStringID(accountPrefix, accountDBID)
	pipeline.UpdatedAt = updatedAtPtr(updatedAt)
	return pipeline, nil
}
