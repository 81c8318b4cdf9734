package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/bagdasarian/leadpipe/internal/domain"
	"github.com/bagdasarian/leadpipe/internal/repository"
)

type stageRepository struct {
	db *sql.DB
}

func NewStageRepository(db *sql.DB) *stageRepository {
	return &stageRepository{db: db}
}

const stageColumns = `id, pipeline_id, name, color, position, actions, created_at, updated_at`

// Create добавляет этап в конец воронки
func (r *stageRepository) Create(ctx context.Context, stage *domain.Stage) error {
	pipelineDBID, err := stringIDToInt(pipelinePrefix, stage.PipelineID)
	if err != nil {
		return err
	}

	actions, err := encodeActions(stage.Actions)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO pipeline_stages (pipeline_id, name, color, position, actions, created_at)
		VALUES ($1, $2, $3, (SELECT COUNT(*) FROM pipeline_stages WHERE pipeline_id = $1), $4::jsonb, $5)
		RETURNING id, position, created_at
	`

	var dbID int
	err = r.db.QueryRowContext(
		ctx,
		query,
		pipelineDBID,
		stage.Name,
		stage.Color,
		actions,
		time.Now(),
	).Scan(&dbID, &stage.Position, &stage.CreatedAt)
	if err != nil {
		return err
	}

	stage.ID = intToStringID(stagePrefix, dbID)
	stage.UpdatedAt = nil
	return nil
}

func (r *stageRepository) GetByID(ctx context.Context, id string) (*domain.Stage, error) {
	dbID, err := stringIDToInt(stagePrefix, id)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + stageColumns + ` FROM pipeline_stages WHERE id = $1`

	stage, err := scanStage(r.db.QueryRowContext(ctx, query, dbID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrStageNotFound
		}
		return nil, err
	}
	return &stage, nil
}

func (r *stageRepository) ListByPipeline(ctx context.Context, pipelineID string) ([]domain.Stage, error) {
	pipelineDBID, err := stringIDToInt(pipelinePrefix, pipelineID)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + stageColumns + ` FROM pipeline_stages WHERE pipeline_id = $1 ORDER BY position, id`

	rows, err := r.db.QueryContext(ctx, query, pipelineDBID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stages := make([]domain.Stage, 0)
	for rows.Next() {
		stage, err := scanStage(rows)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}

	return stages, rows.Err()
}

func (r *stageRepository) Rename(ctx context.Context, id, name string) error {
	return r.updateColumn(ctx, id, "name", name)
}

func (r *stageRepository) UpdateColor(ctx context.Context, id, color string) error {
	return r.updateColumn(ctx, id, "color", color)
}

// column подставляется только из констант вызывающего кода
func (r *stageRepository) updateColumn(ctx context.Context, id, column, value string) error {
	dbID, err := stringIDToInt(stagePrefix, id)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("UPDATE pipeline_stages SET %s = $2, updated_at = $3 WHERE id = $1", column)
	result, err := r.db.ExecContext(ctx, query, dbID, value, time.Now())
	if err != nil {
		return err
	}
	return checkAffected(result, repository.ErrStageNotFound)
}

func (r *stageRepository) SaveLayout(ctx context.Context, stages []domain.Stage) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE pipeline_stages
		SET position = $2, actions = $3::jsonb, updated_at = $4
		WHERE id = $1
	`

	now := time.Now()
	for _, stage := range stages {
		dbID, err := stringIDToInt(stagePrefix, stage.ID)
		if err != nil {
			return err
		}

		actions, err := encodeActions(stage.Actions)
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, query, dbID, stage.Position, actions, now)
		if err != nil {
			return err
		}
		if err := checkAffected(result, repository.ErrStageNotFound); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *stageRepository) Delete(ctx context.Context, id string) error {
	dbID, err := stringIDToInt(stagePrefix, id)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var pipelineDBID, position int
	err = tx.QueryRowContext(ctx,
		"DELETE FROM pipeline_stages WHERE id = $1 RETURNING pipeline_id, position", dbID,
	).Scan(&pipelineDBID, &position)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrStageNotFound
		}
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE pipeline_stages
		SET position = position - 1, updated_at = $3
		WHERE pipeline_id = $1 AND position > $2
	`, pipelineDBID, position, time.Now())
	if err != nil {
		return err
	}

	return tx.Commit()
}

func scanStage(row rowScanner) (domain.Stage, error) {
	var stage domain.Stage
	var dbID, pipelineDBID int
	var actions []byte
	var updatedAt sql.NullTime
	err := row.Scan(
		&dbID,
		&pipelineDBID,
		&stage.Name,
		&stage.Color,
		&stage.Position,
		&actions,
		&stage.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Stage{}, err
	}

	stage.Actions, err = decodeActions(actions)
	if err != nil {
		return domain.Stage{}, err
	}
	stage.ID = intToStringID(stagePrefix, dbID)
	stage.PipelineID = intToStringID(pipelinePrefix, pipelineDBID)
	stage.UpdatedAt = updatedAtPtr(updatedAt)
	return stage, nil
}

func encodeActions(actions []string) (string, error) {
	if actions == nil {
		actions = []string{}
	}
	data, err := json.Marshal(actions)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeActions(data []byte) ([]string, error) {
	actions := make([]string, 0)
	if len(data) == 0 {
		return actions, nil
	}
	if err := json.Unmarshal(data, &actions); err != nil {
		return nil, fmt.Errorf("failed to decode stage actions: %w", err)
	}
	if actions == nil {
		actions = make([]string, 0)
	}
	return actions, nil
}
