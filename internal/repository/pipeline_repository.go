package repository

import (
	"context"

	"github.com/bagdasarian/leadpipe/internal/domain"
)

type PipelineRepository interface {
	Create(ctx context.Context, pipeline *domain.Pipeline) error
	GetByID(ctx context.Context, id string) (*domain.Pipeline, error)
	ListByAccount(ctx context.Context, accountID string) ([]*domain.Pipeline, error)
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}

type StageRepository interface {
	Create(ctx context.Context, stage *domain.Stage) error
	GetByID(ctx context.Context, id string) (*domain.Stage, error)
	ListByPipeline(ctx context.Context, pipelineID string) ([]domain.Stage, error)
	Rename(ctx context.Context, id, name string) error
	UpdateColor(ctx context.Context, id, color string) error
	// SaveLayout сохраняет позиции и действия этапов в одной транзакции
	SaveLayout(ctx context.Context, stages []domain.Stage) error
	// Delete удаляет этап и уплотняет позиции оставшихся
	Delete(ctx context.Context, id string) error
}

type ActionRepository interface {
	List(ctx context.Context) ([]*domain.AutomationAction, error)
	GetByID(ctx context.Context, id string) (*domain.AutomationAction, error)
}
