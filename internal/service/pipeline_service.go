package service

import (
	"context"

	"github.com/bagdasarian/leadpipe/internal/domain"
	"github.com/bagdasarian/leadpipe/internal/pipeline"
)

// ActionInsert - результат вставки действия из библиотеки
type ActionInsert struct {
	Pipeline *domain.Pipeline
	Ref      string
}

type PipelineService interface {
	CreatePipeline(ctx context.Context, accountID, name string, stageNames []string) (*domain.Pipeline, error)
	GetPipeline(ctx context.Context, id string) (*domain.Pipeline, error)
	ListPipelines(ctx context.Context, accountID string) ([]*domain.Pipeline, error)
	RenamePipeline(ctx context.Context, id, name string) (*domain.Pipeline, error)
	DeletePipeline(ctx context.Context, id string) error
	// GetBoard загружает этапы и количество лидов на них
	GetBoard(ctx context.Context, id string) (*domain.Board, error)

	GetStage(ctx context.Context, id string) (*domain.Stage, error)
	CreateStage(ctx context.Context, pipelineID, name, color string) (*domain.Stage, error)
	RenameStage(ctx context.Context, id, name string) (*domain.Stage, error)
	DeleteStage(ctx context.Context, id string) error
	// UpdateStageColor сохраняет цвет после паузы во вводе
	UpdateStageColor(ctx context.Context, id, color string) error

	InsertAction(ctx context.Context, stageID, actionID string, index int) (*ActionInsert, error)
	RemoveAction(ctx context.Context, stageID string, index int) (*domain.Pipeline, error)
	MoveAction(ctx context.Context, pipelineID string, source, target pipeline.Position) (*domain.Pipeline, error)
	MoveStage(ctx context.Context, pipelineID string, from, to int) (*domain.Pipeline, error)
	Drop(ctx context.Context, pipelineID string, state pipeline.DragState) (*ActionInsert, error)

	// Close дописывает отложенные изменения цвета
	Close()
}
