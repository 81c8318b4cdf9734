package repository

import (
	"context"

	"github.com/bagdasarian/leadpipe/internal/domain"
)

type LeadRepository interface {
	Create(ctx context.Context, lead *domain.Lead) error
	GetByID(ctx context.Context, id string) (*domain.Lead, error)
	ListByAccount(ctx context.Context, accountID string) ([]*domain.Lead, error)
	Update(ctx context.Context, lead *domain.Lead) error
	UpdateStage(ctx context.Context, leadID, pipelineID, stageID string) error
	Delete(ctx context.Context, id string) error
	// CountByStage возвращает количество лидов по id этапа воронки
	CountByStage(ctx context.Context, pipelineID string) (map[string]int, error)
}
