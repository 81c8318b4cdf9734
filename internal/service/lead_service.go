package service

import (
	"context"

	"github.com/bagdasarian/leadpipe/internal/domain"
)

type LeadService interface {
	CreateLead(ctx context.Context, lead *domain.Lead) (*domain.Lead, error)
	GetLead(ctx context.Context, id string) (*domain.Lead, error)
	UpdateLead(ctx context.Context, lead *domain.Lead) (*domain.Lead, error)
	DeleteLead(ctx context.Context, id string) error
	// MoveToStage переносит лид на этап; пустой stageID снимает лид с воронки
	MoveToStage(ctx context.Context, leadID, stageID string) (*domain.Lead, error)
	ListLeads(ctx context.Context, accountID string, filter domain.LeadFilter) ([]*domain.Lead, error)
}
