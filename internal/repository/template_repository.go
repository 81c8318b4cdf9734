package repository

import (
	"context"

	"github.com/bagdasarian/leadpipe/internal/domain"
)

type TemplateRepository interface {
	Create(ctx context.Context, tpl *domain.MessageTemplate) error
	GetByID(ctx context.Context, id string) (*domain.MessageTemplate, error)
	ListByAccount(ctx context.Context, accountID string) ([]*domain.MessageTemplate, error)
	Update(ctx context.Context, tpl *domain.MessageTemplate) error
	Delete(ctx context.Context, id string) error
}
