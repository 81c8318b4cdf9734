package service

import (
	"context"

	"github.com/bagdasarian/leadpipe/internal/domain"
)

type TemplateService interface {
	CreateTemplate(ctx context.Context, tpl *domain.MessageTemplate) (*domain.MessageTemplate, error)
	GetTemplate(ctx context.Context, id string) (*domain.MessageTemplate, error)
	ListTemplates(ctx context.Context, accountID string) ([]*domain.MessageTemplate, error)
	UpdateTemplate(ctx context.Context, tpl *domain.MessageTemplate) (*domain.MessageTemplate, error)
	DeleteTemplate(ctx context.Context, id string) error
}

type ActionLibraryService interface {
	ListActions(ctx context.Context) ([]*domain.AutomationAction, error)
	GetAction(ctx context.Context, id string) (*domain.AutomationAction, error)
}
