package service

import (
	"context"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/bagdasarian/leadpipe/internal/domain"
	"github.com/bagdasarian/leadpipe/internal/repository"
)

type templateService struct {
	templateRepo repository.TemplateRepository
	policy       *bluemonday.Policy
}

// NewTemplateService создает новый экземпляр TemplateService
func NewTemplateService(templateRepo repository.TemplateRepository) TemplateService {
	return &templateService{
		templateRepo: templateRepo,
		policy:       bluemonday.UGCPolicy(),
	}
}

func (s *templateService) CreateTemplate(ctx context.Context, tpl *domain.MessageTemplate) (*domain.MessageTemplate, error) {
	if err := s.prepare(tpl); err != nil {
		return nil, err
	}
	if err := s.templateRepo.Create(ctx, tpl); err != nil {
		return nil, mapRepoError(err)
	}
	return tpl, nil
}

func (s *templateService) GetTemplate(ctx context.Context, id string) (*domain.MessageTemplate, error) {
	tpl, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return tpl, nil
}

func (s *templateService) ListTemplates(ctx context.Context, accountID string) ([]*domain.MessageTemplate, error) {
	templates, err := s.templateRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if templates == nil {
		templates = []*domain.MessageTemplate{}
	}
	return templates, nil
}

func (s *templateService) UpdateTemplate(ctx context.Context, tpl *domain.MessageTemplate) (*domain.MessageTemplate, error) {
	existing, err := s.templateRepo.GetByID(ctx, tpl.ID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	tpl.AccountID = existing.AccountID

	if err := s.prepare(tpl); err != nil {
		return nil, err
	}
	if err := s.templateRepo.Update(ctx, tpl); err != nil {
		return nil, mapRepoError(err)
	}
	return tpl, nil
}

func (s *templateService) DeleteTemplate(ctx context.Context, id string) error {
	return mapRepoError(s.templateRepo.Delete(ctx, id))
}

// prepare проверяет канал и очищает тело от опасной разметки.
// SMS не поддерживает HTML, поэтому теги удаляются полностью.
func (s *templateService) prepare(tpl *domain.MessageTemplate) error {
	tpl.Name = strings.TrimSpace(tpl.Name)
	if tpl.Name == "" {
		return domain.NewValidationError("template name is required")
	}

	switch tpl.Channel {
	case domain.ChannelEmail:
		tpl.Body = s.policy.Sanitize(tpl.Body)
	case domain.ChannelSMS:
		tpl.Subject = ""
		tpl.Body = bluemonday.StrictPolicy().Sanitize(tpl.Body)
	default:
		return domain.NewValidationError("unknown channel " + string(tpl.Channel))
	}

	if strings.TrimSpace(tpl.Body) == "" {
		return domain.NewValidationError("template body is required")
	}
	return nil
}

type actionLibraryService struct {
	actionRepo repository.ActionRepository
}

func NewActionLibraryService(actionRepo repository.ActionRepository) ActionLibraryService {
	return &actionLibraryService{actionRepo: actionRepo}
}

func (s *actionLibraryService) ListActions(ctx context.Context) ([]*domain.AutomationAction, error) {
	actions, err := s.actionRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if actions == nil {
		actions = []*domain.AutomationAction{}
	}
	return actions, nil
}

func (s *actionLibraryService) GetAction(ctx context.Context, id string) (*domain.AutomationAction, error) {
	action, err := s.actionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return action, nil
}
