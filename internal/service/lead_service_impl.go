package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/bagdasarian/leadpipe/internal/domain"
	"github.com/bagdasarian/leadpipe/internal/events"
	"github.com/bagdasarian/leadpipe/internal/repository"
)

type leadService struct {
	leadRepo     repository.LeadRepository
	pipelineRepo repository.PipelineRepository
	stageRepo    repository.StageRepository
	publisher    events.Publisher
	logger       *zap.Logger
}

// NewLeadService создает новый экземпляр LeadService
func NewLeadService(
	leadRepo repository.LeadRepository,
	pipelineRepo repository.PipelineRepository,
	stageRepo repository.StageRepository,
	publisher events.Publisher,
	logger *zap.Logger,
) LeadService {
	return &leadService{
		leadRepo:     leadRepo,
		pipelineRepo: pipelineRepo,
		stageRepo:    stageRepo,
		publisher:    publisher,
		logger:       logger,
	}
}

func (s *leadService) CreateLead(ctx context.Context, lead *domain.Lead) (*domain.Lead, error) {
	if err := validateLead(lead); err != nil {
		return nil, err
	}
	if err := s.resolvePlacement(ctx, lead); err != nil {
		return nil, err
	}

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, mapRepoError(err)
	}

	publish(ctx, s.publisher, s.logger, domain.Event{
		Type:      domain.EventLeadCreated,
		AccountID: lead.AccountID,
		EntityID:  lead.ID,
		Payload: map[string]any{
			"pipeline_id": lead.PipelineID,
			"stage_id":    lead.StageID,
			"source":      lead.Source,
		},
	})
	return lead, nil
}

func (s *leadService) GetLead(ctx context.Context, id string) (*domain.Lead, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return lead, nil
}

func (s *leadService) UpdateLead(ctx context.Context, lead *domain.Lead) (*domain.Lead, error) {
	existing, err := s.leadRepo.GetByID(ctx, lead.ID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	lead.AccountID = existing.AccountID

	if err := validateLead(lead); err != nil {
		return nil, err
	}
	if err := s.resolvePlacement(ctx, lead); err != nil {
		return nil, err
	}

	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, mapRepoError(err)
	}

	if lead.StageID != existing.StageID {
		s.publishStageChange(ctx, lead, existing.StageID)
	}
	return lead, nil
}

func (s *leadService) DeleteLead(ctx context.Context, id string) error {
	return mapRepoError(s.leadRepo.Delete(ctx, id))
}

func (s *leadService) MoveToStage(ctx context.Context, leadID, stageID string) (*domain.Lead, error) {
	lead, err := s.leadRepo.GetByID(ctx, leadID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if lead.StageID == stageID {
		return lead, nil
	}

	fromStage := lead.StageID
	lead.StageID = stageID
	lead.PipelineID = ""
	if err := s.resolvePlacement(ctx, lead); err != nil {
		return nil, err
	}

	if err := s.leadRepo.UpdateStage(ctx, lead.ID, lead.PipelineID, lead.StageID); err != nil {
		return nil, mapRepoError(err)
	}

	s.publishStageChange(ctx, lead, fromStage)
	return lead, nil
}

func (s *leadService) ListLeads(ctx context.Context, accountID string, filter domain.LeadFilter) ([]*domain.Lead, error) {
	leads, err := s.leadRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return FilterLeads(leads, filter), nil
}

// resolvePlacement проверяет, что этап принадлежит воронке, а воронка -
// аккаунту лида. PipelineID берется из этапа, если не задан.
func (s *leadService) resolvePlacement(ctx context.Context, lead *domain.Lead) error {
	if lead.StageID != "" {
		stage, err := s.stageRepo.GetByID(ctx, lead.StageID)
		if err != nil {
			return mapRepoError(err)
		}
		if lead.PipelineID == "" {
			lead.PipelineID = stage.PipelineID
		}
		if stage.PipelineID != lead.PipelineID {
			return domain.NewBadRequestError("stage " + stage.ID + " does not belong to pipeline " + lead.PipelineID)
		}
	}

	if lead.PipelineID != "" {
		p, err := s.pipelineRepo.GetByID(ctx, lead.PipelineID)
		if err != nil {
			return mapRepoError(err)
		}
		if p.AccountID != lead.AccountID {
			return domain.NewBadRequestError("pipeline " + p.ID + " belongs to another account")
		}
	}
	return nil
}

func (s *leadService) publishStageChange(ctx context.Context, lead *domain.Lead, fromStage string) {
	publish(ctx, s.publisher, s.logger, domain.Event{
		Type:      domain.EventLeadStageChanged,
		AccountID: lead.AccountID,
		EntityID:  lead.ID,
		Payload: map[string]any{
			"pipeline_id":   lead.PipelineID,
			"from_stage_id": fromStage,
			"to_stage_id":   lead.StageID,
		},
	})
}

func validateLead(lead *domain.Lead) error {
	lead.FirstName = strings.TrimSpace(lead.FirstName)
	lead.LastName = strings.TrimSpace(lead.LastName)
	lead.Email = strings.TrimSpace(lead.Email)
	lead.Phone = strings.TrimSpace(lead.Phone)

	if lead.FirstName == "" && lead.LastName == "" {
		return domain.NewValidationError("lead name is required")
	}
	if lead.Email == "" && lead.Phone == "" {
		return domain.NewValidationError("lead email or phone is required")
	}
	if lead.Value.IsNegative() {
		return domain.NewValidationError("lead value must not be negative")
	}
	return nil
}
