package handler

import (
	"github.com/bagdasarian/leadpipe/internal/domain"
	"github.com/bagdasarian/leadpipe/internal/pipeline"
)

func domainAccountToHTTP(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID,
		Name:      account.Name,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}

func domainUserToHTTP(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		AccountID: user.AccountID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

func domainStageToHTTP(stage domain.Stage) StageResponse {
	actions := make([]ActionRefResponse, 0, len(stage.Actions))
	for _, ref := range stage.Actions {
		actions = append(actions, ActionRefResponse{
			Ref:      ref,
			ActionID: pipeline.ActionIDOf(ref),
		})
	}

	return StageResponse{
		ID:         stage.ID,
		PipelineID: stage.PipelineID,
		Name:       stage.Name,
		Color:      stage.Color,
		Position:   stage.Position,
		Actions:    actions,
	}
}

func domainPipelineToHTTP(p *domain.Pipeline) PipelineResponse {
	resp := PipelineResponse{
		ID:        p.ID,
		AccountID: p.AccountID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Stages != nil {
		resp.Stages = make([]StageResponse, 0, len(p.Stages))
		for _, stage := range p.Stages {
			resp.Stages = append(resp.Stages, domainStageToHTTP(stage))
		}
	}
	return resp
}

func domainBoardToHTTP(board *domain.Board) BoardResponse {
	pipelineResp := domainPipelineToHTTP(board.Pipeline)
	pipelineResp.Stages = nil

	stages := make([]BoardStageResponse, 0, len(board.Stages))
	for _, summary := range board.Stages {
		stages = append(stages, BoardStageResponse{
			StageResponse: domainStageToHTTP(summary.Stage),
			LeadCount:     summary.LeadCount,
		})
	}
	return BoardResponse{Pipeline: pipelineResp, Stages: stages}
}

func domainActionToHTTP(action *domain.AutomationAction) ActionResponse {
	return ActionResponse{
		ID:          action.ID,
		Name:        action.Name,
		Description: action.Description,
		Channel:     action.Channel,
	}
}

func httpLeadToDomain(req LeadRequest) *domain.Lead {
	return &domain.Lead{
		PipelineID: req.PipelineID,
		StageID:    req.StageID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Source:     req.Source,
		Value:      req.Value,
	}
}

func domainLeadToHTTP(lead *domain.Lead) LeadResponse {
	return LeadResponse{
		ID:         lead.ID,
		AccountID:  lead.AccountID,
		PipelineID: lead.PipelineID,
		StageID:    lead.StageID,
		FirstName:  lead.FirstName,
		LastName:   lead.LastName,
		FullName:   lead.FullName(),
		Email:      lead.Email,
		Phone:      lead.Phone,
		Source:     lead.Source,
		Value:      lead.Value,
		CreatedAt:  lead.CreatedAt,
		UpdatedAt:  lead.UpdatedAt,
	}
}

func httpTemplateToDomain(req TemplateRequest) *domain.MessageTemplate {
	return &domain.MessageTemplate{
		Name:    req.Name,
		Channel: domain.Channel(req.Channel),
		Subject: req.Subject,
		Body:    req.Body,
	}
}

func domainTemplateToHTTP(tpl *domain.MessageTemplate) TemplateResponse {
	return TemplateResponse{
		ID:        tpl.ID,
		AccountID: tpl.AccountID,
		Name:      tpl.Name,
		Channel:   string(tpl.Channel),
		Subject:   tpl.Subject,
		Body:      tpl.Body,
		CreatedAt: tpl.CreatedAt,
		UpdatedAt: tpl.UpdatedAt,
	}
}

func httpPositionToDomain(req PositionRequest) pipeline.Position {
	pos := pipeline.Position{StageID: req.StageID, Index: pipeline.AppendIndex}
	if req.Index != nil {
		pos.Index = *req.Index
	}
	return pos
}
