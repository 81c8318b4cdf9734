package handler

import (
	"net/http"

	"github.com/bagdasarian/leadpipe/internal/domain"
	"github.com/bagdasarian/leadpipe/internal/service"
)

func currentUser(r *http.Request) *domain.User {
	user, _ := UserFromContext(r.Context())
	return user
}

func (h *Handler) authorizeAccount(r *http.Request, accountID string) error {
	return service.CheckAccountAccess(currentUser(r), accountID)
}

// requireManager - управлять пользователями и аккаунтом могут owner, admin и superadmin
func requireManager(user *domain.User) error {
	if user == nil {
		return domain.ErrUnauthorized
	}
	switch user.Role {
	case domain.RoleOwner, domain.RoleAdmin, domain.RoleSuperAdmin:
		return nil
	}
	return domain.ErrForbidden
}

func (h *Handler) loadPipeline(r *http.Request, id string) (*domain.Pipeline, error) {
	p, err := h.pipelineService.GetPipeline(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if err := h.authorizeAccount(r, p.AccountID); err != nil {
		return nil, err
	}
	return p, nil
}

func (h *Handler) loadStage(r *http.Request, id string) (*domain.Stage, error) {
	stage, err := h.pipelineService.GetStage(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if _, err := h.loadPipeline(r, stage.PipelineID); err != nil {
		return nil, err
	}
	return stage, nil
}

func (h *Handler) loadLead(r *http.Request, id string) (*domain.Lead, error) {
	lead, err := h.leadService.GetLead(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if err := h.authorizeAccount(r, lead.AccountID); err != nil {
		return nil, err
	}
	return lead, nil
}

func (h *Handler) loadTemplate(r *http.Request, id string) (*domain.MessageTemplate, error) {
	tpl, err := h.templateService.GetTemplate(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if err := h.authorizeAccount(r, tpl.AccountID); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (h *Handler) loadUser(r *http.Request, id string) (*domain.User, error) {
	user, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if err := h.authorizeAccount(r, user.AccountID); err != nil {
		return nil, err
	}
	return user, nil
}
