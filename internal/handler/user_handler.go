package handler

import (
	"net/http"

	"github.com/bagdasarian/leadpipe/internal/domain"
	"github.com/bagdasarian/leadpipe/internal/service"
)

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("accountID")
	if err := h.authorizeAccount(r, accountID); err != nil {
		h.handleError(w, r, err)
		return
	}

	users, err := h.userService.ListUsers(r.Context(), accountID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, domainUserToHTTP(user))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("accountID")
	if err := h.authorizeAccount(r, accountID); err != nil {
		h.handleError(w, r, err)
		return
	}
	actor := currentUser(r)
	if err := requireManager(actor); err != nil {
		h.handleError(w, r, err)
		return
	}

	var req CreateUserRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	if err := checkRoleGrant(actor, domain.Role(req.Role)); err != nil {
		h.handleError(w, r, err)
		return
	}

	user, err := h.userService.CreateUser(r.Context(), service.CreateUserInput{
		AccountID: accountID,
		Email:     req.Email,
		Name:      req.Name,
		Role:      domain.Role(req.Role),
		Password:  req.Password,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, domainUserToHTTP(user))
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.loadUser(r, r.PathValue("userID"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domainUserToHTTP(user))
}

// UpdateUser - пользователь может менять свой профиль, кроме роли;
// остальных меняют owner, admin и superadmin
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	target, err := h.loadUser(r, r.PathValue("userID"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req UpdateUserRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	actor := currentUser(r)
	if actor.ID != target.ID || req.Role != nil {
		if err := requireManager(actor); err != nil {
			h.handleError(w, r, err)
			return
		}
	}

	input := service.UpdateUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		if err := checkRoleGrant(actor, role); err != nil {
			h.handleError(w, r, err)
			return
		}
		input.Role = &role
	}

	user, err := h.userService.UpdateUser(r.Context(), target.ID, input)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domainUserToHTTP(user))
}

func (h *Handler) SetIsActive(w http.ResponseWriter, r *http.Request) {
	target, err := h.loadUser(r, r.PathValue("userID"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if err := requireManager(currentUser(r)); err != nil {
		h.handleError(w, r, err)
		return
	}

	var req SetIsActiveRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	user, err := h.userService.SetIsActive(r.Context(), target.ID, *req.IsActive)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domainUserToHTTP(user))
}

// checkRoleGrant - роль superadmin выдает только superadmin
func checkRoleGrant(actor *domain.User, role domain.Role) error {
	if role == domain.RoleSuperAdmin && actor.Role != domain.RoleSuperAdmin {
		return domain.ErrForbidden
	}
	return nil
}
