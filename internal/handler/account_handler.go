package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/bagdasarian/leadpipe/internal/domain"
	"github.com/bagdasarian/leadpipe/internal/service"
)

// Signup создает аккаунт и его владельца и сразу выдает токен
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	ctx := r.Context()
	account, err := h.accountService.CreateAccount(ctx, req.Name)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	_, err = h.userService.CreateUser(ctx, service.CreateUserInput{
		AccountID: account.ID,
		Email:     req.Owner.Email,
		Name:      req.Owner.Name,
		Role:      domain.RoleOwner,
		Password:  req.Owner.Password,
	})
	if err != nil {
		if delErr := h.accountService.DeleteAccount(ctx, account.ID); delErr != nil {
			h.logger.Error("failed to remove account after signup error",
				zap.String("account_id", account.ID),
				zap.Error(delErr),
			)
		}
		h.handleError(w, r, err)
		return
	}

	session, err := h.userService.Authenticate(ctx, req.Owner.Email, req.Owner.Password)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, SignupResponse{
		Account: domainAccountToHTTP(account),
		Session: LoginResponse{
			Token:     session.Token,
			ExpiresAt: session.ExpiresAt,
			User:      domainUserToHTTP(session.User),
		},
	})
}

// ListAccounts - superadmin видит все аккаунты, остальные только свой
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var accounts []*domain.Account
	if user != nil && user.Role == domain.RoleSuperAdmin {
		var err error
		accounts, err = h.accountService.ListAccounts(r.Context())
		if err != nil {
			h.handleError(w, r, err)
			return
		}
	} else {
		account, err := h.accountService.GetAccount(r.Context(), user.AccountID)
		if err != nil {
			h.handleError(w, r, err)
			return
		}
		accounts = []*domain.Account{account}
	}

	resp := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		resp = append(resp, domainAccountToHTTP(account))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("accountID")
	if err := h.authorizeAccount(r, accountID); err != nil {
		h.handleError(w, r, err)
		return
	}

	account, err := h.accountService.GetAccount(r.Context(), accountID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domainAccountToHTTP(account))
}

func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("accountID")
	if err := h.authorizeAccount(r, accountID); err != nil {
		h.handleError(w, r, err)
		return
	}
	if err := requireManager(currentUser(r)); err != nil {
		h.handleError(w, r, err)
		return
	}

	var req AccountRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	account, err := h.accountService.RenameAccount(r.Context(), accountID, req.Name)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domainAccountToHTTP(account))
}

// DeleteAccount доступен только владельцу аккаунта и superadmin
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("accountID")
	if err := h.authorizeAccount(r, accountID); err != nil {
		h.handleError(w, r, err)
		return
	}
	if user := currentUser(r); user.Role != domain.RoleOwner && user.Role != domain.RoleSuperAdmin {
		h.handleError(w, r, domain.ErrForbidden)
		return
	}

	if err := h.accountService.DeleteAccount(r.Context(), accountID); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
