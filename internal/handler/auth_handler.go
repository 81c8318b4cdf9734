package handler

import (
	"net/http"

	"github.com/bagdasarian/leadpipe/internal/domain"
)

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	res, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      domainUserToHTTP(res.User),
	})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		h.handleError(w, r, domain.ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, domainUserToHTTP(user))
}
