package handler

import (
	"net/http"
	"time"
)

func (h *Handler) GetSelectedAccount(w http.ResponseWriter, r *http.Request) {
	var selected SelectedAccount
	if !readCookie(r, selectedAccountCookie, &selected) || selected.AccountID == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, selected)
}

// SelectAccount запоминает выбранный аккаунт в cookie
func (h *Handler) SelectAccount(w http.ResponseWriter, r *http.Request) {
	var req SelectAccountRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	if err := h.authorizeAccount(r, req.AccountID); err != nil {
		h.handleError(w, r, err)
		return
	}

	account, err := h.accountService.GetAccount(r.Context(), req.AccountID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	selected := SelectedAccount{AccountID: account.ID, Name: account.Name}
	if err := h.writeCookie(w, selectedAccountCookie, selected); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, selected)
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	history := []NavigationEntry{}
	readCookie(r, recentNavigationCookie, &history)
	if history == nil {
		history = []NavigationEntry{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *Handler) PushHistory(w http.ResponseWriter, r *http.Request) {
	var req NavigationRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	var history []NavigationEntry
	readCookie(r, recentNavigationCookie, &history)

	history = pushHistory(history, NavigationEntry{
		Path:      req.Path,
		Title:     req.Title,
		VisitedAt: time.Now().UTC(),
	})
	history, err := fitHistory(history)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if err := h.writeCookie(w, recentNavigationCookie, history); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
