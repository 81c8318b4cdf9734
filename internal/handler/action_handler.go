package handler

import (
	"net/http"
)

// ListActions отдает библиотеку действий, общую для всех аккаунтов
func (h *Handler) ListActions(w http.ResponseWriter, r *http.Request) {
	actions, err := h.actionService.ListActions(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := make([]ActionResponse, 0, len(actions))
	for _, action := range actions {
		resp = append(resp, domainActionToHTTP(action))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetAction(w http.ResponseWriter, r *http.Request) {
	action, err := h.actionService.GetAction(r.Context(), r.PathValue("actionID"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domainActionToHTTP(action))
}
