package handler

import (
	"net/http"
)

func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("accountID")
	if err := h.authorizeAccount(r, accountID); err != nil {
		h.handleError(w, r, err)
		return
	}

	templates, err := h.templateService.ListTemplates(r.Context(), accountID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := make([]TemplateResponse, 0, len(templates))
	for _, tpl := range templates {
		resp = append(resp, domainTemplateToHTTP(tpl))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("accountID")
	if err := h.authorizeAccount(r, accountID); err != nil {
		h.handleError(w, r, err)
		return
	}

	var req TemplateRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	tpl := httpTemplateToDomain(req)
	tpl.AccountID = accountID

	tpl, err := h.templateService.CreateTemplate(r.Context(), tpl)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, domainTemplateToHTTP(tpl))
}

func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.loadTemplate(r, r.PathValue("templateID"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domainTemplateToHTTP(tpl))
}

func (h *Handler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	existing, err := h.loadTemplate(r, r.PathValue("templateID"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req TemplateRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	tpl := httpTemplateToDomain(req)
	tpl.ID = existing.ID

	tpl, err = h.templateService.UpdateTemplate(r.Context(), tpl)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domainTemplateToHTTP(tpl))
}

func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.loadTemplate(r, r.PathValue("templateID"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if err := h.templateService.DeleteTemplate(r.Context(), tpl.ID); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
