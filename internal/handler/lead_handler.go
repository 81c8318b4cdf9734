package handler

import (
	"errors"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/form/v4"
	"github.com/shopspring/decimal"

	"github.com/bagdasarian/leadpipe/internal/domain"
)

const dateLayout = "2006-01-02"

func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("accountID")
	if err := h.authorizeAccount(r, accountID); err != nil {
		h.handleError(w, r, err)
		return
	}

	filter, err := parseLeadFilter(r.URL.Query())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	leads, err := h.leadService.ListLeads(r.Context(), accountID, filter)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := make([]LeadResponse, 0, len(leads))
	for _, lead := range leads {
		resp = append(resp, domainLeadToHTTP(lead))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("accountID")
	if err := h.authorizeAccount(r, accountID); err != nil {
		h.handleError(w, r, err)
		return
	}

	var req LeadRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	lead := httpLeadToDomain(req)
	lead.AccountID = accountID

	lead, err := h.leadService.CreateLead(r.Context(), lead)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, domainLeadToHTTP(lead))
}

func (h *Handler) GetLead(w http.ResponseWriter, r *http.Request) {
	lead, err := h.loadLead(r, r.PathValue("leadID"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domainLeadToHTTP(lead))
}

func (h *Handler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	existing, err := h.loadLead(r, r.PathValue("leadID"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req LeadRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	lead := httpLeadToDomain(req)
	lead.ID = existing.ID

	lead, err = h.leadService.UpdateLead(r.Context(), lead)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domainLeadToHTTP(lead))
}

func (h *Handler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	lead, err := h.loadLead(r, r.PathValue("leadID"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if err := h.leadService.DeleteLead(r.Context(), lead.ID); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveLead переносит лид на этап; пустой stage_id снимает его с воронки
func (h *Handler) MoveLead(w http.ResponseWriter, r *http.Request) {
	lead, err := h.loadLead(r, r.PathValue("leadID"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req MoveLeadRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	if req.StageID != "" {
		if _, err := h.loadStage(r, req.StageID); err != nil {
			h.handleError(w, r, err)
			return
		}
	}

	lead, err = h.leadService.MoveToStage(r.Context(), lead.ID, req.StageID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domainLeadToHTTP(lead))
}

// LeadQuery - параметры строки запроса GET /api/accounts/{accountID}/leads
type LeadQuery struct {
	Q           string           `form:"q"`
	Fuzzy       bool             `form:"fuzzy"`
	PipelineID  string           `form:"pipeline_id"`
	StageID     string           `form:"stage_id"`
	Source      string           `form:"source"`
	CreatedFrom string           `form:"created_from"`
	CreatedTo   string           `form:"created_to"`
	MinValue    *decimal.Decimal `form:"min_value"`
	MaxValue    *decimal.Decimal `form:"max_value"`
}

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *form.Decoder {
	d := form.NewDecoder()
	d.RegisterCustomTypeFunc(func(vals []string) (interface{}, error) {
		return decimal.NewFromString(vals[0])
	}, decimal.Decimal{})
	return d
}

func parseLeadFilter(q url.Values) (domain.LeadFilter, error) {
	var query LeadQuery
	if err := queryDecoder.Decode(&query, q); err != nil {
		return domain.LeadFilter{}, queryDecodeError(err)
	}

	filter := domain.LeadFilter{
		Query:      query.Q,
		Fuzzy:      query.Fuzzy,
		PipelineID: query.PipelineID,
		StageID:    query.StageID,
		Source:     query.Source,
		MinValue:   query.MinValue,
		MaxValue:   query.MaxValue,
	}

	var err error
	if filter.CreatedFrom, err = parseTimeParam("created_from", query.CreatedFrom, false); err != nil {
		return filter, err
	}
	if filter.CreatedTo, err = parseTimeParam("created_to", query.CreatedTo, true); err != nil {
		return filter, err
	}
	return filter, nil
}

// queryDecodeError перечисляет параметры, которые не удалось разобрать
func queryDecodeError(err error) error {
	var decodeErrs form.DecodeErrors
	if !errors.As(err, &decodeErrs) {
		return domain.NewBadRequestError("invalid query parameters")
	}
	names := make([]string, 0, len(decodeErrs))
	for name := range decodeErrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return domain.NewBadRequestError("invalid query parameters: " + strings.Join(names, ", "))
}

// parseTimeParam принимает RFC3339 или дату 2006-01-02.
// Для верхней границы дата без времени означает конец этого дня.
func parseTimeParam(name, v string, endOfDay bool) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, domain.NewBadRequestError(name + " must be a date or RFC3339 timestamp")
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}
