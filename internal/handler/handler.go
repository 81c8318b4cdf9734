package handler

import (
	"net/http"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/bagdasarian/leadpipe/internal/domain"
	"github.com/bagdasarian/leadpipe/internal/service"
)

type Handler struct {
	accountService  service.AccountService
	userService     service.UserService
	pipelineService service.PipelineService
	leadService     service.LeadService
	templateService service.TemplateService
	actionService   service.ActionLibraryService
	validator       *Validator
	logger          *zap.Logger
	secureCookies   bool
}

func NewHandler(
	accountService service.AccountService,
	userService service.UserService,
	pipelineService service.PipelineService,
	leadService service.LeadService,
	templateService service.TemplateService,
	actionService service.ActionLibraryService,
	logger *zap.Logger,
	secureCookies bool,
) *Handler {
	return &Handler{
		accountService:  accountService,
		userService:     userService,
		pipelineService: pipelineService,
		leadService:     leadService,
		templateService: templateService,
		actionService:   actionService,
		validator:       NewValidator(),
		logger:          logger,
		secureCookies:   secureCookies,
	}
}

// decodeJSON читает тело запроса и проверяет теги validate
func (h *Handler) decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.NewBadRequestError("invalid request body")
	}
	return h.validator.Validate(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
