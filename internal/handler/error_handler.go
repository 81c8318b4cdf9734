package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/bagdasarian/leadpipe/internal/domain"
)

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		writeJSON(w, getStatusCode(domainErr.Code), ErrorResponse{
			Error: ErrorDetail{
				Code:    domainErr.Code,
				Message: domainErr.Message,
			},
		})
		return
	}

	h.logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: ErrorDetail{
			Code:    "INTERNAL_ERROR",
			Message: "internal server error",
		},
	})
}

func getStatusCode(errorCode string) int {
	switch errorCode {
	case "BAD_REQUEST", "VALIDATION_ERROR":
		return http.StatusBadRequest
	case "UNAUTHORIZED", "INVALID_CREDENTIALS":
		return http.StatusUnauthorized
	case "FORBIDDEN", "USER_INACTIVE":
		return http.StatusForbidden
	case "NOT_FOUND":
		return http.StatusNotFound
	case "ACCOUNT_EXISTS", "USER_EXISTS", "PIPELINE_EXISTS":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
