package service

import (
	"errors"

	"github.com/bagdasarian/leadpipe/internal/domain"
	"github.com/bagdasarian/leadpipe/internal/pipeline"
	"github.com/bagdasarian/leadpipe/internal/repository"
)

// mapRepoError переводит ошибки хранилища и редактора в доменные
func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrAccountNotFound):
		return domain.NewNotFoundError("account")
	case errors.Is(err, repository.ErrUserNotFound):
		return domain.NewNotFoundError("user")
	case errors.Is(err, repository.ErrPipelineNotFound):
		return domain.NewNotFoundError("pipeline")
	case errors.Is(err, repository.ErrStageNotFound), errors.Is(err, pipeline.ErrStageNotFound):
		return domain.NewNotFoundError("stage")
	case errors.Is(err, repository.ErrActionNotFound):
		return domain.NewNotFoundError("automation action")
	case errors.Is(err, repository.ErrLeadNotFound):
		return domain.NewNotFoundError("lead")
	case errors.Is(err, repository.ErrTemplateNotFound):
		return domain.NewNotFoundError("message template")
	case errors.Is(err, repository.ErrInvalidID):
		return domain.NewBadRequestError("invalid id")
	case errors.Is(err, pipeline.ErrIndexOutOfRange),
		errors.Is(err, pipeline.ErrItemNotFound),
		errors.Is(err, pipeline.ErrUnknownDragSource),
		errors.Is(err, pipeline.ErrEmptyActionID):
		return domain.NewBadRequestError(err.Error())
	}
	return err
}
