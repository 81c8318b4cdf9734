package repository

import "errors"

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrPipelineNotFound = errors.New("pipeline not found")
	ErrStageNotFound    = errors.New("stage not found")
	ErrActionNotFound   = errors.New("automation action not found")
	ErrLeadNotFound     = errors.New("lead not found")
	ErrTemplateNotFound = errors.New("message template not found")

	// ErrDuplicate - нарушение уникального ограничения
	ErrDuplicate = errors.New("duplicate key")
	ErrInvalidID = errors.New("invalid ID")
)
