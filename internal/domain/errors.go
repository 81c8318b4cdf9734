package domain

import "fmt"

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Это позволяет использовать errors.Is()
func (e *DomainError) Is(target error) bool {
	if t, ok := target.(*DomainError); ok {
		return e.Code == t.Code
	}
	return false
}

var (
	// ErrAccountExists - аккаунт с таким именем уже существует
	ErrAccountExists = &DomainError{
		Code:    "ACCOUNT_EXISTS",
		Message: "account name already exists",
	}

	// ErrUserExists - пользователь с таким email уже существует
	ErrUserExists = &DomainError{
		Code:    "USER_EXISTS",
		Message: "user email already exists",
	}

	// ErrPipelineExists - в аккаунте уже есть воронка с таким именем
	ErrPipelineExists = &DomainError{
		Code:    "PIPELINE_EXISTS",
		Message: "pipeline name already exists in account",
	}

	// ErrInvalidCredentials - неверный email или пароль
	ErrInvalidCredentials = &DomainError{
		Code:    "INVALID_CREDENTIALS",
		Message: "invalid email or password",
	}

	// ErrUserInactive - пользователь деактивирован
	ErrUserInactive = &DomainError{
		Code:    "USER_INACTIVE",
		Message: "user is not active",
	}

	ErrUnauthorized = &DomainError{
		Code:    "UNAUTHORIZED",
		Message: "authentication required",
	}

	// ErrForbidden - нет доступа к чужому аккаунту
	ErrForbidden = &DomainError{
		Code:    "FORBIDDEN",
		Message: "access to account denied",
	}

	// ErrNotFound - ресурс не найден
	ErrNotFound = &DomainError{
		Code:    "NOT_FOUND",
		Message: "resource not found",
	}

	ErrBadRequest = &DomainError{
		Code:    "BAD_REQUEST",
		Message: "bad request",
	}

	ErrValidation = &DomainError{
		Code:    "VALIDATION_ERROR",
		Message: "validation failed",
	}
)

// NewNotFoundError создает ошибку NOT_FOUND с дополнительным контекстом
func NewNotFoundError(resource string) *DomainError {
	return &DomainError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func NewBadRequestError(message string) *DomainError {
	return &DomainError{
		Code:    "BAD_REQUEST",
		Message: message,
	}
}

func NewValidationError(message string) *DomainError {
	return &DomainError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

func NewUnauthorizedError(message string) *DomainError {
	return &DomainError{
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}
