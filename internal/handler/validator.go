package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bagdasarian/leadpipe/internal/domain"
)

type Validator struct {
	validate *validator.Validate
}

// NewValidator называет поля в ошибках по json-тегам
func NewValidator() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: validate}
}

func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return domain.NewValidationError(err.Error())
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fieldErr := range fieldErrors {
		messages = append(messages, fieldMessage(fieldErr))
	}
	return domain.NewValidationError(strings.Join(messages, "; "))
}

func fieldMessage(fieldErr validator.FieldError) string {
	field := fieldErr.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	if fieldErr.Param() != "" {
		return fmt.Sprintf("%s: failed on %s=%s", field, fieldErr.Tag(), fieldErr.Param())
	}
	return fmt.Sprintf("%s: failed on %s", field, fieldErr.Tag())
}
