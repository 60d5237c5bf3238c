// Package validate plugs go-playground/validator into echo so request
// DTOs are checked declaratively through `validate` struct tags.
package validate

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/adherd/adherd/internal/platform/apperr"
)

type EchoValidator struct {
	validate *validator.Validate
}

func New() *EchoValidator {
	return &EchoValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator. Failures come back as BadRequest
// errors naming the offending fields.
func (ev *EchoValidator) Validate(i interface{}) error {
	err := ev.validate.Struct(i)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.BadRequest("invalid request body")
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return apperr.BadRequest("invalid request body: %s", strings.Join(fields, ", "))
}
