// Package validator adapts go-playground/validator for echo's Validator hook.
package validator

import (
	playground "github.com/go-playground/validator/v10"

	domainerrors "authsvc/internal/domain/errors"
)

// echoValidator wraps a single validator instance; it is safe for concurrent use.
type echoValidator struct {
	validate *playground.Validate
}

// New creates the validator used by the echo server.
func New() *echoValidator {
	return &echoValidator{
		validate: playground.New(playground.WithRequiredStructEnabled()),
	}
}

// Validate implements echo.Validator. Failures surface as the shared
// validation error so the error middleware renders a consistent 400.
func (v *echoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
