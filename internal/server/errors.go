package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/form-autofill/internal/profile"
	"github.com/jonathan/form-autofill/internal/schemas"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnauthorized indicates the request needs an authenticated user
type ErrUnauthorized struct{}

func (e *ErrUnauthorized) Error() string {
	return "authentication required"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		reqErr    *ErrValidation
		authErr   *ErrUnauthorized
		schemaErr *schemas.ValidationError
		loadErr   *schemas.SchemaLoadError
		fieldErrs validator.ValidationErrors
	)
	switch {
	case errors.As(err, &reqErr), errors.As(err, &schemaErr), errors.As(err, &loadErr), errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.Is(err, profile.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
