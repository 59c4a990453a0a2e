package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator adapts go-playground/validator to echo's Validator
// interface.  Request structs declare their constraints with
// `validate` tags and handlers call c.Validate after binding, so
// malformed input is rejected at the boundary before it reaches the
// core.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator returns a RequestValidator with a fresh
// validator instance.
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate implements echo.Validator.  Constraint violations are
// wrapped in an echo.HTTPError with status 400 so echo's error
// handling reports them without further mapping.
func (v *RequestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
