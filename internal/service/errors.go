// Package service provides business logic for the recipe service.
package service

import (
	"errors"
	"fmt"
)

// ErrInternal wraps unexpected infrastructure failures so handlers can
// map them to a 500 without leaking details. Client-facing validation
// failures are reported as ValidationError, never through this.
var ErrInternal = errors.New("internal server error")

// ValidationError reports a per-field validation failure. Handlers render
// these as a field-keyed error body.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for a field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
