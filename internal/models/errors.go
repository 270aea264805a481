package models

import (
	"errors"
	"fmt"
)

// Service error taxonomy. Handlers map these onto HTTP codes; Conflict is kept
// distinct from NotFound so callers can decide between retrying and alerting.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrQuotaExceeded     = errors.New("quota exceeded")
	ErrTransactionFailed = errors.New("transaction failed")
	ErrUnauthorized      = errors.New("unauthorized")
)

// ValidationError carries the field path and offending value so the caller can
// correct input without re-deriving server-side rules.
type ValidationError struct {
	Field   string `json:"field"`
	Value   any    `json:"value,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}
