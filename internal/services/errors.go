package services

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when an operation needs an active provider
// configuration and the user has none.
var ErrNotConfigured = errors.New("no active AI provider configuration")

// ErrCorrupted marks a stored credential that no longer decrypts under the
// current master secret. This is a data defect, not user input, and is never
// downgraded to "no credential".
var ErrCorrupted = errors.New("stored credential is corrupted")

// ValidationError reports a malformed input field before any store mutation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
