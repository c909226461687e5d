package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound marks lookups whose referenced id no longer exists.
var ErrNotFound = errors.New("catalog: not found")

// ValidationError reports bad or missing required input. It is recoverable:
// flows re-prompt instead of aborting.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("catalog: invalid %s: %s", e.Field, e.Reason)
}

// Code identifies the error class in handler summary logs.
func (e *ValidationError) Code() string { return "validation" }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
