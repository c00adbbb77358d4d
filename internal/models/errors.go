package models

import (
	"errors"
	"fmt"
)

// ValidationError reports a required field that is missing or blank.
// It is caught at the call site and surfaced to the user without
// touching durable state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
