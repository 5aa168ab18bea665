package reminders

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("reminder not found")
	ErrAssetNotFound = errors.New("linked asset not found")
)

// ValidationError names the field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalidField(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
