package receipts

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrAssetNotFound = errors.New("asset not found")
	ErrAlreadyLinked = errors.New("document already linked to asset")
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
