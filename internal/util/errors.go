// internal/util/errors.go
package util

import (
	"errors"
	"fmt"
)

// Ledger and registry error kinds. Handlers map them onto HTTP status codes;
// anything else is treated as a storage failure.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAmbiguousReference  = errors.New("ambiguous currency reference")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidState        = errors.New("invalid state")
	ErrInvalidCurrencyRate = errors.New("invalid currency rate")
	ErrAlreadyClaimed      = errors.New("hawala already claimed")
	ErrInvalidInput        = errors.New("invalid input provided")
	ErrDuplicateEntry      = errors.New("duplicate entry")
	ErrUnauthorized        = errors.New("invalid credentials")
)

// FieldError attaches the offending field and a human readable message to one
// of the error kinds above.
type FieldError struct {
	Kind    error
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// NewFieldError builds a FieldError of the given kind.
func NewFieldError(kind error, field, message string) error {
	return &FieldError{Kind: kind, Field: field, Message: message}
}

// IsError reports whether any error in err's chain matches target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}

// Message returns the FieldError message when err carries one, else err.Error().
func Message(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) && fe.Message != "" {
		return fe.Message
	}
	return err.Error()
}
