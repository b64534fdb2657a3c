package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks a request rejected before computation starts
	ErrInvalidInput = errors.New("invalid input")
	// ErrDataUnavailable marks a failed fetch from the ledger or a rate source
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrUnauthorized marks a missing or invalid bearer token
	ErrUnauthorized = errors.New("unauthorized")
)

// InputErrorf builds an error wrapping ErrInvalidInput
func InputErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Unavailable wraps err as ErrDataUnavailable, keeping the cause in the message
func Unavailable(op string, err error) error {
	return fmt.Errorf("%w: failed to %s: %w", ErrDataUnavailable, op, err)
}
