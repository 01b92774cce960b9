// Package apperr defines the error taxonomy shared by services and handlers.
// Handlers map these sentinels onto HTTP statuses; anything else is a server
// error reported with a generic message.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalid marks validation failures on caller input.
	ErrInvalid = errors.New("invalid input")
	// ErrNotFound marks a referenced entity that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks uniqueness violations.
	ErrConflict = errors.New("conflict")
)

// Invalidf wraps ErrInvalid with a caller-facing message.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// NotFoundf wraps ErrNotFound with a caller-facing message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Conflictf wraps ErrConflict with a caller-facing message.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}
