package application

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the acting principal lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrInvalidCredentials is returned when authentication fails.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
)

// InvalidInputError signals a validation failure. The message text is part of
// the external contract and is surfaced to clients verbatim.
type InvalidInputError struct {
	Message string
}

// Error implements the error interface.
func (e *InvalidInputError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInputf(format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError signals that a candidate booking or room collides with
// existing state. The message text is surfaced to clients verbatim.
type ConflictError struct {
	Message string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}
