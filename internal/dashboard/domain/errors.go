package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport covers unreachable upstreams and non-2xx responses
	ErrTransport = errors.New("upstream transport failure")
	// ErrDecode is returned when an upstream payload cannot be decoded
	ErrDecode = errors.New("malformed upstream payload")
	// ErrValidation is returned for rejected user input
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when the upstream reports a missing resource
	ErrNotFound = errors.New("resource not found")
	// ErrSuperseded is returned when a newer request for the same view was issued
	ErrSuperseded = errors.New("superseded by a newer request")
)

// ValidationError describes a rejected field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is makes every ValidationError match ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError for field
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// StatusError is a non-2xx upstream response
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned status %d", e.Method, e.Path, e.StatusCode)
}

// Is maps 404 to ErrNotFound and every other status to ErrTransport
func (e *StatusError) Is(target error) bool {
	if e.StatusCode == 404 {
		return target == ErrNotFound
	}
	return target == ErrTransport
}
