package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrPlanRequired    = errors.New("premium plan required")
	ErrQuotaExhausted  = errors.New("free usage exhausted")
)

// ValidationError reports malformed capability input detected before any
// upstream call is attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Invalid builds a ValidationError for the named field.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// UpstreamError wraps any failure from a text, image, storage or parsing call.
// Message is the user-facing text for the capability, Err the raw detail.
type UpstreamError struct {
	Capability Capability
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Capability, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Detail returns the raw upstream error text.
func (e *UpstreamError) Detail() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// PersistenceError reports a creation-log write that failed after a
// successful generation.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return "persist creation: " + e.Err.Error() }

func (e *PersistenceError) Unwrap() error { return e.Err }
