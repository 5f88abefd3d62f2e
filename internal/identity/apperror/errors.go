// Package apperror carries the client-facing error taxonomy of the identity
// service. Every error leaving the service layer is an *AppError; handlers
// turn it into a status code and an envelope without looking inside.
//
// NEVER return raw database or infrastructure errors to the client. Wrap
// them with NewInternal or NewUnavailable so only the generic message leaks.
package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

const (
	TypeValidation      = "validation_error"
	TypeConflict        = "conflict"
	TypeUnauthenticated = "unauthenticated"
	TypeForbidden       = "forbidden"
	TypeNotFound        = "not_found"
	TypeUnavailable     = "unavailable"
	TypeInternal        = "internal_error"
)

// Violation is one failed rule on one input field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is the base error type for all domain errors.
type AppError struct {
	// Code is the HTTP status code.
	Code int `json:"-"`

	// Type is a machine-readable error classifier (e.g., "conflict").
	Type string `json:"type"`

	// Message is a human-readable description safe for the client.
	Message string `json:"message"`

	// Violations lists every failed validation rule, never just the first.
	Violations []Violation `json:"errors,omitempty"`

	// Internal holds the underlying error for logging. Never exposed to client.
	Internal error `json:"-"`

	// Details are extra top-level fields for the response envelope.
	Details map[string]any `json:"-"`
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error { return e.Internal }

// WithDetail returns a copy of e carrying an extra envelope field.
func (e *AppError) WithDetail(key string, value any) *AppError {
	out := *e
	out.Details = make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		out.Details[k] = v
	}
	out.Details[key] = value
	return &out
}

// Is matches on Type so errors.Is(err, apperror.ErrConflict) works for any
// conflict regardless of message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type && (t.Message == "" || t.Message == e.Message)
}

// Sentinels for errors.Is comparisons. Their messages are empty so they
// match any error of the same type.
var (
	ErrValidation      = &AppError{Type: TypeValidation}
	ErrConflict        = &AppError{Type: TypeConflict}
	ErrUnauthenticated = &AppError{Type: TypeUnauthenticated}
	ErrForbidden       = &AppError{Type: TypeForbidden}
	ErrNotFound        = &AppError{Type: TypeNotFound}
	ErrUnavailable     = &AppError{Type: TypeUnavailable}
	ErrInternal        = &AppError{Type: TypeInternal}
)

func NewValidation(message string, violations ...Violation) *AppError {
	return &AppError{
		Code:       http.StatusBadRequest,
		Type:       TypeValidation,
		Message:    message,
		Violations: violations,
	}
}

func NewConflict(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Type: TypeConflict, Message: message}
}

func NewUnauthenticated(message string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Type: TypeUnauthenticated, Message: message}
}

func NewForbidden(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Type: TypeForbidden, Message: message}
}

func NewNotFound(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Type: TypeNotFound, Message: message}
}

// NewUnavailable is for collaborator timeouts and outages. Callers may retry.
func NewUnavailable(err error) *AppError {
	return &AppError{
		Code:     http.StatusServiceUnavailable,
		Type:     TypeUnavailable,
		Message:  "The service is temporarily unavailable. Please try again.",
		Internal: err,
	}
}

// NewInternal creates a 500. The real error is stored in Internal for
// logging but the client only sees a generic message.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     TypeInternal,
		Message:  "An unexpected error occurred. Please try again.",
		Internal: err,
	}
}

// From classifies any error. AppErrors pass through unchanged, deadline and
// cancellation become Unavailable, everything else is Internal.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewUnavailable(err)
	}
	return NewInternal(err)
}

// SafeMessage returns the client-safe error message from an error.
func SafeMessage(err error) string {
	return From(err).Message
}

// SafeCode returns the HTTP status code for an error, 500 for non-AppErrors.
func SafeCode(err error) int {
	return From(err).Code
}
