package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Handlers use the message verbatim as the client-facing error text.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates authorization failure
	ForbiddenError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }

// Is lets errors.Is() match the typed errors against their sentinels
func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool    { return target == ErrForbidden }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrUpstream     = errors.New("upstream service failed")
)

// NewNotFound builds the canonical "<Resource> not found" error
func NewNotFound(resource string) error {
	return &NotFoundError{Message: fmt.Sprintf("%s not found", resource)}
}

// NewValidation builds a validation error with the given message
func NewValidation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError represents a state conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (proposal, attestation)
	ResourceID   string // ID of the existing/conflicting resource
	Extra        map[string]any
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// UpstreamError wraps a failure of an external dependency (LLM, speech, chain).
// Its message is never shown to clients; handlers substitute a generic one.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// StatusCode implements the HTTPError interface
func (e *UpstreamError) StatusCode() int { return http.StatusInternalServerError }

// Is allows errors.Is() to match against ErrUpstream
func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }
