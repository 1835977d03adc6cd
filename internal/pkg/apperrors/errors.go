package apperrors

import (
	"errors"
	"sort"
	"strings"
)

// Resource errors
var (
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
)

// Authentication errors
var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Request errors
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrRateLimited      = errors.New("too many requests")
)

// Connection errors
var (
	ErrAlreadyConnected     = errors.New("already connected")
	ErrRequestAlreadyExists = errors.New("connection request already exists")
)

// CustomError wraps a sentinel with the message shown to the client.
type CustomError struct {
	Err     error
	Message string
}

func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

func NewResourceNotFoundError(message string) error {
	return NewCustomError(ErrResourceNotFound, message)
}

func NewInvalidOperationError(message string) error {
	return NewCustomError(ErrInvalidOperation, message)
}

func NewAlreadyExistsError(message string) error {
	return NewCustomError(ErrResourceAlreadyExists, message)
}

// ValidationError reports every violated field of a request at once.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

// NewValidationError returns an empty ValidationError carrying the message
// shown to the client.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message, Fields: make(map[string]string)}
}

// Add records another violated field.
func (e *ValidationError) Add(field, reason string) *ValidationError {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = reason
	return e
}

// HasErrors reports whether any field has been recorded.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, n+": "+e.Fields[n])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
