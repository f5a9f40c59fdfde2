package shared

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound  = NewDomainError("NOT_FOUND", "Resource not found")
	ErrMissingID = NewDomainError("VALIDATION_ERROR", "Missing record identifier")
)

// NewValidationError creates a validation error. Validation errors are raised
// before any storage call and are always recoverable by correcting input.
func NewValidationError(message string) *DomainError {
	return &DomainError{Code: "VALIDATION_ERROR", Message: message}
}

// NewValidationErrorf creates a validation error with a formatted message.
func NewValidationErrorf(format string, args ...any) *DomainError {
	return NewValidationError(fmt.Sprintf(format, args...))
}

// NewStorageError wraps a failure reported by the backing store. The store's
// original message is preserved verbatim; this layer adds no retry or
// circuit-breaking.
func NewStorageError(err error) *DomainError {
	return &DomainError{Code: "STORAGE_ERROR", Message: err.Error()}
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == "VALIDATION_ERROR"
}

// IsStorage reports whether err is a storage error.
func IsStorage(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == "STORAGE_ERROR"
}
