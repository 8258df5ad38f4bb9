// Package errors provides application-level error types and utilities.
// It defines the error taxonomy shared by the billing engine: validation,
// not found, authorization, state, conflict, and internal errors.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation_error"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeAuthorization ErrorType = "authorization_error"
	ErrorTypeState         ErrorType = "state_error"
	ErrorTypeConflict      ErrorType = "conflict"
	ErrorTypeInternal      ErrorType = "internal_error"
)

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func newAppError(errType ErrorType, message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    errType,
		Message: message,
		Details: detail,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeValidation, message, details...)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNotFound, message, details...)
}

// NewAuthorizationError creates a new authorization error
func NewAuthorizationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeAuthorization, message, details...)
}

// NewStateError creates a new state error for operations that are invalid
// in the entity's current lifecycle status
func NewStateError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeState, message, details...)
}

// NewConflictError creates a new conflict error
func NewConflictError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeConflict, message, details...)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, message, details...)
}

// IsType checks whether err is an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// IsValidation checks whether err is a validation error
func IsValidation(err error) bool { return IsType(err, ErrorTypeValidation) }

// IsNotFound checks whether err is a not found error
func IsNotFound(err error) bool { return IsType(err, ErrorTypeNotFound) }

// IsAuthorization checks whether err is an authorization error
func IsAuthorization(err error) bool { return IsType(err, ErrorTypeAuthorization) }

// IsState checks whether err is a state error
func IsState(err error) bool { return IsType(err, ErrorTypeState) }

// IsConflict checks whether err is a conflict error
func IsConflict(err error) bool { return IsType(err, ErrorTypeConflict) }
