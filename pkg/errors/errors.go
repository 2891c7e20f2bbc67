// Package errors defines the application error taxonomy shared by the
// service and HTTP layers. Handlers return *AppError values and the response
// middleware maps the error type to an HTTP status.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType identifies the category of an application error.
type ErrorType string

const (
	// ValidationError indicates invalid client input.
	ValidationError ErrorType = "validation_error"
	// NotFoundError indicates a missing (or not visible) resource.
	NotFoundError ErrorType = "not_found"
	// UnauthorizedError indicates missing or invalid credentials.
	UnauthorizedError ErrorType = "unauthorized"
	// ForbiddenError indicates the caller lacks permission.
	ForbiddenError ErrorType = "forbidden"
	// ConfigurationError indicates missing or unusable user configuration,
	// including upstream AI service failures surfaced to the client.
	ConfigurationError ErrorType = "configuration_error"
	// InternalError indicates an unexpected server-side failure.
	InternalError ErrorType = "internal_error"
)

// AppError is the error value carried from services to the HTTP layer.
type AppError struct {
	Type    ErrorType
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation error with optional details.
func NewValidationError(message string, details map[string]interface{}) *AppError {
	return &AppError{Type: ValidationError, Message: message, Details: details}
}

// NewNotFoundError creates a not-found error with optional details.
func NewNotFoundError(message string, details map[string]interface{}) *AppError {
	return &AppError{Type: NotFoundError, Message: message, Details: details}
}

// NewUnauthorizedError creates an authentication error.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Type: UnauthorizedError, Message: message}
}

// NewForbiddenError creates a permission error.
func NewForbiddenError(message string) *AppError {
	return &AppError{Type: ForbiddenError, Message: message}
}

// NewConfigurationError creates a configuration error with optional details.
func NewConfigurationError(message string, details map[string]interface{}) *AppError {
	return &AppError{Type: ConfigurationError, Message: message, Details: details}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(message string, err error, details map[string]interface{}) *AppError {
	return &AppError{Type: InternalError, Message: message, Details: details, Err: err}
}

// IsType reports whether err is an *AppError of the given type, unwrapping
// as needed.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// AsAppError extracts an *AppError from err, if present.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
