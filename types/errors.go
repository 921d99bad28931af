package types

import (
	"fmt"
)

// Standard error types
type ErrorType string

const (
	ErrTypeConfig       ErrorType = "CONFIG_ERROR"
	ErrTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrTypeInvalidValue ErrorType = "INVALID_VALUE"
	ErrTypeNetwork      ErrorType = "NETWORK_ERROR"
	ErrTypeTimeout      ErrorType = "TIMEOUT"
	ErrTypeNotFound     ErrorType = "NOT_FOUND"
	ErrTypeBadRequest   ErrorType = "BAD_REQUEST"
	ErrTypeInternal     ErrorType = "INTERNAL_ERROR"
)

// StandardError provides consistent error formatting
type StandardError struct {
	Type    ErrorType
	Message string
	Details map[string]any
	Cause   error
}

func (e *StandardError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.Cause
}

// HTTPError reports a non-success HTTP status from a remote endpoint.
type HTTPError struct {
	Code int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Code)
}

// Error constructors for common cases

func NewConfigError(msg string, cause error) error {
	return &StandardError{
		Type:    ErrTypeConfig,
		Message: msg,
		Cause:   cause,
	}
}

func NewValidationError(field, msg string) error {
	return &StandardError{
		Type:    ErrTypeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, msg),
		Details: map[string]any{"field": field},
	}
}

func NewInvalidValueError(field, value, msg string) error {
	return &StandardError{
		Type:    ErrTypeInvalidValue,
		Message: fmt.Sprintf("invalid value for %s: %s (%s)", field, value, msg),
		Details: map[string]any{"field": field, "value": value},
	}
}

func NewNetworkError(msg string, cause error) error {
	return &StandardError{
		Type:    ErrTypeNetwork,
		Message: msg,
		Cause:   cause,
	}
}

func NewTimeoutError(msg string, cause error) error {
	return &StandardError{
		Type:    ErrTypeTimeout,
		Message: msg,
		Cause:   cause,
	}
}

func NewInternalError(msg string, cause error) error {
	return &StandardError{
		Type:    ErrTypeInternal,
		Message: msg,
		Cause:   cause,
	}
}

func NewNotFoundError(msg string) error {
	return &StandardError{
		Type:    ErrTypeNotFound,
		Message: msg,
	}
}

// NewPayloadError reports a malformed or unexpected remote payload. The
// endpoint name is included so probe errors identify their source call.
func NewPayloadError(endpoint, msg string) error {
	return &StandardError{
		Type:    ErrTypeValidation,
		Message: fmt.Sprintf("%s: %s", endpoint, msg),
		Details: map[string]any{"endpoint": endpoint},
	}
}

// NewRemoteAPIError wraps an error message reported by the remote API itself
// inside an otherwise well-formed payload.
func NewRemoteAPIError(endpoint, msg string) error {
	return &StandardError{
		Type:    ErrTypeInternal,
		Message: fmt.Sprintf("%s reported error: %s", endpoint, msg),
		Details: map[string]any{"endpoint": endpoint},
	}
}
