package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Domain errors
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"

	// Session errors
	ErrCodeInterrupted ErrorCode = "INTERRUPTED"

	// Remote source errors
	ErrCodeConnectionFailed  ErrorCode = "CONNECTION_FAILED"
	ErrCodeRemoteUnavailable ErrorCode = "REMOTE_UNAVAILABLE"
	ErrCodeDecodeFailed      ErrorCode = "DECODE_FAILED"

	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// AppError represents an application error with code and context
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
	// Status is the upstream HTTP status, when the error came from one.
	Status int
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WrapError wraps an existing error with an error code and message
func WrapError(code ErrorCode, message string, err error) *AppError {
	return NewAppError(code, message, err)
}

// NewRemoteError builds a REMOTE_UNAVAILABLE error for a non-2xx response.
func NewRemoteError(status int, message string) *AppError {
	return &AppError{
		Code:    ErrCodeRemoteUnavailable,
		Message: message,
		Status:  status,
	}
}

// CodeOf returns the code of the first AppError in the chain, or "".
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr != nil {
		return appErr.Code
	}
	return ""
}

// IsInterrupted checks if the error is a user interruption
func IsInterrupted(err error) bool {
	return CodeOf(err) == ErrCodeInterrupted
}

// IsRemoteFailure checks if the error came from the remote data source
func IsRemoteFailure(err error) bool {
	switch CodeOf(err) {
	case ErrCodeConnectionFailed, ErrCodeRemoteUnavailable, ErrCodeDecodeFailed:
		return true
	}
	return false
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	switch CodeOf(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidConfig:
		return true
	}
	return false
}
