// Package errors provides error code definitions shared across the service.
package errors

import "fmt"

// ErrorCode represents a unique error code surfaced to API clients.
type ErrorCode string

const (
	// General errors
	ErrInternal   ErrorCode = "INTERNAL_ERROR"
	ErrInvalid    ErrorCode = "INVALID_INPUT"
	ErrNotFound   ErrorCode = "NOT_FOUND"
	ErrPermission ErrorCode = "PERMISSION_DENIED"
	ErrValidation ErrorCode = "VALIDATION_ERROR"

	// Gateway errors
	ErrGateway       ErrorCode = "GATEWAY_ERROR"
	ErrGatewayQuery  ErrorCode = "GATEWAY_QUERY_FAILED"
	ErrGatewayWrite  ErrorCode = "GATEWAY_WRITE_FAILED"
	ErrUnknownTable  ErrorCode = "UNKNOWN_TABLE"
	ErrMigration     ErrorCode = "MIGRATION_FAILED"
	ErrRowNotFound   ErrorCode = "ROW_NOT_FOUND"
	ErrInvalidStatus ErrorCode = "INVALID_STATUS"

	// Auth errors
	ErrAuthToken   ErrorCode = "AUTH_TOKEN_INVALID"
	ErrAuthExpired ErrorCode = "AUTH_TOKEN_EXPIRED"
	ErrAuthRole    ErrorCode = "AUTH_ROLE_REQUIRED"

	// Mutation errors
	ErrMutationFailed ErrorCode = "MUTATION_FAILED"
	ErrMutationBusy   ErrorCode = "MUTATION_IN_PROGRESS"
)

// AppError represents an application error with code and message.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an error code.
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is checks if an error carries a specific code, unwrapping as needed.
func Is(err error, code ErrorCode) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Code == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// CodeOf returns the error code of err, or ErrInternal when err carries none.
func CodeOf(err error) ErrorCode {
	for err != nil {
		if appErr, ok := err.(*AppError); ok {
			return appErr.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return ErrInternal
}
