package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Caller errors
	ErrorTypeValidation             ErrorType = "VALIDATION"
	ErrorTypeInvalidKey             ErrorType = "INVALID_KEY"
	ErrorTypeInvalidPaginationToken ErrorType = "INVALID_PAGINATION_TOKEN"
	ErrorTypeNotFound               ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized           ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden              ErrorType = "FORBIDDEN"

	// Concurrency and write errors
	ErrorTypeConflict               ErrorType = "CONFLICT"
	ErrorTypeConcurrentModification ErrorType = "CONCURRENT_MODIFICATION"
	ErrorTypeTransactionSize        ErrorType = "TRANSACTION_SIZE_EXCEEDED"

	// Storage errors
	ErrorTypeUnknownItemShape ErrorType = "UNKNOWN_ITEM_SHAPE"
	ErrorTypeRepository       ErrorType = "REPOSITORY"

	// Application errors
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// Constructor functions for common error types

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInvalidKeyError creates an error for a malformed identifier supplied to
// key construction. Always a caller bug, never retried.
func NewInvalidKeyError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidKey,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInvalidPaginationTokenError creates an error for a continuation token
// that failed to decode. Pagination must be restarted explicitly by the
// caller, never silently from the beginning.
func NewInvalidPaginationTokenError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidPaginationToken,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) *AppError {
	if message == "" {
		message = "forbidden"
	}
	return &AppError{
		Type:       ErrorTypeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewConcurrentModificationError creates an error for an optimistic-retry
// loop that exhausted its bounded attempts. The caller may retry the whole
// logical operation.
func NewConcurrentModificationError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeConcurrentModification,
		Message:    fmt.Sprintf("concurrent modification of %s, retries exhausted", resource),
		HTTPStatus: http.StatusConflict,
	}
}

// NewTransactionSizeExceededError creates an error for a composite write that
// exceeded the store's per-transaction item limit. Fatal, never auto-chunked.
func NewTransactionSizeExceededError(size, limit int) *AppError {
	return &AppError{
		Type:       ErrorTypeTransactionSize,
		Message:    fmt.Sprintf("transaction of %d items exceeds limit of %d", size, limit),
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewUnknownItemShapeError creates an error for a stored item that cannot be
// classified by tag or sort-key pattern. Fatal to the read that produced it.
func NewUnknownItemShapeError(sortKey string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnknownItemShape,
		Message:    fmt.Sprintf("cannot classify stored item with sort key %q", sortKey),
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewRepositoryError wraps a non-transient underlying-store failure
func NewRepositoryError(operation string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeRepository,
		Message:    fmt.Sprintf("store operation '%s' failed", operation),
		Cause:      err,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// Helper functions

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsInvalidKey checks if an error is an invalid key error
func IsInvalidKey(err error) bool {
	return IsType(err, ErrorTypeInvalidKey)
}

// IsInvalidPaginationToken checks if an error is a pagination token error
func IsInvalidPaginationToken(err error) bool {
	return IsType(err, ErrorTypeInvalidPaginationToken)
}

// IsConflict checks if an error is a conflict error
func IsConflict(err error) bool {
	return IsType(err, ErrorTypeConflict)
}

// IsConcurrentModification checks if an error is a concurrent modification error
func IsConcurrentModification(err error) bool {
	return IsType(err, ErrorTypeConcurrentModification)
}

// IsTransactionSizeExceeded checks if an error is a transaction size error
func IsTransactionSizeExceeded(err error) bool {
	return IsType(err, ErrorTypeTransactionSize)
}

// IsUnknownItemShape checks if an error is an unknown item shape error
func IsUnknownItemShape(err error) bool {
	return IsType(err, ErrorTypeUnknownItemShape)
}

// IsRepository checks if an error is a repository error
func IsRepository(err error) bool {
	return IsType(err, ErrorTypeRepository)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// If it's already an AppError, add context to message
	if appErr := GetAppError(err); appErr != nil {
		appErr.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return appErr
	}

	// Otherwise create a new internal error
	return NewInternalError(message).WithCause(err)
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
