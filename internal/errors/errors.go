package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	CodeInvalidRange     = "INVALID_RANGE"
	CodeNoActiveSession  = "NO_ACTIVE_SESSION"
	CodeOverlap          = "OVERLAP"
	CodeIndexUnavailable = "INDEX_UNAVAILABLE"
	CodeConflict         = "CONFLICT"
)

// Sentinels for errors.Is. Matching compares type and code only.
var (
	ErrInvalidRange     = &AppError{Type: ErrorTypeInvalidRange, Code: CodeInvalidRange}
	ErrNoActiveSession  = &AppError{Type: ErrorTypeNoActiveSession, Code: CodeNoActiveSession}
	ErrOverlap          = &AppError{Type: ErrorTypeOverlap, Code: CodeOverlap}
	ErrIndexUnavailable = &AppError{Type: ErrorTypeIndexUnavailable, Code: CodeIndexUnavailable}
	ErrConflict         = &AppError{Type: ErrorTypeConflict, Code: CodeConflict}
)

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    "VALIDATION_FAILED",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Code:    "NOT_FOUND",
		Context: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewDatabaseError creates a new database error
func NewDatabaseError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeDatabase,
		Message: fmt.Sprintf("database operation failed: %s", operation),
		Code:    "DATABASE_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInput,
		Message: fmt.Sprintf("invalid input for %s: %s", field, reason),
		Code:    "INVALID_INPUT",
		Context: map[string]interface{}{
			"field":  field,
			"value":  value,
			"reason": reason,
		},
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(operation string, timeout interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeTimeout,
		Message: fmt.Sprintf("operation timed out: %s", operation),
		Code:    "TIMEOUT",
		Context: map[string]interface{}{
			"operation": operation,
			"timeout":   timeout,
		},
	}
}

// NewPermissionError creates a new permission error
func NewPermissionError(operation string, resource string) *AppError {
	return &AppError{
		Type:    ErrorTypePermission,
		Message: fmt.Sprintf("permission denied for %s on %s", operation, resource),
		Code:    "PERMISSION_DENIED",
		Context: map[string]interface{}{
			"operation": operation,
			"resource":  resource,
		},
	}
}

// NewInvalidRangeError reports an interval whose end is not after its start.
func NewInvalidRangeError(start, end time.Time) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidRange,
		Message: fmt.Sprintf("end time %s must be after start time %s", end.Format("15:04"), start.Format("15:04")),
		Code:    CodeInvalidRange,
		Context: map[string]interface{}{
			"start": start,
			"end":   end,
		},
	}
}

// NewNoActiveSessionError reports a stop request for a user who is not clocked in.
func NewNoActiveSessionError(userID string) *AppError {
	return &AppError{
		Type:    ErrorTypeNoActiveSession,
		Message: fmt.Sprintf("no active session for user %s", userID),
		Code:    CodeNoActiveSession,
		Context: map[string]interface{}{
			"user_id": userID,
		},
	}
}

// NewOverlapError reports that a proposed interval intersects other entries
// of the same user on the same day.
func NewOverlapError(entryID string, conflicting []string) *AppError {
	return &AppError{
		Type:    ErrorTypeOverlap,
		Message: fmt.Sprintf("time entry overlaps existing entries: %s", strings.Join(conflicting, ", ")),
		Code:    CodeOverlap,
		Context: map[string]interface{}{
			"entry_id":    entryID,
			"conflicting": conflicting,
		},
	}
}

// NewIndexUnavailableError reports a query that needs an index which is
// missing or still being built.
func NewIndexUnavailableError(index string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeIndexUnavailable,
		Message: fmt.Sprintf("index not available: %s", index),
		Code:    CodeIndexUnavailable,
		Cause:   cause,
		Context: map[string]interface{}{
			"index": index,
		},
	}
}

// NewConflictError reports a write rejected by a uniqueness constraint.
func NewConflictError(resource string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: fmt.Sprintf("conflicting %s already exists", resource),
		Code:    CodeConflict,
		Cause:   cause,
		Context: map[string]interface{}{
			"resource": resource,
		},
	}
}

// WrapError wraps an existing error with additional context
func WrapError(err error, errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Code:    errorType.String(),
		Cause:   err,
		Context: make(map[string]interface{}),
	}
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

// GetUserMessage returns a user-friendly error message
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput, ErrorTypePermission:
			return appErr.Message
		case ErrorTypeInvalidRange, ErrorTypeNoActiveSession, ErrorTypeOverlap, ErrorTypeConflict:
			return appErr.Message
		case ErrorTypeDatabase:
			return "A database error occurred. Please try again."
		case ErrorTypeTimeout:
			return "The operation timed out. Please try again."
		default:
			return "An unexpected error occurred. Please try again."
		}
	}
	return err.Error()
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError determines if an error should be logged based on its type
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput,
			ErrorTypeInvalidRange, ErrorTypeNoActiveSession, ErrorTypeOverlap:
			return false // user-correctable
		default:
			return true
		}
	}
	return true
}
