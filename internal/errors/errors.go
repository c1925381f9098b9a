package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Twine error code.
type ErrorCode string

const (
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"     // 400
	ErrNotFound           ErrorCode = "NOT_FOUND"           // 404
	ErrFileNotFound       ErrorCode = "FILE_NOT_FOUND"      // 404
	ErrAlreadyExists      ErrorCode = "ALREADY_EXISTS"      // 409
	ErrValueTooLarge      ErrorCode = "VALUE_TOO_LARGE"     // 413
	ErrInvalidType        ErrorCode = "INVALID_TYPE"        // 422
	ErrConflictingFilters ErrorCode = "CONFLICTING_FILTERS" // 422
	ErrRateLimited        ErrorCode = "RATE_LIMITED"        // 429
	ErrCancelled          ErrorCode = "CANCELLED"           // 499
	ErrInternal           ErrorCode = "INTERNAL"            // 500
)

// TwineError represents a structured error with code, status, and details.
type TwineError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *TwineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for malformed caller input.
func NewInvalidRequest(msg string) *TwineError {
	return &TwineError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewInvalidParameter creates a 400 error naming the offending parameter.
func NewInvalidParameter(param, reason string) *TwineError {
	return &TwineError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: fmt.Sprintf("invalid query parameter: %s %s", param, reason),
		Details: map[string]any{"parameter": param},
	}
}

// NewNotFound creates a 404 error for a string that is not stored.
func NewNotFound(value string) *TwineError {
	return &TwineError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "string does not exist in the system",
		Details: map[string]any{"value": value},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *TwineError {
	return &TwineError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewAlreadyExists creates a 409 error when the value is already stored.
func NewAlreadyExists(id string) *TwineError {
	return &TwineError{
		Code:    ErrAlreadyExists,
		Status:  409,
		Message: "string already exists in the system",
		Details: map[string]any{"id": id},
	}
}

// NewValueTooLarge creates a 413 error when a value exceeds the size limit.
func NewValueTooLarge(max, actual int) *TwineError {
	return &TwineError{
		Code:    ErrValueTooLarge,
		Status:  413,
		Message: fmt.Sprintf("value exceeds maximum size: %d chars (max %d)", actual, max),
		Details: map[string]any{"max_chars": max, "actual_chars": actual},
	}
}

// NewBodyTooLarge creates a 413 error when a request body exceeds limit bytes.
func NewBodyTooLarge(limit int64) *TwineError {
	return &TwineError{
		Code:    ErrValueTooLarge,
		Status:  413,
		Message: fmt.Sprintf("request body exceeds %d bytes", limit),
		Details: map[string]any{"max_bytes": limit},
	}
}

// NewInvalidType creates a 422 error for a field with the wrong JSON type.
func NewInvalidType(field, want string) *TwineError {
	return &TwineError{
		Code:    ErrInvalidType,
		Status:  422,
		Message: fmt.Sprintf("invalid data type for %q (must be %s)", field, want),
		Details: map[string]any{"field": field},
	}
}

// NewConflictingFilters creates a 422 error for an unsatisfiable length range.
func NewConflictingFilters(minLength, maxLength int) *TwineError {
	return &TwineError{
		Code:    ErrConflictingFilters,
		Status:  422,
		Message: fmt.Sprintf("query parsed but resulted in conflicting filters: min_length %d > max_length %d", minLength, maxLength),
		Details: map[string]any{"min_length": minLength, "max_length": maxLength},
	}
}

// NewRateLimited creates a 429 error when the request budget is exhausted.
func NewRateLimited() *TwineError {
	return &TwineError{
		Code:    ErrRateLimited,
		Status:  429,
		Message: "too many requests",
	}
}

// NewCancelled creates an error for an operation aborted by its context.
func NewCancelled(op string) *TwineError {
	return &TwineError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
		Details: map[string]any{"operation": op},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message is generic; the cause is kept in Details for logging only.
func NewInternal(err error) *TwineError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &TwineError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if an error (or anything it wraps) is a TwineError with the given code.
func Is(err error, code ErrorCode) bool {
	var tErr *TwineError
	if stderrors.As(err, &tErr) {
		return tErr.Code == code
	}
	return false
}

// As extracts the TwineError from err, converting unknown errors to INTERNAL.
func As(err error) *TwineError {
	var tErr *TwineError
	if stderrors.As(err, &tErr) {
		return tErr
	}
	return NewInternal(err)
}
