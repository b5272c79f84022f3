package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrPermission   ErrorCode = "PERMISSION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Plan errors
	ErrPlanRead    ErrorCode = "PLAN_READ"
	ErrPlanParse   ErrorCode = "PLAN_PARSE"
	ErrPlanInvalid ErrorCode = "PLAN_INVALID"

	// Base directory errors
	ErrBaseNotFound ErrorCode = "BASE_NOT_FOUND"
	ErrBaseNotDir   ErrorCode = "BASE_NOT_DIR"

	// Ledger errors
	ErrLedgerOpen  ErrorCode = "LEDGER_OPEN"
	ErrLedgerWrite ErrorCode = "LEDGER_WRITE"
	ErrLedgerRead  ErrorCode = "LEDGER_READ"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrRename     ErrorCode = "RENAME"
	ErrDirCreate  ErrorCode = "DIR_CREATE"
)

// TrenameError represents a structured error with code and details
type TrenameError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *TrenameError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *TrenameError) Unwrap() error {
	return e.Wrapped
}

// Is matches any TrenameError carrying the same code.
func (e *TrenameError) Is(target error) bool {
	var targetErr *TrenameError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new TrenameError with the given code and message
func New(code ErrorCode, message string) *TrenameError {
	return &TrenameError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new TrenameError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *TrenameError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with a TrenameError. A nil err yields nil.
func Wrap(err error, code ErrorCode, message string) error {
	if err == nil {
		return nil
	}
	return &TrenameError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) error {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a detail to the error
func (e *TrenameError) WithDetail(key string, value interface{}) *TrenameError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var tErr *TrenameError
	if errors.As(err, &tErr) {
		return tErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a TrenameError
func GetErrorCode(err error) ErrorCode {
	var tErr *TrenameError
	if errors.As(err, &tErr) {
		return tErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a TrenameError
func GetErrorDetails(err error) map[string]interface{} {
	var tErr *TrenameError
	if errors.As(err, &tErr) {
		return tErr.Details
	}
	return nil
}
