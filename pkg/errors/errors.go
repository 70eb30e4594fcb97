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
	ErrUnknown        ErrorCode = "UNKNOWN"
	ErrInternal       ErrorCode = "INTERNAL"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrAlreadyExists  ErrorCode = "ALREADY_EXISTS"
	ErrNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Model errors
	ErrModelNotFound ErrorCode = "MODEL_NOT_FOUND"
	ErrModelInvalid  ErrorCode = "MODEL_INVALID"
	ErrDimension     ErrorCode = "DIMENSION_MISMATCH"

	// Model-file errors
	ErrModelFileLoad   ErrorCode = "MODELFILE_LOAD"
	ErrModelFileEval   ErrorCode = "MODELFILE_EVAL"
	ErrModelFileSymbol ErrorCode = "MODELFILE_SYMBOL"
	ErrModelFileImport ErrorCode = "MODELFILE_IMPORT"

	// Simulation errors
	ErrSimDiverged ErrorCode = "SIM_DIVERGED"
	ErrSimSingular ErrorCode = "SIM_SINGULAR_MASS"
)

// CablekitError represents a structured error with code and details
type CablekitError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *CablekitError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CablekitError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *CablekitError) Is(target error) bool {
	var targetErr *CablekitError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new CablekitError with the given code and message
func New(code ErrorCode, message string) *CablekitError {
	return &CablekitError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new CablekitError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *CablekitError {
	return &CablekitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a CablekitError
func Wrap(err error, code ErrorCode, message string) *CablekitError {
	if err == nil {
		return nil
	}
	return &CablekitError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *CablekitError {
	if err == nil {
		return nil
	}
	return &CablekitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *CablekitError) WithDetail(key string, value interface{}) *CablekitError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var ckErr *CablekitError
	if errors.As(err, &ckErr) {
		return ckErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a CablekitError
func GetErrorCode(err error) ErrorCode {
	var ckErr *CablekitError
	if errors.As(err, &ckErr) {
		return ckErr.Code
	}
	return ErrUnknown
}
