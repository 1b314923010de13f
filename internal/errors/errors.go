// Package errors provides structured error types for the schema bridge.
// All errors include a category, code, message, and retryable flag for
// consistent error handling across components.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors by system component.
type ErrorCategory string

const (
	ErrCategoryValidation  ErrorCategory = "VALIDATION"
	ErrCategoryTranslation ErrorCategory = "TRANSLATION"
	ErrCategoryRegistry    ErrorCategory = "REGISTRY"
	ErrCategoryConfig      ErrorCategory = "CONFIG"
	ErrCategoryInternal    ErrorCategory = "INTERNAL"
)

// Error codes for each category.
const (
	// Validation codes
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeInvalidLocation   = "INVALID_LOCATION"
	CodeMissingProperty   = "MISSING_PROPERTY"

	// Translation codes
	CodeUnsupportedType = "UNSUPPORTED_TYPE"
	CodeParseError      = "PARSE_ERROR"
	CodeMissingField    = "MISSING_FIELD"

	// Registry codes
	CodeUnreachable   = "UNREACHABLE"
	CodeNotFound      = "NOT_FOUND"
	CodeRequestFailed = "REQUEST_FAILED"

	// Config codes
	CodeInvalidConfig = "INVALID_CONFIG"

	// Internal codes
	CodeUnexpected = "UNEXPECTED"
)

// BridgeError is the structured error type used throughout the system.
type BridgeError struct {
	Category  ErrorCategory
	Code      string
	Message   string
	Details   map[string]interface{}
	Cause     error
	Retryable bool
}

// Error returns a formatted error string.
func (e *BridgeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *BridgeError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches this error's category and code.
func (e *BridgeError) Is(target error) bool {
	var t *BridgeError
	if errors.As(target, &t) {
		return e.Category == t.Category && e.Code == t.Code
	}
	return false
}

// New creates a new BridgeError.
func New(category ErrorCategory, code, message string) *BridgeError {
	return &BridgeError{
		Category:  category,
		Code:      code,
		Message:   message,
		Retryable: isRetryable(category, code),
	}
}

// Wrap creates a new BridgeError wrapping an existing error.
func Wrap(category ErrorCategory, code, message string, cause error) *BridgeError {
	return &BridgeError{
		Category:  category,
		Code:      code,
		Message:   message,
		Cause:     cause,
		Retryable: isRetryable(category, code),
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *BridgeError) WithDetails(details map[string]interface{}) *BridgeError {
	cp := *e
	cp.Details = details
	return &cp
}

// IsRetryable checks whether an error (or its chain) is retryable.
func IsRetryable(err error) bool {
	var be *BridgeError
	if errors.As(err, &be) {
		return be.Retryable
	}
	return false
}

// GetCategory extracts the error category from an error chain.
// Returns empty string if the error is not a BridgeError.
func GetCategory(err error) ErrorCategory {
	var be *BridgeError
	if errors.As(err, &be) {
		return be.Category
	}
	return ""
}

// GetCode extracts the error code from an error chain.
// Returns empty string if the error is not a BridgeError.
func GetCode(err error) string {
	var be *BridgeError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// IsUnreachable reports whether an error chain indicates the registry
// endpoint could not be reached. Read paths treat this as a benign
// condition rather than a failure.
func IsUnreachable(err error) bool {
	return GetCategory(err) == ErrCategoryRegistry && GetCode(err) == CodeUnreachable
}

// IsNotFound reports whether an error chain indicates a missing group or
// schema version on the registry side.
func IsNotFound(err error) bool {
	return GetCategory(err) == ErrCategoryRegistry && GetCode(err) == CodeNotFound
}

// isRetryable determines if an error code is retryable. Registry
// unreachability is the only transient condition; translation and
// validation failures are deterministic.
func isRetryable(category ErrorCategory, code string) bool {
	switch {
	case category == ErrCategoryRegistry && code == CodeUnreachable:
		return true
	case category == ErrCategoryRegistry && code == CodeRequestFailed:
		return true
	default:
		return false
	}
}

// Convenience constructors for common errors.

func NewValidationError(code, message string) *BridgeError {
	return New(ErrCategoryValidation, code, message)
}

func NewTranslationError(code, message string) *BridgeError {
	return New(ErrCategoryTranslation, code, message)
}

func NewRegistryError(code, message string, cause error) *BridgeError {
	return Wrap(ErrCategoryRegistry, code, message, cause)
}

func NewConfigError(message string, cause error) *BridgeError {
	return Wrap(ErrCategoryConfig, CodeInvalidConfig, message, cause)
}

func NewInternalError(message string, cause error) *BridgeError {
	return Wrap(ErrCategoryInternal, CodeUnexpected, message, cause)
}
