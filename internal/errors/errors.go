// Package errors provides a lightweight structured error type (PagePressError)
// for category-based classification across the pipeline and CLI.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of a PagePress error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Content loading and parsing errors
	CategoryNotFound ErrorCategory = "not_found"
	CategoryMetadata ErrorCategory = "metadata"
	CategoryBody     ErrorCategory = "body"

	// Rendering and publishing errors
	CategoryRender       ErrorCategory = "render"
	CategoryRouting      ErrorCategory = "routing"
	CategoryMissingField ErrorCategory = "missing_field"
	CategoryFileSystem   ErrorCategory = "filesystem"

	// Runtime and infrastructure errors
	CategoryState    ErrorCategory = "state"
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// PagePressError is a structured error with category, severity, and context
type PagePressError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for PagePressError
type ContextFields map[string]any

// Error implements the error interface
func (e *PagePressError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *PagePressError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *PagePressError) WithContext(key string, value any) *PagePressError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new PagePressError
func New(category ErrorCategory, severity ErrorSeverity, message string) *PagePressError {
	return &PagePressError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new PagePressError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *PagePressError {
	return &PagePressError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	var ppe *PagePressError
	if errors.As(err, &ppe) {
		return ppe.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal
// if the error is not a PagePressError.
func GetCategory(err error) ErrorCategory {
	var ppe *PagePressError
	if errors.As(err, &ppe) {
		return ppe.Category
	}
	return CategoryInternal
}
