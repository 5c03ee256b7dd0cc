// Package errors provides structured error types for the draw-tree application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Each pipeline stage owns one code: the parser reports PARSE_ERROR, the
// tree validator VALIDATION_ERROR, the layout engine LAYOUT_ERROR and
// CONFIG_ERROR, and the external collaborators COMPILE_ERROR and
// RASTER_ERROR. All are terminal for the current render - nothing is
// retried internally.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeParse, "line %d: dangling reference %q", line, id)
//	if errors.Is(err, errors.ErrCodeParse) {
//	    // Handle parse error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeCompile, origErr, "pdflatex failed for job %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes, one per pipeline stage plus input/IO concerns.
const (
	// ErrCodeParse covers malformed or structurally invalid input:
	// unknown keywords, multiple roots, dangling references, wrong
	// probability or payoff arity.
	ErrCodeParse Code = "PARSE_ERROR"

	// ErrCodeValidation covers well-formed trees violating information-set
	// or player invariants.
	ErrCodeValidation Code = "VALIDATION_ERROR"

	// ErrCodeLayout is reported when geometry cannot satisfy spacing or
	// alignment constraints within the widening iteration cap, or when an
	// information set spans multiple tree depths.
	ErrCodeLayout Code = "LAYOUT_ERROR"

	// ErrCodeConfig is reported for layout parameters outside their
	// documented ranges, before any layout work begins.
	ErrCodeConfig Code = "CONFIG_ERROR"

	// ErrCodeCompile is reported by the document-compiler collaborator.
	ErrCodeCompile Code = "COMPILE_ERROR"

	// ErrCodeRaster is reported by the rasterizer collaborator.
	ErrCodeRaster Code = "RASTER_ERROR"

	// ErrCodeInvalidInput covers CLI/API input problems outside the
	// extensive-form description itself (bad format names, missing files).
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// ErrCodeInternal covers unexpected internal errors.
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
