// Package errors provides structured error types for gridopt.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Tiers
//
// Configuration errors (INVALID_*, UNKNOWN_*, COST_MODEL_MISMATCH,
// UNSUPPORTED_CONSTRAINTS, BACKEND_UNAVAILABLE) are raised before any solver
// backend is invoked and always abort the call. A backend that ran but did
// not converge is NOT an error: it is reported through the result's success
// flag and status code, and callers must check that flag explicitly.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownAlgorithm, "no formulation for algorithm %d", alg)
//	if errors.Is(err, errors.ErrCodeUnknownAlgorithm) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "assembling susceptance matrix")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput         Code = "INVALID_INPUT"
	ErrCodeInvalidArgumentShape Code = "INVALID_ARGUMENT_SHAPE"
	ErrCodeInvalidCase          Code = "INVALID_CASE"
	ErrCodeInvalidOptions       Code = "INVALID_OPTIONS"
	ErrCodeInvalidConstraints   Code = "INVALID_CONSTRAINTS"

	// Formulation/dispatch configuration errors
	ErrCodeUnknownCostModel       Code = "UNKNOWN_COST_MODEL"
	ErrCodeUnknownAlgorithm       Code = "UNKNOWN_ALGORITHM"
	ErrCodeCostModelMismatch      Code = "COST_MODEL_MISMATCH"
	ErrCodeUnsupportedConstraints Code = "UNSUPPORTED_CONSTRAINTS"
	ErrCodeBackendUnavailable     Code = "BACKEND_UNAVAILABLE"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeRunNotFound  Code = "RUN_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// IsConfiguration reports whether err is a pre-dispatch configuration error
// (argument shape, cost model, algorithm, constraint, or availability).
// Configuration errors must never be downgraded to a failed-solve result.
func IsConfiguration(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidArgumentShape, ErrCodeInvalidCase, ErrCodeInvalidOptions,
		ErrCodeInvalidConstraints, ErrCodeUnknownCostModel, ErrCodeUnknownAlgorithm,
		ErrCodeCostModelMismatch, ErrCodeUnsupportedConstraints, ErrCodeBackendUnavailable:
		return true
	}
	return false
}
