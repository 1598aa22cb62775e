// Package errors provides structured error types for modresolve.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes fall into four groups:
//   - input errors, raised synchronously before any network activity
//     (MALFORMED_COORDINATE, INVALID_LOCATION, INVALID_DESTINATION, INVALID_CONFIG)
//   - resolution errors, carried by a terminal outcome
//     (NOT_FOUND, METADATA_MALFORMED)
//   - transport errors, also carried by a terminal outcome
//     (TRANSPORT_FAILED, TIMEOUT, WRITE_FAILED)
//   - CANCELLED, returned when the caller's context ends a repository chain
//     before it reaches a terminal outcome; the context error is the cause
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedCoordinate, "%q must be group:artifact:version", s)
//	if errors.Is(err, errors.ErrCodeMalformedCoordinate) {
//	    // caller error, not retryable
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeTransport, origErr, "GET %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeMalformedCoordinate Code = "MALFORMED_COORDINATE"
	ErrCodeInvalidLocation     Code = "INVALID_LOCATION"
	ErrCodeInvalidDestination  Code = "INVALID_DESTINATION"
	ErrCodeInvalidConfig       Code = "INVALID_CONFIG"

	// Resolution errors
	ErrCodeNotFound          Code = "NOT_FOUND"
	ErrCodeMetadataMalformed Code = "METADATA_MALFORMED"

	// Transport errors
	ErrCodeTransport   Code = "TRANSPORT_FAILED"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeWriteFailed Code = "WRITE_FAILED"

	// Control errors
	ErrCodeCancelled Code = "CANCELLED"
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
// Only the outermost *Error is consulted.
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

// IsInputError reports whether err was raised before any network activity
// because the caller supplied bad input. Input errors are never retryable.
func IsInputError(err error) bool {
	switch GetCode(err) {
	case ErrCodeMalformedCoordinate, ErrCodeInvalidLocation, ErrCodeInvalidDestination, ErrCodeInvalidConfig:
		return true
	}
	return false
}
