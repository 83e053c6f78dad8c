// Package errors provides structured error types for circleator.
//
// Fatal render conditions carry machine-readable codes so the CLI and the
// HTTP service can classify failures consistently:
//   - INVALID_*: bad input (configuration, contig lists, scale specs)
//   - UNKNOWN_*: references to things that do not exist (contigs, glyphs,
//     annotation formats, tracks)
//   - INTERNAL_*: defects that should never happen on valid input
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateContig, "duplicate contig id %q", id)
//	if errors.Is(err, errors.ErrCodeDuplicateContig) {
//	    // handle
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidConfig, cause, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the fatal conditions of a render run.
const (
	// Input validation errors
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"
	ErrCodeInvalidContigList Code = "INVALID_CONTIG_LIST"
	ErrCodeInvalidScale      Code = "INVALID_SCALE"
	ErrCodeInvalidFeature    Code = "INVALID_FEATURE"
	ErrCodeInvalidGraphRange Code = "INVALID_GRAPH_RANGE"

	// Reference errors
	ErrCodeDuplicateContig Code = "DUPLICATE_CONTIG"
	ErrCodeNoContigs       Code = "NO_CONTIGS"
	ErrCodeUnknownContig   Code = "UNKNOWN_CONTIG"
	ErrCodeUnknownGlyph    Code = "UNKNOWN_GLYPH"
	ErrCodeUnknownFormat   Code = "UNKNOWN_FORMAT"
	ErrCodeUnknownTrack    Code = "UNKNOWN_TRACK"
	ErrCodeUnknownFunction Code = "UNKNOWN_FUNCTION"

	// Feature defects
	ErrCodeUndefinedStrand Code = "UNDEFINED_STRAND"
	ErrCodeIndexRegister   Code = "INDEX_REGISTER_FAILED"

	// Internal errors
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

// Is reports whether err carries the given error code.
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
