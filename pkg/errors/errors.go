// Package errors provides structured error types for the menubuilder application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, document layer, and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: structural rule violations and malformed input
//   - *_NOT_FOUND: resource lookups that came up empty
//   - EDIT_*: edit-session state machine violations
//   - EXEC_*: command test-run failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNodeNotFound, "no node with id %s", id)
//	if errors.Is(err, errors.ErrCodeNodeNotFound) {
//	    // Handle stale id
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidDocument, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Structural rule violations
	ErrCodeInvalidOptionBox   Code = "INVALID_OPTION_BOX_POSITION"
	ErrCodeParentNotFolder    Code = "PARENT_MUST_BE_FOLDER"
	ErrCodeCyclicMove         Code = "CYCLIC_MOVE"
	ErrCodeMissingLabel       Code = "MISSING_LABEL"
	ErrCodeMissingCommand     Code = "MISSING_COMMAND"
	ErrCodeChildrenNotAllowed Code = "CHILDREN_NOT_ALLOWED"
	ErrCodeInvalidIndex       Code = "INVALID_INDEX"
	ErrCodeKindMismatch       Code = "KIND_MISMATCH"
	ErrCodeDuplicateID        Code = "DUPLICATE_ID"

	// Edit session errors
	ErrCodeEditInProgress Code = "EDIT_IN_PROGRESS"
	ErrCodeNoEditSession  Code = "NO_EDIT_SESSION"

	// Document format errors
	ErrCodeInvalidDocument Code = "INVALID_DOCUMENT"
	ErrCodeMergeRejected   Code = "MERGE_REJECTED"
	ErrCodeInvalidName     Code = "INVALID_NAME"

	// Resource not found errors
	ErrCodeNodeNotFound     Code = "NODE_NOT_FOUND"
	ErrCodeDocumentNotFound Code = "DOCUMENT_NOT_FOUND"

	// Import adapter errors
	ErrCodeInvalidSource Code = "INVALID_SOURCE"
	ErrCodeUnsupported   Code = "UNSUPPORTED"

	// Executor errors
	ErrCodeExecFailed Code = "EXEC_FAILED"

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
