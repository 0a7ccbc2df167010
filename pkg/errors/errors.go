// Package errors provides structured error types for texwire.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - Per-item reporting in batch results
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NO_*: A material lacks something a batch needs
//   - *_FAILED: An operation could not complete
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNoMaterialNode, "material %q has no standard material node", name)
//	if errors.Is(err, errors.ErrCodeNoMaterialNode) {
//	    // report and skip this material
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeTxFailed, origErr, "setup of %s", name)
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
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeInvalidMaterial Code = "INVALID_MATERIAL"

	// Material graph errors
	ErrCodeNoGraph        Code = "NO_GRAPH"
	ErrCodeUnsupported    Code = "UNSUPPORTED_MATERIAL"
	ErrCodeNoMaterialNode Code = "NO_MATERIAL_NODE"
	ErrCodeNoTextures     Code = "NO_TEXTURES"

	// Operation failures
	ErrCodeLookupFailed   Code = "LOOKUP_FAILED"
	ErrCodePathUnresolved Code = "PATH_UNRESOLVED"
	ErrCodeTxFailed       Code = "TX_FAILED"
	ErrCodeCopyFailed     Code = "COPY_FAILED"
	ErrCodeStore          Code = "STORE_ERROR"

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

// Skippable reports whether err concerns a single material or texture and a
// batch over many of them should continue.
func Skippable(err error) bool {
	switch GetCode(err) {
	case ErrCodeNoGraph, ErrCodeUnsupported, ErrCodeNoMaterialNode, ErrCodeNoTextures,
		ErrCodeLookupFailed, ErrCodePathUnresolved:
		return true
	}
	return false
}

// Exit codes returned by the command-line tool.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
	ExitSkipped = 3
)

// ExitCode maps err to a process exit code: invalid input is a usage error,
// skippable errors mean the material could not be processed, and anything
// else is a failure.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case Skippable(err):
		return ExitSkipped
	}
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidPath, ErrCodeInvalidMaterial:
		return ExitUsage
	}
	return ExitFailure
}
