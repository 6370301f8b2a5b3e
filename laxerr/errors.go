// Package laxerr defines the failure taxonomy for the layers around the
// json-lax engine.
//
// The engine itself (tokenizer, parser, coercions, serializer, validator)
// reports failure only as an absent result. Schema loading, the Go and BSON
// bridges, document I/O and the CLI need to say why something failed, and
// every such error maps to exactly one FailureClass, which determines the
// process exit code.
package laxerr

import (
	"errors"
	"fmt"
)

// FailureClass is a stable failure category.
type FailureClass string

const (
	InvalidInput     FailureClass = "INVALID_INPUT"
	InvalidSchema    FailureClass = "INVALID_SCHEMA"
	ValidationFailed FailureClass = "VALIDATION_FAILED"
	NotCanonical     FailureClass = "NOT_CANONICAL"
	NonFiniteNumber  FailureClass = "NON_FINITE_NUMBER"
	UnsupportedType  FailureClass = "UNSUPPORTED_TYPE"
	BoundExceeded    FailureClass = "BOUND_EXCEEDED"
	CLIUsage         FailureClass = "CLI_USAGE"
	InternalIO       FailureClass = "INTERNAL_IO"
	InternalError    FailureClass = "INTERNAL_ERROR"
)

// ExitCode returns the process exit code for this failure class.
func (fc FailureClass) ExitCode() int {
	switch fc {
	case InternalIO, InternalError:
		return 10
	default:
		return 2
	}
}

// Error is the structured error type for all json-lax failures.
type Error struct {
	Class   FailureClass
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("laxerr: %s: %s: %v", e.Class, e.Message, e.Cause)
	}
	return fmt.Sprintf("laxerr: %s: %s", e.Class, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given class and message.
func New(class FailureClass, message string) *Error {
	return &Error{Class: class, Message: message}
}

// Newf is like New but formats the message.
func Newf(class FailureClass, format string, args ...any) *Error {
	return &Error{Class: class, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(class FailureClass, message string, cause error) *Error {
	return &Error{Class: class, Message: message, Cause: cause}
}

// ClassOf returns the class of the first *Error in err's chain. Errors that
// carry no class are reported as InternalError.
func ClassOf(err error) FailureClass {
	var le *Error
	if errors.As(err, &le) {
		return le.Class
	}
	return InternalError
}
