// Package perr defines the structured error taxonomy shared by every
// pdareach package: a machine-readable Code plus an optional wrapped
// cause.
package perr

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error category.
type Code string

const (
	// CodeInvalidPDA marks a malformed rule, an out-of-range label or
	// state, or an unsupported operation combination.
	CodeInvalidPDA Code = "INVALID_PDA"
	// CodeInvalidAutomaton marks a P-automaton referencing a state not
	// in the PDA, or an edge carrying an out-of-range label.
	CodeInvalidAutomaton Code = "INVALID_AUTOMATON"
	// CodeSemiringContract marks a weight domain violating the
	// monotonicity preconditions of a semiring.
	CodeSemiringContract Code = "SEMIRING_CONTRACT"
	// CodeCancelled marks a caller-signalled abort.
	CodeCancelled Code = "CANCELLED"
	// CodeInternalInvariant marks a defect: traces that fail to unwind
	// to a valid PDA execution. Fatal, non-recoverable.
	CodeInternalInvariant Code = "INTERNAL_INVARIANT"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes Cause for errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error with the given code, wrapping cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the first *Error in err's chain carries the given
// code; codes of *Errors wrapped deeper inside it are not consulted.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the code from err, or "" if err is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
