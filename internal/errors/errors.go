package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrRegistry   = "REGISTRY"
	ErrParse      = "PARSE"
	ErrContext    = "CONTEXT"
	ErrDispatch   = "DISPATCH"
	ErrTracker    = "TRACKER"
	ErrLock       = "LOCK"
	ErrConfig     = "CONFIG"
	ErrFileSystem = "FILESYSTEM"
)

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered for terminals as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrDispatch code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrDispatch,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Error implements the error interface with the multi-line terminal format.
func (e *Error) Error() string {
	var b strings.Builder

	// First line: failure symbol + main message
	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	// Include cause if present (why it failed)
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	// Include suggestion if present (how to fix)
	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var ctErr *Error
	if errors.As(err, &ctErr) {
		return ctErr.Code == code
	}
	return false
}

// Summary returns the single-line message of a structured error, or err.Error()
// for anything else. Useful where the multi-line format would be noisy (log lines).
func Summary(err error) string {
	if err == nil {
		return ""
	}
	var ctErr *Error
	if errors.As(err, &ctErr) {
		if ctErr.Cause != nil {
			return ctErr.Message + ": " + Summary(ctErr.Cause)
		}
		return ctErr.Message
	}
	return err.Error()
}
