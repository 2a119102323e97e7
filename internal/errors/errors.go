// Package errors provides error handling utilities.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeInput indicates an unusable input file (missing, unreadable, not a regular file)
	TypeInput Type = "INPUT_ERROR"

	// TypeParsing indicates a structural decoding failure of a tabular source
	TypeParsing Type = "PARSING_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeOutput indicates the result table could not be rendered or written
	TypeOutput Type = "OUTPUT_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// HasType checks if the error is of a specific type
func (e *Error) HasType(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsType reports whether any error in err's chain is a domain error of type t.
func IsType(err error, t Type) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.HasType(t)
	}
	return false
}

// Input creates an input error
func Input(message string) *Error {
	return New(TypeInput, message)
}

// Parsing creates a parsing error
func Parsing(message string, cause error) *Error {
	return Wrap(TypeParsing, message, cause)
}

// Config creates a configuration error
func Config(message string) *Error {
	return New(TypeConfig, message)
}

// Output creates an output error
func Output(message string, cause error) *Error {
	return Wrap(TypeOutput, message, cause)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}

// FileNotFound reports a missing input file for the named source.
func FileNotFound(source, path string) *Error {
	return Input(fmt.Sprintf("%s file not found: %s", source, path)).
		WithContext("source", source).
		WithContext("path", path)
}

// NotRegularFile reports an input path that is a directory or device.
func NotRegularFile(source, path string) *Error {
	return Input(fmt.Sprintf("%s path is not a regular file: %s", source, path)).
		WithContext("source", source).
		WithContext("path", path)
}

// Unreadable reports an input file that exists but cannot be opened.
func Unreadable(source, path string, cause error) *Error {
	return Wrapf(TypeInput, cause, "%s file is not readable: %s", source, path).
		WithContext("source", source).
		WithContext("path", path)
}

// Malformed reports a structural decoding failure in the named source.
func Malformed(source string, cause error) *Error {
	return Parsing("failed to parse "+source, cause).
		WithContext("source", source)
}

// SourceOf returns the "source" context of the first domain error in err's
// chain, or "" when none is recorded.
func SourceOf(err error) string {
	var e *Error
	if !stderrors.As(err, &e) || e.Context == nil {
		return ""
	}
	s, _ := e.Context["source"].(string)
	return s
}
