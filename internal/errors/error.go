package errors

import (
	"errors"
	"fmt"
)

// Category groups error codes by the subsystem that raises them.
type Category string

const (
	CategoryState  Category = "state"
	CategoryPath   Category = "path"
	CategoryConfig Category = "config"
	CategoryIO     Category = "io"
	CategoryCLI    Category = "cli"
)

// Registered codes.
const (
	CodeUnreachablePath = "F001"
	CodeTypeMismatch    = "F002"
	CodeNoStore         = "F003"
	CodeInvalidPath     = "F004"
	CodeStateFile       = "F005"
	CodeConfig          = "F006"
)

// FreeduxError is a structured error with a code, an optional state path and
// a fix suggestion.
type FreeduxError struct {
	// Code is a unique error identifier (e.g., "F001").
	Code string

	// Category is the subsystem that raised the error.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Path is the state path the error concerns, if any.
	Path string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *FreeduxError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *FreeduxError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a FreeduxError with the same code.
func (e *FreeduxError) Is(target error) bool {
	var fe *FreeduxError
	if !errors.As(target, &fe) || fe == nil {
		return false
	}
	return e.Code != "" && e.Code == fe.Code
}

// WithPath records the state path the error concerns.
func (e *FreeduxError) WithPath(p string) *FreeduxError {
	e.Path = p
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *FreeduxError) WithSuggestion(s string) *FreeduxError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the registered explanation.
func (e *FreeduxError) WithDetail(d string) *FreeduxError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *FreeduxError) Wrap(err error) *FreeduxError {
	e.Wrapped = err
	return e
}

// New creates a FreeduxError from a registered code. Unknown codes produce
// an error with message "Unknown error".
func New(code string) *FreeduxError {
	template, ok := registry[code]
	if !ok {
		return &FreeduxError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &FreeduxError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates an uncoded FreeduxError with a formatted message.
func Newf(category Category, format string, args ...any) *FreeduxError {
	return &FreeduxError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError returns err as a FreeduxError, wrapping it under code when it is
// not one already. It returns nil for a nil err.
func FromError(err error, code string) *FreeduxError {
	if err == nil {
		return nil
	}
	var fe *FreeduxError
	if errors.As(err, &fe) {
		return fe
	}
	return New(code).Wrap(err)
}
