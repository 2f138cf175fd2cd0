package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRoutes Category = "routes"
	CategoryConfig Category = "config"
	CategoryCLI    Category = "cli"
)

// StradaError is a structured error with a stable code, a suggestion, and
// a documentation link. It is the CLI-facing error shape; library code
// reports plain errors and the command layer wraps them here.
type StradaError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (routes, config, cli).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Path is the file or directory the error refers to.
	Path string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *StradaError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *StradaError) Unwrap() error {
	return e.Wrapped
}

// WithPath records the file or directory the error refers to.
func (e *StradaError) WithPath(path string) *StradaError {
	e.Path = path
	return e
}

// WithDetail replaces the registered detail text.
func (e *StradaError) WithDetail(detail string) *StradaError {
	e.Detail = detail
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *StradaError) WithSuggestion(s string) *StradaError {
	e.Suggestion = s
	return e
}

// Wrap attaches the underlying error.
func (e *StradaError) Wrap(err error) *StradaError {
	e.Wrapped = err
	if e.Detail == "" && err != nil {
		e.Detail = err.Error()
	}
	return e
}

// New creates an error from a registered code. Unknown codes produce a
// generic error carrying the code, so a stale call site still reports
// something usable.
func New(code string) *StradaError {
	if tmpl, ok := registry[code]; ok {
		return &StradaError{
			Code:       code,
			Category:   tmpl.Category,
			Message:    tmpl.Message,
			Detail:     tmpl.Detail,
			Suggestion: tmpl.Suggestion,
			DocURL:     tmpl.DocURL,
		}
	}
	return &StradaError{
		Code:     code,
		Category: CategoryCLI,
		Message:  "unknown error",
	}
}
