package router

import (
	"fmt"
	"strings"
)

// ConfigErrorType categorizes route configuration errors.
type ConfigErrorType string

const (
	// ErrorAmbiguousDynamic indicates two dynamic sibling directories under
	// the same parent. Two dynamic siblings would make matcher precedence
	// ill-defined, so this is fatal at compile time.
	ErrorAmbiguousDynamic ConfigErrorType = "AMBIGUOUS_DYNAMIC_SEGMENTS"

	// ErrorDuplicateRoute indicates multiple route files resolving to the
	// same URL pattern (grouping directories make this possible).
	ErrorDuplicateRoute ConfigErrorType = "DUPLICATE_ROUTE"

	// ErrorUnreadableDir indicates a directory that could not be read
	// during the compile-time scan.
	ErrorUnreadableDir ConfigErrorType = "UNREADABLE_DIRECTORY"

	// ErrorInvalidModule indicates a route module that could not be loaded
	// or declares no method handlers.
	ErrorInvalidModule ConfigErrorType = "INVALID_MODULE"
)

// ConfigError is one route configuration error detected at compile time.
// Configuration errors are fatal to startup; no partial table is served.
type ConfigError struct {
	// Type is the error category.
	Type ConfigErrorType

	// Message is the human-readable error message.
	Message string

	// Path is the directory or URL pattern involved.
	Path string

	// Files are the source files involved, when known.
	Files []string

	// Err is the underlying error, when one exists.
	Err error
}

func (e ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	if len(e.Files) > 0 {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, strings.Join(e.Files, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e ConfigError) Unwrap() error {
	return e.Err
}

// MultiConfigError aggregates every configuration error found during one
// compilation. The compiler never stops at the first error: the whole tree
// is scanned so all problems surface at once.
type MultiConfigError struct {
	Errors []ConfigError
}

func (e *MultiConfigError) Error() string {
	if len(e.Errors) == 0 {
		return "no configuration errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d route configuration errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// FormatConfigError formats a configuration error for CLI display:
//
//	ERROR: Ambiguous dynamic segments in api/product
//	  api/product/[id] → /api/product/:id
//	  api/product/[sku] → /api/product/:sku
func FormatConfigError(err ConfigError) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ERROR: %s\n", err.Message)
	for _, file := range err.Files {
		fmt.Fprintf(&sb, "  %s\n", file)
	}
	if err.Err != nil {
		fmt.Fprintf(&sb, "  Cause: %v\n", err.Err)
	}
	return sb.String()
}
