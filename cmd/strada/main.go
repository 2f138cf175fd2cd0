package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/strada-dev/strada/internal/errors"
	"github.com/strada-dev/strada/pkg/router"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "strada",
		Short: "File-convention API routing for Go",
		Long: `Strada compiles a directory of route files into an HTTP API.

Directory names are the routing language:

  routes/users/route.go          → /users
  routes/users/[id]/route.go     → /users/:id
  routes/(admin)/audit/route.go  → /audit

Route files export handlers named after HTTP methods (GET, POST, ...),
optional middleware, and optional request schemas. The compiler detects
conflicting conventions at startup and refuses to serve a broken table.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		routesCmd(),
		openapiCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// printError renders an error for the terminal, expanding route
// configuration errors into their coded, per-problem form.
func printError(err error) {
	if multi, ok := err.(*router.MultiConfigError); ok {
		var coded []*errors.StradaError
		for _, ce := range multi.Errors {
			coded = append(coded, codedConfigError(ce))
		}
		fmt.Fprint(os.Stderr, errors.FormatList(coded))
		return
	}
	if serr, ok := err.(*errors.StradaError); ok {
		fmt.Fprint(os.Stderr, serr.Format())
		return
	}
	fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
}

// codedConfigError maps a route configuration error onto its registered
// CLI error code.
func codedConfigError(ce router.ConfigError) *errors.StradaError {
	var code string
	switch ce.Type {
	case router.ErrorAmbiguousDynamic:
		code = "E001"
	case router.ErrorDuplicateRoute:
		code = "E002"
	case router.ErrorUnreadableDir:
		code = "E003"
	default:
		code = "E004"
	}
	out := errors.New(code).WithPath(ce.Path)
	if ce.Message != "" {
		out.Message = ce.Message
	}
	if len(ce.Files) > 0 {
		detail := out.Detail
		for _, f := range ce.Files {
			detail += "\n  " + f
		}
		out.Detail = detail
	}
	if ce.Err != nil {
		out.Wrapped = ce.Err
	}
	return out
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
