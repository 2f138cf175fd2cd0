// Package errors provides the CLI's structured error reporting: stable
// error codes, per-code detail and fix suggestions, and terminal
// formatting with colors.
//
// Library packages return plain errors; the command layer maps them onto
// registered codes before printing:
//
//	if err != nil {
//	    fmt.Fprintln(os.Stderr, errors.New("E004").WithPath(path).Wrap(err).Format())
//	    os.Exit(1)
//	}
package errors
