// Package errors provides error handling conventions for the applink CLI.
//
// The package re-exports the wrapping helpers of
// github.com/cockroachdb/errors so that callers import a single errors
// package, defines sentinel errors shared across packages, and provides an
// ExitError type for CLI exit code handling.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [Is]:
//
//	if errors.Is(err, errors.ErrNotFound) {
//	    // handle not found case
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, nothing detected, etc.)
//   - ExitSystem (2): System-related error (every platform failed, I/O, permissions)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion:
//
//	err := errors.NewUserError(errors.ErrUnknownIntegration, "Run: applink list")
//	var exitErr *errors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
