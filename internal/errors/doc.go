// Package errors defines the exit-code contract for the gasoline-mcp CLI.
//
// Domain packages create and wrap errors with github.com/cockroachdb/errors;
// this package only covers the boundary between commands and the operating
// system: exit codes, sentinel errors for top-level conditions, and
// [ExitError], which pairs an error with an exit code and an optional
// recovery suggestion rendered separately from the message:
//
//	err := cliErrors.NewUserError(cliErrors.ErrNoClients, "Install a supported client and retry")
//	var exitErr *cliErrors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
