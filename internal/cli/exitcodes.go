package cli

import (
	"errors"
	"fmt"
)

// Exit codes for mdbook-pandoc.
const (
	// ExitSuccess indicates a successful build.
	ExitSuccess = 0

	// ExitBuildFailed indicates that a profile could not be built.
	ExitBuildFailed = 1

	// ExitUsage indicates invalid command-line usage or configuration.
	ExitUsage = 2

	// ExitUnresolvedLinks indicates a build that completed with unresolved
	// links while --strict was set.
	ExitUnresolvedLinks = 3
)

// ErrUnresolvedLinks is returned by a strict build that left links unresolved.
var ErrUnresolvedLinks = errors.New("one or more links could not be resolved")

// ExitError carries the exit code for an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps an error returned by the root command to a process exit
// code. Errors without an explicit code come from argument and flag parsing.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUsage
}
