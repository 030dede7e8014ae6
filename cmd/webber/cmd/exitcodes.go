package cmd

import (
	"errors"
)

// Exit codes for the webber CLI.
const (
	// ExitSuccess indicates a response was received, whatever its status.
	ExitSuccess = 0

	// ExitNoMatch indicates --query found nothing in the response body.
	ExitNoMatch = 1

	// ExitConfigError indicates the environment configuration is invalid.
	ExitConfigError = 3

	// ExitNetworkError indicates no response was received.
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage.
	ExitUsageError = 64
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return ""
	}

	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withExitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// ExitCode maps an error returned by the root command to a process exit code.
// Errors cobra raises itself (unknown flags, wrong argument count) are usage
// errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}

	return ExitUsageError
}
