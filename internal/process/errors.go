package process

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// SpawnError means the operating system could not start the program.
type SpawnError struct {
	Program string
	Err     error
}

// Error implements the error interface for SpawnError.
func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to invoke %s: %v", e.Program, e.Err)
}

// Unwrap returns the underlying start error.
func (e *SpawnError) Unwrap() error {
	return e.Err
}

// ExitError means the program ran but did not exit successfully.
type ExitError struct {
	Program string
	State   *os.ProcessState
}

// Error implements the error interface for ExitError.
// Format: "<program> exited with exit status N" or "<program> exited with signal: killed".
func (e *ExitError) Error() string {
	if e.State == nil {
		return fmt.Sprintf("%s exited with unknown status", e.Program)
	}
	return fmt.Sprintf("%s exited with %s", e.Program, e.State.String())
}

// ExitCode returns the child's exit code, or -1 if it was terminated by a signal.
func (e *ExitError) ExitCode() int {
	if e.State == nil {
		return -1
	}
	return e.State.ExitCode()
}

// CancelledError means the execution substrate shut down while a child was running.
// The child was killed before this error was returned.
type CancelledError struct {
	Program string
}

// Error implements the error interface for CancelledError.
func (e *CancelledError) Error() string {
	return fmt.Sprintf("%s was cancelled", e.Program)
}

// Unwrap returns context.Canceled to support error wrapping.
func (e *CancelledError) Unwrap() error {
	return context.Canceled
}

// IsSpawnError checks if the error is or wraps a SpawnError.
func IsSpawnError(err error) bool {
	if err == nil {
		return false
	}
	var se *SpawnError
	return errors.As(err, &se)
}

// IsExitError checks if the error is or wraps an ExitError.
func IsExitError(err error) bool {
	if err == nil {
		return false
	}
	var ee *ExitError
	return errors.As(err, &ee)
}
