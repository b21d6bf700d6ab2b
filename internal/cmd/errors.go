package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitUsage          = 2
	ExitHarnessTimeout = 3
)

// UsageError reports invalid command line arguments.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// HarnessTimeoutError reports that a harness run hit its time bound.
type HarnessTimeoutError struct {
	Program string
	Timeout time.Duration
}

func (e *HarnessTimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Program, e.Timeout)
}

// ExitCode maps an error returned by the command tree to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var usage *UsageError
	if errors.As(err, &usage) {
		return ExitUsage
	}
	var timeout *HarnessTimeoutError
	if errors.As(err, &timeout) {
		return ExitHarnessTimeout
	}
	return ExitFailure
}

// usageArgs wraps a positional argument validator so its failures are usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
}
