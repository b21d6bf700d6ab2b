// Package process runs subprocesses under the driver's output policies.
//
// Every policy honors the same verbosity capability: quiet discards child
// output, verbose echoes the rendered command line and reports elapsed time.
// The policies differ in how the child's streams are wired and how its exit
// is observed:
//
//	               No error                  Error                     Notes
//	               Default  Quiet  Verbose   Default  Quiet  Verbose
//	RunTerminal    Y        N      Y         Y        N      Y         (inherits terminal)
//	RunSuppress    N        N      Y         Y        N      Y         (buffered text only)
//
// TimeoutRunner.Run behaves like RunTerminal with an optional bound on the
// wait, and RunPiped hands the live child back to the caller.
package process

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Verbosity is the output capability every policy accepts.
type Verbosity interface {
	Quiet() bool
	Verbose() bool
	// IsSet reports Quiet() || Verbose().
	IsSet() bool
}

// Real streams of this process. Tests swap them to observe output.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// WithTimer runs fn and, when verbose, prints how long it took.
func WithTimer[T any](v Verbosity, fn func() T, description string) T {
	start := time.Now()
	ret := fn()
	if v.Verbose() {
		fmt.Fprintf(stdout, "Finished %s in %.3fs\n", description, time.Since(start).Seconds())
	}
	return ret
}
