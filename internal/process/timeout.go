package process

import (
	"context"
	"time"

	"github.com/harrison/proofdriver/internal/models"
)

// Outcome is how a timeout-bound run ended when it did not fail.
type Outcome int

const (
	// OutcomeCompleted means the child exited successfully before the bound.
	OutcomeCompleted Outcome = iota
	// OutcomeTimedOut means the bound expired first; the child was killed and reaped.
	OutcomeTimedOut
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeTimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// TimeoutRunner is the execution substrate for timeout-bound waits.
// One runner is created per session and reused for every harness run.
// Close cancels the substrate; children still running are killed.
type TimeoutRunner struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewTimeoutRunner creates a runner bound to parent.
func NewTimeoutRunner(parent context.Context) *TimeoutRunner {
	ctx, cancel := context.WithCancel(parent)
	return &TimeoutRunner{ctx: ctx, cancel: cancel}
}

// Close shuts the substrate down. Safe to call more than once.
func (r *TimeoutRunner) Close() {
	r.cancel()
}

// Run is RunTerminal with the wait bounded by timeout.
//
// A zero or negative timeout means no bound and behaves exactly like
// RunTerminal. Otherwise the child's exit races the bound: if the child wins
// the result is reported as RunTerminal would; if the bound wins the child's
// process group is killed and reaped, and OutcomeTimedOut is returned with a
// nil error. A timeout is not a failure; the caller decides what it means.
func (r *TimeoutRunner) Run(v Verbosity, spec models.CommandSpec, timeout time.Duration) (Outcome, error) {
	if timeout <= 0 {
		return OutcomeCompleted, RunTerminal(v, spec)
	}

	cmd := command(spec)
	wireTerminal(v, cmd)
	// A child in its own process group must not read the terminal.
	cmd.Stdin = nil
	echoCommand(v, spec)
	setProcessGroup(cmd)

	timeoutCtx, cancelTimeout := context.WithTimeout(r.ctx, timeout)
	defer cancelTimeout()

	outcome := OutcomeCompleted
	err := WithTimer(v, func() error {
		if err := cmd.Start(); err != nil {
			return &SpawnError{Program: spec.Program, Err: err}
		}

		waitDone := make(chan error, 1)
		go func() {
			waitDone <- cmd.Wait()
		}()

		select {
		case err := <-waitDone:
			return checkWait(spec.Program, err)
		case <-timeoutCtx.Done():
			killProcessGroup(cmd)
			<-waitDone
			if r.ctx.Err() != nil {
				return &CancelledError{Program: spec.Program}
			}
			log.Infof("%s timed out after %v", spec.Program, timeout)
			outcome = OutcomeTimedOut
			return nil
		}
	}, spec.Program)

	return outcome, err
}
