package process

import (
	"bytes"
	"errors"
	"io"
	"os"
	"os/exec"
	"sort"

	"github.com/harrison/proofdriver/internal/logger"
	"github.com/harrison/proofdriver/internal/models"
)

var log = logger.Named("process")

// command builds an exec.Cmd from spec without wiring any streams.
func command(spec models.CommandSpec) *exec.Cmd {
	cmd := exec.Command(spec.Program, spec.Args...)
	cmd.Dir = spec.Dir

	if len(spec.Env) > 0 {
		keys := make([]string, 0, len(spec.Env))
		for k := range spec.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		env := os.Environ()
		for _, k := range keys {
			env = append(env, k+"="+spec.Env[k])
		}
		cmd.Env = env
	}
	return cmd
}

// wireTerminal connects the child to this process's streams, or discards its output when quiet.
func wireTerminal(v Verbosity, cmd *exec.Cmd) {
	cmd.Stdin = os.Stdin
	if v.Quiet() {
		cmd.Stdout = nil
		cmd.Stderr = nil
		return
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr
}

// checkWait converts the result of cmd.Wait/Run into the package's error taxonomy.
func checkWait(program string, err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Program: program, State: exitErr.ProcessState}
	}
	return &SpawnError{Program: program, Err: err}
}

// RunTerminal runs a job, leaving it outputting to the terminal (unless quiet),
// and fails if it cannot be started or exits unsuccessfully.
func RunTerminal(v Verbosity, spec models.CommandSpec) error {
	cmd := command(spec)
	wireTerminal(v, cmd)
	echoCommand(v, spec)

	return WithTimer(v, func() error {
		if err := cmd.Start(); err != nil {
			return &SpawnError{Program: spec.Program, Err: err}
		}
		log.Debugf("started %s (pid %d)", spec.Program, cmd.Process.Pid)
		return checkWait(spec.Program, cmd.Wait())
	}, spec.Program)
}

// RunSuppress runs a job but only shows its output if it fails.
//
// When the user picked an explicit verbosity this is exactly RunTerminal.
// Otherwise stdout and stderr are captured; on success they are dropped, on
// failure stdout then stderr are flushed to this process's stdout before the
// error is returned. A failure is never hidden.
func RunSuppress(v Verbosity, spec models.CommandSpec) error {
	if v.IsSet() {
		return RunTerminal(v, spec)
	}

	cmd := command(spec)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	return WithTimer(v, func() error {
		if err := cmd.Start(); err != nil {
			return &SpawnError{Program: spec.Program, Err: err}
		}
		err := checkWait(spec.Program, cmd.Wait())
		if err != nil && IsExitError(err) {
			// Interleaving between the two streams is not preserved.
			_, _ = stdout.Write(outBuf.Bytes())
			_, _ = stdout.Write(errBuf.Bytes())
		}
		return err
	}, spec.Program)
}

// Child is a running process started by RunPiped.
type Child struct {
	Cmd     *exec.Cmd
	Stdout  io.ReadCloser // Child's stdout, to be consumed by the caller
	program string
}

// Pid returns the child's process id.
func (c *Child) Pid() int {
	return c.Cmd.Process.Pid
}

// Wait waits for the child to exit. An unsuccessful exit is reported as an *ExitError.
// Callers must drain Stdout before calling Wait.
func (c *Child) Wait() error {
	return checkWait(c.program, c.Cmd.Wait())
}

// RunPiped starts a job with its stdout piped back to this process and returns
// without waiting. Only a failure to start is reported; the caller owns the
// child and must check its exit status itself.
func RunPiped(v Verbosity, spec models.CommandSpec) (*Child, error) {
	echoCommand(v, spec)

	cmd := command(spec)
	cmd.Stderr = stderr
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &SpawnError{Program: spec.Program, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Program: spec.Program, Err: err}
	}
	return &Child{Cmd: cmd, Stdout: out, program: spec.Program}, nil
}
