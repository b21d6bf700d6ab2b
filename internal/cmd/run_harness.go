package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/harrison/proofdriver/internal/display"
	"github.com/harrison/proofdriver/internal/logger"
	"github.com/harrison/proofdriver/internal/models"
	"github.com/harrison/proofdriver/internal/process"
	"github.com/harrison/proofdriver/internal/session"
)

// Environment handed to the checker.
const (
	envOutput        = "PROOFDRIVER_OUTPUT"
	envSolver        = "PROOFDRIVER_SOLVER"
	envReachability  = "PROOFDRIVER_REACHABILITY"
	envCompilerFlags = "PROOFDRIVER_COMPILER_FLAGS"
)

var log = logger.Named("cmd")

// NewRunHarnessCommand creates the run-harness command
func NewRunHarnessCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run-harness [flags] -- <checker> [args...]",
		Short: "Run a harness checker under the session time bound",
		Long: `Run a harness checker as a child process with the terminal attached,
killing it if it exceeds the harness timeout.

The checker receives a scratch file path in PROOFDRIVER_OUTPUT, the solver
name in PROOFDRIVER_SOLVER and the reachability mode in
PROOFDRIVER_REACHABILITY. Scratch files are removed when the run ends
unless --keep-temps is given.

Exit status is 3 when the harness timed out.

Examples:
  proofdriver run-harness -- ./check.sh vec_push
  proofdriver run-harness --harness-timeout 5m --solver cadical -- ./check.sh vec_push
  proofdriver run-harness --all-fns --compiler-flag=-Zstubbing -- ./check.sh`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: runHarness,
	}

	addCommonFlags(cmd)
	cmd.Flags().Duration("harness-timeout", 0, "Kill the checker after this long (0 = no timeout)")
	cmd.Flags().Bool("keep-temps", false, "Keep scratch files after the run")
	cmd.Flags().Bool("all-fns", false, "Analyze every reachable function, not only proof harnesses")
	cmd.Flags().StringArray("compiler-flag", nil, "Extra compiler flag for --all-fns discovery (repeatable)")
	cmd.Flags().String("solver", "", "Solver name passed to the checker")
	cmd.Flags().String("scratch-dir", "", "Directory for scratch files (default: system temp dir)")
	// Everything after the checker belongs to the checker.
	cmd.Flags().SetInterspersed(false)

	return cmd
}

func runHarness(cmd *cobra.Command, args []string) error {
	cfg, common, err := prepare(cmd)
	if err != nil {
		return err
	}

	var timeout *time.Duration
	if cmd.Flags().Changed("harness-timeout") {
		d, _ := cmd.Flags().GetDuration("harness-timeout")
		timeout = &d
	}
	var keepTemps *bool
	if cmd.Flags().Changed("keep-temps") {
		k, _ := cmd.Flags().GetBool("keep-temps")
		keepTemps = &k
	}
	var solver *string
	if cmd.Flags().Changed("solver") {
		s, _ := cmd.Flags().GetString("solver")
		solver = &s
	}
	cfg.MergeWithFlags(timeout, keepTemps, nil, solver)
	if err := cfg.Validate(); err != nil {
		return &UsageError{Err: err}
	}

	s, err := newSession(session.Config{
		Common:         common,
		KeepTemps:      cfg.KeepTemps,
		HarnessTimeout: cfg.HarnessTimeout,
		Solver:         cfg.Solver,
	})
	if err != nil {
		return err
	}
	defer s.Close()
	// An interrupt tears the session down, killing the checker's process group.
	stop := context.AfterFunc(cmd.Context(), func() { _ = s.Close() })
	defer stop()

	if allFns, _ := cmd.Flags().GetBool("all-fns"); allFns {
		flags, _ := cmd.Flags().GetStringArray("compiler-flag")
		s.WithDiscovery(&session.DiscoveryScope{CompilerFlags: flags})
	}

	scratchDir, _ := cmd.Flags().GetString("scratch-dir")
	if scratchDir == "" {
		scratchDir = os.TempDir()
	}

	spec := harnessCommand(s, args, s.ScratchFile(scratchDir, ".out"))
	program := args[0]

	outcome, err := s.RunTerminalTimeout(spec)
	if err != nil {
		return err
	}

	if outcome == process.OutcomeTimedOut {
		display.Warning{
			Title:      "Harness timed out",
			Message:    fmt.Sprintf("%s did not finish within %s", program, cfg.HarnessTimeout),
			Suggestion: "Raise --harness-timeout or harness_timeout in .proofdriver/config.yaml",
		}.Display(cmd.ErrOrStderr())
		return &HarnessTimeoutError{Program: program, Timeout: cfg.HarnessTimeout}
	}

	if cfg.KeepTemps && !common.Quiet() {
		display.Warning{
			Title: "Scratch files kept",
			Paths: s.TemporaryFiles(),
		}.Display(cmd.ErrOrStderr())
	}
	log.Debugf("%s finished: %s", program, outcome)
	return nil
}

// harnessCommand builds the checker invocation with the session's settings in its environment.
func harnessCommand(s *session.Session, args []string, scratch string) models.CommandSpec {
	spec := models.NewCommand(args[0], args[1:]...).
		WithEnv(envOutput, scratch).
		WithEnv(envReachability, s.ReachabilityMode().String())
	if s.Config.Solver != "" {
		spec = spec.WithEnv(envSolver, s.Config.Solver)
	}
	if scope := s.Discovery(); scope != nil && len(scope.CompilerFlags) > 0 {
		spec = spec.WithEnv(envCompilerFlags, shellquote.Join(scope.CompilerFlags...))
	}
	return spec
}
