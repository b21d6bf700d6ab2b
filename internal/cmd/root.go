package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for proofdriver
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proofdriver",
		Short: "Driver for the bounded model-checking toolchain",
		Long: `proofdriver locates the verification toolchain it was installed with,
runs the checker on proof harnesses under a time bound, and compiles and
replays concrete playback tests generated from counterexamples.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		// main prints the error once
		SilenceErrors: true,
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	// Add subcommands
	cmd.AddCommand(NewPlaybackCommand())
	cmd.AddCommand(NewCargoPlaybackCommand())
	cmd.AddCommand(NewRunHarnessCommand())
	cmd.AddCommand(NewLocateCommand())

	return cmd
}
