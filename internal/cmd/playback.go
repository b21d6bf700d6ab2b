package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harrison/proofdriver/internal/config"
	"github.com/harrison/proofdriver/internal/models"
	"github.com/harrison/proofdriver/internal/playback"
)

// NewPlaybackCommand creates the playback command
func NewPlaybackCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playback <input> [-- test-args...]",
		Short: "Compile and run a concrete playback test",
		Long: `Compile a single source file holding a concrete playback test with the
verification compiler, report the produced test binary, and run it.

Arguments after the input are passed to the test binary.

Examples:
  proofdriver playback tests/replay.rs
  proofdriver playback tests/replay.rs -- check_vec_push --exact
  proofdriver playback --only-codegen --message-format json tests/replay.rs`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: runPlayback,
	}

	addCommonFlags(cmd)
	addPlaybackFlags(cmd)

	return cmd
}

// playbackOptions builds the shared playback options from flags and config.
func playbackOptions(cmd *cobra.Command, cfg *config.Config, common models.CommonArgs, testArgs []string) (playback.Options, error) {
	if err := messageFormat(cmd, cfg); err != nil {
		return playback.Options{}, err
	}
	if err := cfg.Validate(); err != nil {
		return playback.Options{}, err
	}

	action := playback.ActionRun
	if onlyCodegen, _ := cmd.Flags().GetBool("only-codegen"); onlyCodegen {
		action = playback.ActionCompileOnly
	}

	return playback.Options{
		Common:        common,
		MessageFormat: cfg.MessageFormat,
		Action:        action,
		TestArgs:      append(append([]string(nil), cfg.Playback.TestArgs...), testArgs...),
	}, nil
}

func runPlayback(cmd *cobra.Command, args []string) error {
	cfg, common, err := prepare(cmd)
	if err != nil {
		return err
	}
	opts, err := playbackOptions(cmd, cfg, common, args[1:])
	if err != nil {
		return err
	}

	paths, err := locate()
	if err != nil {
		return err
	}

	_, err = playback.RunStandalone(cmd.Context(), paths, playback.StandaloneOptions{
		Options: opts,
		Input:   args[0],
	}, cmd.OutOrStdout())
	return err
}

// NewCargoPlaybackCommand creates the cargo-playback command
func NewCargoPlaybackCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cargo-playback [-- test-args...]",
		Short: "Run the concrete playback tests of a package",
		Long: `Run the concrete playback tests of a package through the build tool,
compiling every crate with the verification compiler.

Examples:
  proofdriver cargo-playback
  proofdriver cargo-playback -p core-utils -- check_vec_push
  proofdriver cargo-playback --workspace --only-codegen`,
		RunE: runCargoPlayback,
	}

	addCommonFlags(cmd)
	addPlaybackFlags(cmd)
	cmd.Flags().String("manifest-path", "", "Path to the package manifest")
	cmd.Flags().StringSliceP("package", "p", nil, "Package to test (repeatable)")
	cmd.Flags().StringSlice("features", nil, "Features to enable")
	cmd.Flags().Bool("all-features", false, "Enable all features")
	cmd.Flags().Bool("workspace", false, "Test every package in the workspace")

	return cmd
}

func runCargoPlayback(cmd *cobra.Command, args []string) error {
	cfg, common, err := prepare(cmd)
	if err != nil {
		return err
	}
	opts, err := playbackOptions(cmd, cfg, common, args)
	if err != nil {
		return err
	}

	manifest, _ := cmd.Flags().GetString("manifest-path")
	packages, _ := cmd.Flags().GetStringSlice("package")
	features, _ := cmd.Flags().GetStringSlice("features")
	allFeatures, _ := cmd.Flags().GetBool("all-features")
	workspace, _ := cmd.Flags().GetBool("workspace")

	paths, err := locate()
	if err != nil {
		return err
	}

	return playback.RunProject(paths, opts, playback.CargoProjectArgs{
		ManifestPath: manifest,
		Packages:     packages,
		Features:     features,
		AllFeatures:  allFeatures,
		Workspace:    workspace,
	})
}
