package playback

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/harrison/proofdriver/internal/display"
	"github.com/harrison/proofdriver/internal/filelock"
	"github.com/harrison/proofdriver/internal/install"
	"github.com/harrison/proofdriver/internal/models"
	"github.com/harrison/proofdriver/internal/process"
)

// TestBinName is the crate name, and therefore the file name, of every
// standalone playback binary.
const TestBinName = "proof_concrete_playback"

const nocaptureFlag = "--nocapture"

// RunStandalone builds the playback test in opts.Input, reports the binary on
// out unless quiet, and runs it unless the action is compile-only.
//
// Builds into the same directory are serialized since they share the fixed
// output name.
func RunStandalone(ctx context.Context, paths *install.Paths, opts StandaloneOptions, out io.Writer) (models.PlaybackArtifact, error) {
	if err := opts.Validate(); err != nil {
		return models.PlaybackArtifact{}, err
	}
	trace(StageStart, opts.Input)

	lock, err := filelock.ForOutput(workDir(opts), TestBinName)
	if err != nil {
		return models.PlaybackArtifact{}, err
	}
	log.Debugf("acquiring build lock %s", lock.Path())
	if err := lock.LockContext(ctx); err != nil {
		return models.PlaybackArtifact{}, err
	}
	defer func() { _ = lock.Unlock() }()

	artifact, err := buildTest(paths, opts, out)
	if err != nil {
		return models.PlaybackArtifact{}, err
	}
	trace(StageBuilt, artifact.Path)

	if !opts.Common.Quiet() {
		if err := display.PrintArtifact(out, artifact); err != nil {
			return artifact, fmt.Errorf("report artifact: %w", err)
		}
		trace(StageReported, artifact.Path)
	}

	if opts.Action == ActionCompileOnly {
		trace(StageSkippedRun, artifact.Path)
		return artifact, nil
	}

	if err := process.RunTerminal(opts.Common, runCommand(artifact, opts)); err != nil {
		return artifact, err
	}
	trace(StageRan, artifact.Path)
	return artifact, nil
}

func workDir(opts StandaloneOptions) string {
	if opts.WorkDir == "" {
		return "."
	}
	return opts.WorkDir
}

// compileCommand builds the compiler invocation for a standalone playback test.
func compileCommand(paths *install.Paths, opts StandaloneOptions) (models.CommandSpec, error) {
	lib, err := paths.Library(install.LibraryPlayback)
	if err != nil {
		return models.CommandSpec{}, err
	}

	input := opts.Input
	if opts.WorkDir != "" {
		if input, err = filepath.Abs(opts.Input); err != nil {
			return models.CommandSpec{}, fmt.Errorf("resolve %s: %w", opts.Input, err)
		}
	}

	cmd := models.NewCommand(paths.Compiler, baseCompilerFlags(lib)...).
		Arg("--test", input, "--crate-name="+TestBinName)
	if opts.Common.Verbose() {
		cmd = cmd.Arg("--verbose")
	}
	if opts.MessageFormat == models.MessageFormatJSON {
		cmd = cmd.Arg("--error-format=json")
	}
	return cmd.InDir(opts.WorkDir), nil
}

func buildTest(paths *install.Paths, opts StandaloneOptions, out io.Writer) (models.PlaybackArtifact, error) {
	// In JSON mode the report line is the only thing written to out.
	if !opts.Common.Quiet() && opts.MessageFormat != models.MessageFormatJSON {
		display.Operation(out, "Building", opts.Input)
	}

	cmd, err := compileCommand(paths, opts)
	if err != nil {
		return models.PlaybackArtifact{}, err
	}
	if err := process.RunTerminal(opts.Common, cmd); err != nil {
		return models.PlaybackArtifact{}, err
	}

	path, err := canonicalize(filepath.Join(workDir(opts), TestBinName))
	if err != nil {
		return models.PlaybackArtifact{}, err
	}
	return models.PlaybackArtifact{Path: path, Format: opts.MessageFormat}, nil
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &ArtifactError{Path: path, Err: err}
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", &ArtifactError{Path: abs, Err: err}
	}
	return resolved, nil
}

// runCommand builds the invocation of a playback test binary.
func runCommand(artifact models.PlaybackArtifact, opts StandaloneOptions) models.CommandSpec {
	cmd := models.NewCommand(artifact.Path)
	// The test harness rejects a repeated --nocapture.
	if opts.Common.Verbose() && !slices.Contains(opts.TestArgs, nocaptureFlag) {
		cmd = cmd.Arg(nocaptureFlag)
	}
	return cmd.Arg(opts.TestArgs...).InDir(opts.WorkDir)
}
