package playback

import (
	"github.com/harrison/proofdriver/internal/install"
	"github.com/harrison/proofdriver/internal/models"
	"github.com/harrison/proofdriver/internal/process"
)

// projectCommand builds the build tool invocation that compiles (and unless
// compile-only, runs) the playback tests of a project.
func projectCommand(paths *install.Paths, opts Options, project ProjectArgs) (models.CommandSpec, error) {
	if _, err := paths.BuildTool(); err != nil {
		return models.CommandSpec{}, err
	}
	lib, err := paths.Library(install.LibraryPlayback)
	if err != nil {
		return models.CommandSpec{}, err
	}
	cmd, err := install.BuildToolCommand(paths.Topology, "")
	if err != nil {
		return models.CommandSpec{}, err
	}

	cmd = cmd.Arg("test")
	if opts.Common.Verbose() {
		cmd = cmd.Arg("-vv")
	} else if opts.Common.Quiet() {
		cmd = cmd.Arg("--quiet")
	}
	if opts.MessageFormat == models.MessageFormatJSON {
		cmd = cmd.Arg("--message-format=json")
	}
	if opts.Action == ActionCompileOnly {
		cmd = cmd.Arg("--no-run")
	}
	if project != nil {
		cmd = cmd.Arg(project.BuildToolArgs()...)
	}
	cmd = cmd.Arg(configArgs()...)

	// Test arguments must come last.
	if len(opts.TestArgs) > 0 {
		cmd = cmd.Arg("--").Arg(opts.TestArgs...)
	}

	return cmd.
		WithEnv(envCompiler, paths.Compiler).
		WithEnv(envEncodedFlags, encodeFlags(baseCompilerFlags(lib))).
		WithEnv(envProgressWhen, progressWhenNever), nil
}

// RunProject runs the playback tests of a project through the build tool,
// using the verification compiler for every crate.
func RunProject(paths *install.Paths, opts Options, project ProjectArgs) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	cmd, err := projectCommand(paths, opts, project)
	if err != nil {
		return err
	}
	log.Debugf("project playback: action=%s", opts.Action)
	return process.RunTerminal(opts.Common, cmd)
}
