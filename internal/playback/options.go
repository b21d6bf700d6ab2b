// Package playback compiles and runs concrete playback tests.
//
// A concrete playback test replays a counterexample found by the verifier as
// an ordinary unit test. Two workflows exist: Project drives the build tool
// over a whole package, and Standalone compiles a single source file with the
// verification compiler, reports the produced binary, and optionally runs it.
package playback

import (
	"fmt"
	"strings"

	"github.com/harrison/proofdriver/internal/logger"
	"github.com/harrison/proofdriver/internal/models"
)

var log = logger.Named("playback")

// Action selects how far a playback goes.
type Action int

const (
	// ActionRun builds the test and then runs it.
	ActionRun Action = iota
	// ActionCompileOnly stops once the test binary is built.
	ActionCompileOnly
)

// String returns a readable action name.
func (a Action) String() string {
	switch a {
	case ActionCompileOnly:
		return "compile-only"
	default:
		return "run"
	}
}

// Options are shared by both playback workflows.
type Options struct {
	Common        models.CommonArgs
	MessageFormat models.MessageFormat
	Action        Action
	TestArgs      []string // Passed to the test binary, after any driver-added flags
}

// Validate rejects contradictory options.
func (o Options) Validate() error {
	if err := o.Common.Validate(); err != nil {
		return err
	}
	switch o.MessageFormat {
	case models.MessageFormatHuman, models.MessageFormatJSON:
	default:
		return fmt.Errorf("invalid message format %q", o.MessageFormat)
	}
	return nil
}

// StandaloneOptions configure a single-file playback.
type StandaloneOptions struct {
	Options
	Input   string // Source file holding the playback test
	WorkDir string // Directory the test binary is written to (empty = current dir)
}

// ProjectArgs contributes package selection arguments to the build tool.
type ProjectArgs interface {
	BuildToolArgs() []string
}

// CargoProjectArgs selects which packages of a workspace are tested.
type CargoProjectArgs struct {
	ManifestPath string
	Packages     []string
	Features     []string
	AllFeatures  bool
	Workspace    bool
}

// BuildToolArgs renders the selection as build tool flags.
func (c CargoProjectArgs) BuildToolArgs() []string {
	var args []string
	if c.ManifestPath != "" {
		args = append(args, "--manifest-path", c.ManifestPath)
	}
	if c.Workspace {
		args = append(args, "--workspace")
	}
	for _, pkg := range c.Packages {
		args = append(args, "--package", pkg)
	}
	if c.AllFeatures {
		args = append(args, "--all-features")
	} else if len(c.Features) > 0 {
		args = append(args, "--features", strings.Join(c.Features, ","))
	}
	return args
}
