package install

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harrison/proofdriver/internal/models"
)

// Sampling-profiler settings for debugging compiler performance.
const (
	FlamegraphEnvVar      = "FLAMEGRAPH"
	flamegraphDir         = "flamegraphs"
	flamegraphSamplingHz  = "8000"
	flamegraphCompilerKey = "compiler"
	profilerProgram       = "samply"
)

// BuildToolCommand returns the base command used to invoke the build tool.
//
// In a development checkout the build tool comes from PATH with the pinned
// toolchain selector. When FLAMEGRAPH=compiler and profileName is non-empty
// the invocation is wrapped in a sampling profiler that saves its output under
// flamegraphs/. Release bundles always run their bundled build tool directly.
func BuildToolCommand(t Topology, profileName string) (models.CommandSpec, error) {
	switch t := t.(type) {
	case DevCheckout:
		if profileName != "" && os.Getenv(FlamegraphEnvVar) == flamegraphCompilerKey {
			return profiledBuildTool(profileName, time.Now())
		}
		return models.NewCommand(buildToolName, ToolchainShorthand()), nil
	case ReleaseBundle:
		return models.NewCommand(filepath.Join(t.BundleRoot, toolchainBinDir, buildToolName)), nil
	default:
		return models.CommandSpec{}, fmt.Errorf("unsupported topology %T", t)
	}
}

func profiledBuildTool(profileName string, now time.Time) (models.CommandSpec, error) {
	if err := os.MkdirAll(flamegraphDir, 0755); err != nil {
		return models.CommandSpec{}, fmt.Errorf("create flamegraph directory: %w", err)
	}

	out := fmt.Sprintf("%s/compiler-%s-%s.json.gz", flamegraphDir, profileName, now.Format("2006-01-02T15:04:05"))
	log.Debugf("profiling build tool invocation into %s", out)

	return models.NewCommand(profilerProgram,
		"record",
		"-r", flamegraphSamplingHz,
		"-o", out,
		"--save-only",
		buildToolName, ToolchainShorthand(),
	), nil
}
