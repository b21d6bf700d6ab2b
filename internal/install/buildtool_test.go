package install

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildToolCommandRelease(t *testing.T) {
	t.Setenv(FlamegraphEnvVar, "compiler")

	spec, err := BuildToolCommand(ReleaseBundle{BundleRoot: "/opt/pd"}, "playback")
	require.NoError(t, err)
	assert.Equal(t, "/opt/pd/toolchain/bin/cargo", spec.Program)
	assert.Empty(t, spec.Args, "release bundles never wrap the build tool")
}

func TestBuildToolCommandDev(t *testing.T) {
	t.Setenv(FlamegraphEnvVar, "")
	dev := DevCheckout{RepoRoot: "/src", Bin: "/src/target/proofdriver/bin"}

	spec, err := BuildToolCommand(dev, "playback")
	require.NoError(t, err)
	assert.Equal(t, "cargo", spec.Program)
	assert.Equal(t, []string{"+" + Toolchain}, spec.Args)
}

func TestBuildToolCommandDevProfiled(t *testing.T) {
	t.Setenv(FlamegraphEnvVar, "compiler")
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	dev := DevCheckout{RepoRoot: "/src", Bin: "/src/target/proofdriver/bin"}

	spec, err := BuildToolCommand(dev, "")
	require.NoError(t, err)
	assert.Equal(t, "cargo", spec.Program, "no profile name means no profiler")

	spec, err = BuildToolCommand(dev, "playback")
	require.NoError(t, err)
	assert.Equal(t, profilerProgram, spec.Program)
	assert.Equal(t, "record", spec.Args[0])
	assert.Contains(t, spec.Args, "--save-only")
	assert.Equal(t, []string{"cargo", "+" + Toolchain}, spec.Args[len(spec.Args)-2:])
	assert.DirExists(t, filepath.Join(dir, flamegraphDir))
}

func TestProfiledBuildToolOutputName(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	now := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	spec, err := profiledBuildTool("harness", now)
	require.NoError(t, err)
	assert.Contains(t, spec.Args, "flamegraphs/compiler-harness-2026-03-01T12:30:00.json.gz")
	assert.Contains(t, spec.Args, flamegraphSamplingHz)
}
