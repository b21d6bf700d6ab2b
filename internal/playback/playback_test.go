package playback

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/proofdriver/internal/install"
	"github.com/harrison/proofdriver/internal/models"
	"github.com/harrison/proofdriver/internal/process"
)

// fakeCompiler records its arguments and emits a test binary that records its own.
const fakeCompiler = `#!/bin/sh
printf '%s\n' "$@" > compiler.args
cat > proof_concrete_playback <<'BIN'
#!/bin/sh
printf '%s\n' "$@" > run.args
BIN
chmod +x proof_concrete_playback
`

// fakeLayout is a release bundle whose compiler and build tool are scripts.
type fakeLayout struct {
	root  string
	paths *install.Paths
}

func writeScript(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0755))
}

func newFakeLayout(t *testing.T, compiler string) *fakeLayout {
	t.Helper()
	root := t.TempDir()
	writeScript(t, filepath.Join(root, "bin", "proof-compiler"), compiler)
	writeScript(t, filepath.Join(root, "toolchain", "bin", "cargo"),
		fmt.Sprintf("#!/bin/sh\nprintf '%%s\\n' \"$@\" > %s\necho \"$RUSTC\" > %s\n",
			filepath.Join(root, "cargo.args"), filepath.Join(root, "cargo.rustc")))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "library", "proof"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "library", "proof", "proof_lib.c"), nil, 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "playback", "lib"), 0755))

	paths, err := install.NewPaths(install.ReleaseBundle{BundleRoot: root})
	require.NoError(t, err)
	return &fakeLayout{root: root, paths: paths}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func noColor(t *testing.T) {
	t.Helper()
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })
}

func standaloneOpts(workDir string) StandaloneOptions {
	return StandaloneOptions{
		Options: Options{MessageFormat: models.MessageFormatHuman},
		Input:   "replay.rs",
		WorkDir: workDir,
	}
}

func canonical(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	return resolved
}

func TestRunStandaloneHumanRun(t *testing.T) {
	noColor(t)
	layout := newFakeLayout(t, fakeCompiler)
	work := t.TempDir()
	opts := standaloneOpts(work)
	opts.TestArgs = []string{"check_replay"}

	var out bytes.Buffer
	artifact, err := RunStandalone(testContext(t), layout.paths, opts, &out)
	require.NoError(t, err)

	want := canonical(t, filepath.Join(work, TestBinName))
	assert.Equal(t, want, artifact.Path)
	assert.Equal(t, "Building replay.rs\nExecutable "+want+"\n", out.String())
	assert.Equal(t, []string{"check_replay"}, readLines(t, filepath.Join(work, "run.args")))

	args := readLines(t, filepath.Join(work, "compiler.args"))
	assert.Contains(t, args, "--test")
	assert.Contains(t, args, "--crate-name="+TestBinName)
	assert.Contains(t, args, filepath.Join(layout.root, "playback", "lib"))
	assert.NotContains(t, args, "--verbose")
	assert.NotContains(t, args, "--error-format=json")
}

func TestRunStandaloneJSONReport(t *testing.T) {
	noColor(t)
	layout := newFakeLayout(t, fakeCompiler)
	work := t.TempDir()
	opts := standaloneOpts(work)
	opts.MessageFormat = models.MessageFormatJSON
	opts.Action = ActionCompileOnly

	var out bytes.Buffer
	artifact, err := RunStandalone(testContext(t), layout.paths, opts, &out)
	require.NoError(t, err)

	assert.Equal(t, `{"artifact":"`+artifact.Path+`"}`+"\n", out.String())
	assert.Equal(t, models.MessageFormatJSON, artifact.Format)
	assert.Contains(t, readLines(t, filepath.Join(work, "compiler.args")), "--error-format=json")
}

func TestRunStandaloneCompileOnlyNeverRuns(t *testing.T) {
	layout := newFakeLayout(t, fakeCompiler)
	work := t.TempDir()
	opts := standaloneOpts(work)
	opts.Action = ActionCompileOnly

	_, err := RunStandalone(testContext(t), layout.paths, opts, &bytes.Buffer{})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(work, TestBinName))
	assert.NoFileExists(t, filepath.Join(work, "run.args"))
}

func TestRunStandaloneQuietPrintsNothing(t *testing.T) {
	layout := newFakeLayout(t, fakeCompiler)
	work := t.TempDir()
	opts := standaloneOpts(work)
	opts.Common.QuietFlag = true

	var out bytes.Buffer
	_, err := RunStandalone(testContext(t), layout.paths, opts, &out)
	require.NoError(t, err)

	assert.Empty(t, out.String())
	assert.FileExists(t, filepath.Join(work, "run.args"))
}

func TestRunStandaloneVerboseAddsNocapture(t *testing.T) {
	tests := []struct {
		name     string
		testArgs []string
		want     []string
	}{
		{"injected before test args", []string{"check_replay"}, []string{"--nocapture", "check_replay"}},
		{"not repeated", []string{"--nocapture", "check_replay"}, []string{"--nocapture", "check_replay"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := newFakeLayout(t, fakeCompiler)
			work := t.TempDir()
			opts := standaloneOpts(work)
			opts.Common.VerboseFlag = true
			opts.TestArgs = tt.testArgs

			_, err := RunStandalone(testContext(t), layout.paths, opts, &bytes.Buffer{})
			require.NoError(t, err)

			assert.Equal(t, tt.want, readLines(t, filepath.Join(work, "run.args")))
			assert.Contains(t, readLines(t, filepath.Join(work, "compiler.args")), "--verbose")
		})
	}
}

func TestRunStandaloneCompilerFailure(t *testing.T) {
	layout := newFakeLayout(t, "#!/bin/sh\nexit 3\n")

	_, err := RunStandalone(testContext(t), layout.paths, standaloneOpts(t.TempDir()), &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, process.IsExitError(err))
}

func TestRunStandaloneMissingArtifact(t *testing.T) {
	layout := newFakeLayout(t, "#!/bin/sh\nexit 0\n")

	_, err := RunStandalone(testContext(t), layout.paths, standaloneOpts(t.TempDir()), &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, IsArtifactError(err))
	assert.Contains(t, err.Error(), TestBinName)
}

func TestRunStandaloneRejectsQuietVerbose(t *testing.T) {
	layout := newFakeLayout(t, fakeCompiler)
	opts := standaloneOpts(t.TempDir())
	opts.Common = models.CommonArgs{QuietFlag: true, VerboseFlag: true}

	_, err := RunStandalone(testContext(t), layout.paths, opts, &bytes.Buffer{})
	require.Error(t, err)
}

func TestRunStandaloneCancelledWhileLocked(t *testing.T) {
	layout := newFakeLayout(t, fakeCompiler)
	ctx, cancel := context.WithCancel(testContext(t))
	cancel()

	_, err := RunStandalone(ctx, layout.paths, standaloneOpts(t.TempDir()), &bytes.Buffer{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunStandaloneConcurrentSameDir(t *testing.T) {
	layout := newFakeLayout(t, fakeCompiler)
	work := t.TempDir()

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			opts := standaloneOpts(work)
			opts.Action = ActionCompileOnly
			_, errs[i] = RunStandalone(context.Background(), layout.paths, opts, &bytes.Buffer{})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestProjectCommand(t *testing.T) {
	layout := newFakeLayout(t, fakeCompiler)
	lib := filepath.Join(layout.root, "playback", "lib")
	project := CargoProjectArgs{Packages: []string{"core-utils"}, Features: []string{"a", "b"}}

	tests := []struct {
		name    string
		opts    Options
		prefix  []string
		trailer []string
	}{
		{
			name:   "default",
			opts:   Options{MessageFormat: models.MessageFormatHuman},
			prefix: []string{"test", "--package", "core-utils"},
		},
		{
			name:   "verbose json compile only",
			opts:   Options{Common: models.CommonArgs{VerboseFlag: true}, MessageFormat: models.MessageFormatJSON, Action: ActionCompileOnly},
			prefix: []string{"test", "-vv", "--message-format=json", "--no-run", "--package", "core-utils"},
		},
		{
			name:    "quiet with test args",
			opts:    Options{Common: models.CommonArgs{QuietFlag: true}, MessageFormat: models.MessageFormatHuman, TestArgs: []string{"check_replay", "--exact"}},
			prefix:  []string{"test", "--quiet", "--package", "core-utils"},
			trailer: []string{"--", "check_replay", "--exact"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := projectCommand(layout.paths, tt.opts, project)
			require.NoError(t, err)

			assert.Equal(t, filepath.Join(layout.root, "toolchain", "bin", "cargo"), cmd.Program)
			assert.Equal(t, tt.prefix, cmd.Args[:len(tt.prefix)])
			assert.Contains(t, cmd.Args, "--features")
			assert.Contains(t, cmd.Args, "a,b")
			for _, arg := range configArgs() {
				assert.Contains(t, cmd.Args, arg)
			}
			if tt.trailer == nil {
				assert.NotContains(t, cmd.Args, "--")
			} else {
				assert.Equal(t, tt.trailer, cmd.Args[len(cmd.Args)-len(tt.trailer):])
			}

			assert.Equal(t, layout.paths.Compiler, cmd.Env["RUSTC"])
			assert.Equal(t, "never", cmd.Env["CARGO_TERM_PROGRESS_WHEN"])
			assert.Equal(t, strings.Join(baseCompilerFlags(lib), "\x1f"), cmd.Env["CARGO_ENCODED_RUSTFLAGS"])
		})
	}
}

func TestRunProjectInvokesBuildTool(t *testing.T) {
	layout := newFakeLayout(t, fakeCompiler)
	opts := Options{MessageFormat: models.MessageFormatHuman, TestArgs: []string{"check_replay"}}

	require.NoError(t, RunProject(layout.paths, opts, CargoProjectArgs{Workspace: true}))

	args := readLines(t, filepath.Join(layout.root, "cargo.args"))
	assert.Equal(t, "test", args[0])
	assert.Contains(t, args, "--workspace")
	assert.Equal(t, []string{"--", "check_replay"}, args[len(args)-2:])
	assert.Equal(t, []string{layout.paths.Compiler}, readLines(t, filepath.Join(layout.root, "cargo.rustc")))
}

func TestRunProjectMissingBuildTool(t *testing.T) {
	layout := newFakeLayout(t, fakeCompiler)
	require.NoError(t, os.Remove(filepath.Join(layout.root, "toolchain", "bin", "cargo")))

	err := RunProject(layout.paths, Options{MessageFormat: models.MessageFormatHuman}, nil)
	require.Error(t, err)
	assert.True(t, install.IsInstallationError(err))
}

func TestCargoProjectArgs(t *testing.T) {
	tests := []struct {
		name string
		args CargoProjectArgs
		want []string
	}{
		{"empty", CargoProjectArgs{}, nil},
		{"manifest and workspace", CargoProjectArgs{ManifestPath: "x/Cargo.toml", Workspace: true}, []string{"--manifest-path", "x/Cargo.toml", "--workspace"}},
		{"all features wins", CargoProjectArgs{Features: []string{"a"}, AllFeatures: true}, []string{"--all-features"}},
		{"packages", CargoProjectArgs{Packages: []string{"a", "b"}}, []string{"--package", "a", "--package", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.args.BuildToolArgs())
		})
	}
}
