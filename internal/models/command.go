package models

// CommandSpec describes a single subprocess invocation.
// Specs are built by callers and consumed once by an execution policy.
type CommandSpec struct {
	Program string            // Executable name or path
	Args    []string          // Ordered arguments
	Env     map[string]string // Overrides layered on top of the inherited environment
	Dir     string            // Working directory (empty = current dir)
}

// NewCommand creates a CommandSpec for program with the given arguments.
func NewCommand(program string, args ...string) CommandSpec {
	return CommandSpec{Program: program, Args: append([]string(nil), args...)}
}

// Arg appends arguments and returns the spec for chaining.
func (c CommandSpec) Arg(args ...string) CommandSpec {
	c.Args = append(append([]string(nil), c.Args...), args...)
	return c
}

// WithEnv returns a copy of the spec with key=value added to the overrides.
func (c CommandSpec) WithEnv(key, value string) CommandSpec {
	env := make(map[string]string, len(c.Env)+1)
	for k, v := range c.Env {
		env[k] = v
	}
	env[key] = value
	c.Env = env
	return c
}

// InDir returns a copy of the spec that runs in dir.
func (c CommandSpec) InDir(dir string) CommandSpec {
	c.Dir = dir
	return c
}

// PlaybackArtifact is an executable produced by a playback build.
type PlaybackArtifact struct {
	Path   string        // Canonical absolute path of the test binary
	Format MessageFormat // Format used when reporting the artifact
}
