package playback

import "strings"

// rustflagsSeparator separates entries of CARGO_ENCODED_RUSTFLAGS.
const rustflagsSeparator = "\x1f"

// Environment handed to the build tool.
const (
	envCompiler       = "RUSTC"
	envEncodedFlags   = "CARGO_ENCODED_RUSTFLAGS"
	envProgressWhen   = "CARGO_TERM_PROGRESS_WHEN"
	progressWhenNever = "never"
)

// baseCompilerFlags are the flags every playback compilation needs, with
// libDir holding the prebuilt playback support library.
func baseCompilerFlags(libDir string) []string {
	return []string{
		"-C", "overflow-checks=on",
		"-C", "panic=abort",
		"-C", "symbol-mangling-version=v0",
		"-Z", "unstable-options",
		"-Z", "panic_abort_tests=yes",
		"--check-cfg=cfg(proof)",
		"-L", libDir,
		"--extern", "proof",
	}
}

// configArgs are build tool settings that keep playback builds consistent
// with the compiler flags.
func configArgs() []string {
	return []string{
		"-Zunstable-options",
		`--config=profile.dev.panic="abort"`,
		`--config=profile.test.panic="abort"`,
	}
}

// encodeFlags joins compiler flags the way the build tool expects them in
// CARGO_ENCODED_RUSTFLAGS.
func encodeFlags(flags []string) string {
	return strings.Join(flags, rustflagsSeparator)
}
