// Package display centralizes user-facing terminal output for proofdriver.
//
// # Operation Banners
//
// Long-running steps announce themselves with a highlighted verb:
//
//	display.Operation(os.Stdout, "Building", "tests/replay.rs")
//
// # Artifact Reports
//
// Playback reports the produced test binary as exactly one stdout line,
// either human readable or machine readable:
//
//	Executable /work/proof_concrete_playback
//	{"artifact":"/work/proof_concrete_playback"}
//
// The report line never carries color so that it stays parseable.
//
// # Warning Messages
//
//	warning := display.Warning{
//	    Title:      "Harness timed out",
//	    Message:    "check_vec_push did not finish within 30s",
//	    Suggestion: "Raise --harness-timeout",
//	}
//	warning.Display(os.Stderr)
//
// Colors come from fatih/color and are disabled automatically when the
// output is not a terminal or NO_COLOR is set.
package display
