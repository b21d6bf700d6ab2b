package models

import (
	"fmt"
	"strings"
)

// CommonArgs holds the verbosity flags shared by every subcommand.
type CommonArgs struct {
	QuietFlag   bool // Suppress subprocess output and reports
	VerboseFlag bool // Echo commands and timings
	Debug       bool // Debug diagnostics; implies verbose
}

// Quiet reports whether output should be suppressed.
func (c CommonArgs) Quiet() bool {
	return c.QuietFlag
}

// Verbose reports whether commands and timings should be echoed.
// Debug mode is always verbose.
func (c CommonArgs) Verbose() bool {
	return c.VerboseFlag || c.Debug
}

// IsSet reports whether the user picked an explicit verbosity in either direction.
func (c CommonArgs) IsSet() bool {
	return c.Quiet() || c.Verbose()
}

// Validate rejects contradictory verbosity flags.
func (c CommonArgs) Validate() error {
	if c.QuietFlag && c.Verbose() {
		return fmt.Errorf("--quiet cannot be combined with --verbose or --debug")
	}
	return nil
}

// MessageFormat selects how results are reported on stdout.
type MessageFormat string

const (
	MessageFormatHuman MessageFormat = "human"
	MessageFormatJSON  MessageFormat = "json"
)

// ParseMessageFormat converts a flag value into a MessageFormat (case-insensitive).
func ParseMessageFormat(s string) (MessageFormat, error) {
	switch MessageFormat(strings.ToLower(strings.TrimSpace(s))) {
	case MessageFormatHuman, "":
		return MessageFormatHuman, nil
	case MessageFormatJSON:
		return MessageFormatJSON, nil
	default:
		return "", fmt.Errorf("invalid message format %q, must be one of: human, json", s)
	}
}

// ReachabilityMode determines which symbols the backend compiler keeps.
type ReachabilityMode int

const (
	// ReachabilityProofHarnesses keeps only code reachable from proof harnesses.
	ReachabilityProofHarnesses ReachabilityMode = iota
	// ReachabilityAllFns keeps every reachable function.
	ReachabilityAllFns
)

// String returns the compiler-facing name of the mode.
func (m ReachabilityMode) String() string {
	switch m {
	case ReachabilityAllFns:
		return "all_fns"
	case ReachabilityProofHarnesses:
		return "harnesses"
	default:
		return "unknown"
	}
}
