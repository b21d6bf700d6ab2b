// Package logger provides the process-wide diagnostics output for proofdriver.
//
// Diagnostics are leveled and tagged with the component that produced them
// (session, playback, process, ...). Which messages are shown is decided by a
// Filter parsed from the PROOFDRIVER_LOG environment variable, optionally
// raised to debug by the --debug flag. The logger is installed once per
// process with Init; components obtain a handle with Named.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
	levelOff   int = 5
)

// ConsoleLogger writes diagnostics to a writer with timestamps and thread safety.
// Output format: "[HH:MM:SS] [LEVEL] component: message".
// Color output is enabled only for os.Stderr when stdout is a terminal.
type ConsoleLogger struct {
	writer      io.Writer
	filter      Filter
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
func NewConsoleLogger(writer io.Writer, filter Filter) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		filter:      filter,
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks whether diagnostics written to w should carry ANSI colors.
// Keys off stdout rather than the log stream itself.
func isTerminal(w io.Writer) bool {
	if w != os.Stderr {
		return false
	}
	if color.NoColor {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "" for unknown levels so callers can reject them.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	if normalized == "warning" {
		normalized = "warn"
	}

	switch normalized {
	case "trace", "debug", "info", "warn", "error", "off":
		return normalized
	}
	return ""
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	case "off":
		return levelOff
	default:
		return levelInfo
	}
}

// Enabled reports whether a message at level from component would be written.
func (cl *ConsoleLogger) Enabled(component, level string) bool {
	if cl == nil || cl.writer == nil {
		return false
	}
	return cl.filter.Enabled(component, level)
}

// Log writes message at level for component if the filter allows it.
func (cl *ConsoleLogger) Log(component, level, message string) {
	if !cl.Enabled(component, level) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	upper := strings.ToUpper(level)

	var formatted string
	if cl.colorOutput {
		formatted = cl.formatWithColor(ts, upper, component, message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s: %s\n", ts, upper, component, message)
	}

	_, _ = cl.writer.Write([]byte(formatted))
}

// formatWithColor formats a log message with ANSI color codes.
func (cl *ConsoleLogger) formatWithColor(ts, level, component, message string) string {
	var coloredLevel string

	switch level {
	case "TRACE":
		coloredLevel = color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		coloredLevel = color.New(color.FgCyan).Sprint(level)
	case "INFO":
		coloredLevel = color.New(color.FgBlue).Sprint(level)
	case "WARN":
		coloredLevel = color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		coloredLevel = color.New(color.FgRed).Sprint(level)
	default:
		coloredLevel = level
	}

	target := color.New(color.Faint).Sprint(component + ":")
	return fmt.Sprintf("[%s] [%s] %s %s\n", ts, coloredLevel, target, message)
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}
