package logger

import (
	"fmt"
	"io"
	"sync"
)

// EnvVar is the environment variable holding the diagnostics filter spec.
const EnvVar = "PROOFDRIVER_LOG"

var (
	globalMu sync.RWMutex
	global   *ConsoleLogger
)

// Init installs the process-wide logger writing to w.
//
// It takes effect at most once per process: later calls are ignored and
// return false. An unparsable spec falls back to the default filter and the
// problem is reported as a warning through the freshly installed logger.
func Init(w io.Writer, spec string, debug bool) bool {
	globalMu.Lock()
	if global != nil {
		globalMu.Unlock()
		return false
	}

	filter, err := ParseFilter(spec, debug)
	if err != nil {
		filter, _ = ParseFilter("", debug)
	}
	global = NewConsoleLogger(w, filter)
	globalMu.Unlock()

	if err != nil {
		Named("logger").Warnf("ignoring %s: %v", EnvVar, err)
	}
	return true
}

// Initialized reports whether Init has installed a logger.
func Initialized() bool {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global != nil
}

// ResetForTesting removes the process-wide logger so tests can call Init again.
func ResetForTesting() {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = nil
}

func current() *ConsoleLogger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// Logger is a component-scoped handle on the process-wide logger.
// Handles are cheap and may be created before Init; messages logged
// before Init are discarded.
type Logger struct {
	component string
}

// Named returns a handle that tags messages with component.
func Named(component string) *Logger {
	return &Logger{component: component}
}

// Enabled reports whether a message at level would be written.
func (l *Logger) Enabled(level string) bool {
	return current().Enabled(l.component, level)
}

func (l *Logger) logf(level, format string, args ...interface{}) {
	cl := current()
	if !cl.Enabled(l.component, level) {
		return
	}
	cl.Log(l.component, level, fmt.Sprintf(format, args...))
}

// Tracef logs a trace-level message.
func (l *Logger) Tracef(format string, args ...interface{}) { l.logf("trace", format, args...) }

// Debugf logs a debug-level message.
func (l *Logger) Debugf(format string, args ...interface{}) { l.logf("debug", format, args...) }

// Infof logs an info-level message.
func (l *Logger) Infof(format string, args ...interface{}) { l.logf("info", format, args...) }

// Warnf logs a warning.
func (l *Logger) Warnf(format string, args ...interface{}) { l.logf("warn", format, args...) }

// Errorf logs an error-level message.
func (l *Logger) Errorf(format string, args ...interface{}) { l.logf("error", format, args...) }
