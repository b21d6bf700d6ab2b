// Package session holds the state of a single verification run.
//
// A Session owns the user's configuration, the resolved installation, a
// registry of scratch files, and the substrate for timeout-bound harness
// runs. It is created once per invocation and must be closed; Close removes
// every recorded scratch file unless the user asked to keep them.
package session

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/proofdriver/internal/install"
	"github.com/harrison/proofdriver/internal/logger"
	"github.com/harrison/proofdriver/internal/models"
	"github.com/harrison/proofdriver/internal/process"
)

var log = logger.Named("session")

// Config is the immutable configuration of a session.
type Config struct {
	Common         models.CommonArgs
	KeepTemps      bool          // Leave scratch files behind on Close
	HarnessTimeout time.Duration // Bound on each harness run (0 = none)
	Solver         string        // Backend solver name, passed through verbatim
}

// DiscoveryScope is present when every reachable function is analyzed rather
// than only explicit proof harnesses. It carries the compiler flags that only
// make sense in that mode.
type DiscoveryScope struct {
	CompilerFlags []string
}

// Session is the per-invocation container for a verification run.
type Session struct {
	Config Config
	Paths  *install.Paths

	discovery *DiscoveryScope

	mu          sync.Mutex
	temporaries []string

	runner    *process.TimeoutRunner
	closeOnce sync.Once
}

// New creates a session for the running installation.
// It initializes diagnostics (once per process) and fails if the
// installation is unrecognized or incomplete.
func New(cfg Config) (*Session, error) {
	logger.Init(os.Stderr, os.Getenv(logger.EnvVar), cfg.Common.Debug)

	paths, err := install.Locate()
	if err != nil {
		return nil, err
	}
	return NewWithPaths(cfg, paths), nil
}

// NewWithPaths creates a session over already resolved installation paths.
func NewWithPaths(cfg Config, paths *install.Paths) *Session {
	log.Debugf("new session: keep_temps=%t harness_timeout=%v", cfg.KeepTemps, cfg.HarnessTimeout)
	return &Session{
		Config: cfg,
		Paths:  paths,
		runner: process.NewTimeoutRunner(context.Background()),
	}
}

// WithDiscovery enables all-functions discovery with the given scope.
// Passing nil restores harness-only discovery.
func (s *Session) WithDiscovery(scope *DiscoveryScope) *Session {
	s.discovery = scope
	return s
}

// Discovery returns the discovery scope, or nil when only proof harnesses are analyzed.
func (s *Session) Discovery() *DiscoveryScope {
	return s.discovery
}

// ReachabilityMode determines which symbols the compiler should keep.
func (s *Session) ReachabilityMode() models.ReachabilityMode {
	if s.discovery != nil {
		return models.ReachabilityAllFns
	}
	return models.ReachabilityProofHarnesses
}

// RecordTemporaryFile records a scratch file to remove on Close.
// The file does not need to exist.
func (s *Session) RecordTemporaryFile(path string) {
	s.RecordTemporaryFiles(path)
}

// RecordTemporaryFiles records scratch files to remove on Close, in order.
// The files do not need to exist.
func (s *Session) RecordTemporaryFiles(paths ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.temporaries = append(s.temporaries, paths...)
}

// TemporaryFiles returns a snapshot of the recorded scratch files.
func (s *Session) TemporaryFiles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.temporaries...)
}

// ScratchFile returns a fresh scratch path under dir and records it.
// The file itself is not created.
func (s *Session) ScratchFile(dir, suffix string) string {
	path := filepath.Join(dir, "proofdriver-"+uuid.NewString()+suffix)
	s.RecordTemporaryFile(path)
	return path
}

// Close tears the session down. It runs once; later calls are no-ops.
// Unless KeepTemps is set every recorded path is removed in recording order,
// and failures for individual files are ignored.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.runner.Close()

		if s.Config.KeepTemps {
			log.Debugf("keeping %d temporary files", len(s.TemporaryFiles()))
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		for _, path := range s.temporaries {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				log.Tracef("could not remove %s: %v", path, err)
			}
		}
	})
	return nil
}
