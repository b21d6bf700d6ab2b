package session

import (
	"github.com/harrison/proofdriver/internal/models"
	"github.com/harrison/proofdriver/internal/process"
)

// RunTerminal calls process.RunTerminal with the session's verbosity.
func (s *Session) RunTerminal(spec models.CommandSpec) error {
	return process.RunTerminal(s.Config.Common, spec)
}

// RunTerminalTimeout runs spec on the session substrate, bounded by the
// configured harness timeout.
func (s *Session) RunTerminalTimeout(spec models.CommandSpec) (process.Outcome, error) {
	return s.runner.Run(s.Config.Common, spec, s.Config.HarnessTimeout)
}

// RunSuppress calls process.RunSuppress with the session's verbosity.
func (s *Session) RunSuppress(spec models.CommandSpec) error {
	return process.RunSuppress(s.Config.Common, spec)
}

// RunPiped calls process.RunPiped with the session's verbosity.
func (s *Session) RunPiped(spec models.CommandSpec) (*process.Child, error) {
	return process.RunPiped(s.Config.Common, spec)
}

// Timed calls process.WithTimer with the session's verbosity.
func Timed[T any](s *Session, fn func() T, description string) T {
	return process.WithTimer(s.Config.Common, fn, description)
}
