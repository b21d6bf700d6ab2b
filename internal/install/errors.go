package install

import (
	"errors"
	"fmt"
	"path/filepath"
)

// LayoutError is returned when the executable does not sit in a recognized
// installation layout.
type LayoutError struct {
	Path string // Directory containing the running executable
}

// Error implements the error interface for LayoutError.
func (e *LayoutError) Error() string {
	return fmt.Sprintf("unrecognized installation layout: %s doesn't look like a development checkout or a release bundle", e.Path)
}

// MissingComponentError is returned when an expected installed file is absent.
type MissingComponentError struct {
	Name string // File that was expected
	Path string // Location that was searched
}

// missingAt builds a MissingComponentError for a file path.
func missingAt(path string) *MissingComponentError {
	return &MissingComponentError{Name: filepath.Base(path), Path: path}
}

// Error implements the error interface for MissingComponentError.
func (e *MissingComponentError) Error() string {
	return fmt.Sprintf("unable to find %s. Looked for %s", e.Name, e.Path)
}

// IsInstallationError checks if err is or wraps a LayoutError or MissingComponentError.
func IsInstallationError(err error) bool {
	if err == nil {
		return false
	}
	var le *LayoutError
	if errors.As(err, &le) {
		return true
	}
	var me *MissingComponentError
	return errors.As(err, &me)
}
