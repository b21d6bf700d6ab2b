package playback

import (
	"errors"
	"fmt"
)

// ArtifactError reports that a build finished but its test binary could not be located.
type ArtifactError struct {
	Path string
	Err  error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("playback artifact %s not found: %v", e.Path, e.Err)
}

func (e *ArtifactError) Unwrap() error {
	return e.Err
}

// IsArtifactError checks if an error is an ArtifactError.
func IsArtifactError(err error) bool {
	var ae *ArtifactError
	return errors.As(err, &ae)
}
