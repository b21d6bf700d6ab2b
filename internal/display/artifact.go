package display

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/harrison/proofdriver/internal/models"
)

// PrintArtifact writes the single report line for a playback artifact.
func PrintArtifact(out io.Writer, artifact models.PlaybackArtifact) error {
	switch artifact.Format {
	case models.MessageFormatJSON:
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		return enc.Encode(struct {
			Artifact string `json:"artifact"`
		}{artifact.Path})
	default:
		_, err := fmt.Fprintf(out, "Executable %s\n", artifact.Path)
		return err
	}
}
