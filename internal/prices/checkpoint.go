package prices

import (
	"log/slog"

	"scryfallprices/internal/jsonfile"
)

// DefaultRecoveryFile is where partial results land when fetching is interrupted.
const DefaultRecoveryFile = "safety_valve.json"

// Checkpointer persists the records gathered so far.
type Checkpointer interface {
	Save(snapshot map[string]Record) error
}

// FileCheckpoint writes snapshots to a JSON file, replacing earlier ones.
type FileCheckpoint struct {
	Path string
}

// Save implements Checkpointer.
func (c FileCheckpoint) Save(snapshot map[string]Record) error {
	path := c.Path
	if path == "" {
		path = DefaultRecoveryFile
	}

	if err := jsonfile.Write(path, snapshot); err != nil {
		return err
	}

	slog.Info("prices already scraped have been saved", "path", path, "cards", len(snapshot))
	return nil
}
