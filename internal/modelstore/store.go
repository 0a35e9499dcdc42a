package modelstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sensorcast/sensorcast/internal/logging"
)

const fileExtension = ".scm"

// MetricsState carries a model's accumulated error terms across
// restarts.
type MetricsState struct {
	SumAbsErr float64 `json:"sum_abs_err"`
	SumSqErr  float64 `json:"sum_sq_err"`
}

// Snapshot is the persisted state of one online forecaster instance.
type Snapshot struct {
	ModelKind           string             `json:"model_kind"`
	Model               json.RawMessage    `json:"model"`
	LastUpdateTimestamp *time.Time         `json:"last_update_timestamp"`
	LastKnownInputs     map[string]float64 `json:"last_known_inputs"`
	Metrics             MetricsState       `json:"metrics"`
	MetricsSamples      int                `json:"metrics_samples"`
}

// Store persists per-instance model snapshots as compressed files in a
// single directory, one file per instance ID.
type Store struct {
	dir    string
	logger *logging.Logger
}

// NewStore creates a store rooted at dir, creating the directory if
// needed.
func NewStore(dir string, logger *logging.Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("model directory not configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create model directory %s: %w", dir, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+fileExtension)
}

// Load reads the snapshot for an instance. A missing file returns
// (nil, nil); a corrupt or unreadable file is logged and also returns
// (nil, nil) so the caller starts fresh.
func (s *Store) Load(id string) (*Snapshot, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		s.logger.Warn("Failed to read model snapshot",
			"forecaster_id", id, "error", err)
		return nil, nil
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		s.logger.Warn("Discarding corrupt model snapshot",
			"forecaster_id", id, "error", err)
		return nil, nil
	}
	return snap, nil
}

// Save writes the snapshot for an instance atomically via a temp file
// rename.
func (s *Store) Save(id string, snap *Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}

	tmp := s.path(id) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write model snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path(id)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename model snapshot: %w", err)
	}
	return nil
}

// Delete removes the snapshot for an instance. Missing files are not
// an error.
func (s *Store) Delete(id string) error {
	err := os.Remove(s.path(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete model snapshot: %w", err)
	}
	return nil
}
