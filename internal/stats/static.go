package stats

import (
	"context"
	"sync"
	"time"

	"github.com/sensorcast/sensorcast/internal/utils"
)

// StaticSource is an in-memory statistics source. It serves pre-loaded
// rows, useful for tests and local demos without a recorder.
type StaticSource struct {
	mu          sync.RWMutex
	rows        map[string][]Row
	unavailable bool
}

// NewStaticSource creates an empty in-memory source.
func NewStaticSource() *StaticSource {
	return &StaticSource{rows: make(map[string][]Row)}
}

// SetRows replaces the rows served for an entity.
func (s *StaticSource) SetRows(entityID string, rows []Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[entityID] = rows
}

// AddRow appends a single row for an entity.
func (s *StaticSource) AddRow(entityID string, start interface{}, mean *float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[entityID] = append(s.rows[entityID], Row{Start: start, Mean: mean})
}

// SetUnavailable toggles the source into the "recorder not ready" state.
func (s *StaticSource) SetUnavailable(unavailable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable = unavailable
}

// Fetch returns rows within [start, end] for each requested entity.
func (s *StaticSource) Fetch(_ context.Context, entityIDs []string, start, end time.Time,
	_ string, _ []string,
) (map[string][]Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.unavailable {
		return nil, ErrUnavailable
	}

	result := make(map[string][]Row)
	for _, id := range entityIDs {
		for _, row := range s.rows[id] {
			t, ok := utils.ToTime(row.Start)
			if ok && (t.Before(start) || t.After(end)) {
				continue
			}
			// Rows with unparseable timestamps pass through; the engine's
			// normalization is responsible for discarding them.
			result[id] = append(result[id], row)
		}
	}

	return result, nil
}

// HasState reports whether any rows are loaded for the entity.
func (s *StaticSource) HasState(_ context.Context, entityID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.unavailable {
		return false, ErrUnavailable
	}

	return len(s.rows[entityID]) > 0, nil
}
