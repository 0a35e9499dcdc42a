// Package stats provides access to historical sensor statistics from a
// recorder service. The recorder aggregates raw sensor readings into
// hourly buckets; forecasters consume the per-bucket mean values.
package stats

import (
	"context"
	"errors"
	"time"
)

// Statistics periods supported by the recorder
const (
	PeriodHour = "hour"
	PeriodDay  = "day"
)

// Statistic types supported by the recorder
const (
	TypeMean = "mean"
	TypeMin  = "min"
	TypeMax  = "max"
)

// ErrUnavailable indicates the statistics source is not reachable or not
// initialized. Callers treat this as "skip this cycle", never as a hard
// failure.
var ErrUnavailable = errors.New("statistics source unavailable")

// Row is a single hourly statistics bucket for one entity.
// Start may arrive as a native timestamp, a numeric epoch, or an RFC 3339
// string depending on the recorder backend; Mean is nil when the bucket
// holds no aggregated value. Rows with either field missing or
// unparseable are discarded silently during normalization.
type Row struct {
	Start interface{} `json:"start"`
	Mean  *float64    `json:"mean"`
}

// Source fetches historical statistics for sensor entities.
type Source interface {
	// Fetch returns ordered statistics rows for each requested entity over
	// [start, end]. Entities with no data are absent from the result map.
	// Returns an error wrapping ErrUnavailable when the backing store is
	// not ready.
	Fetch(ctx context.Context, entityIDs []string, start, end time.Time,
		period string, types []string) (map[string][]Row, error)

	// HasState reports whether the entity currently has a known state.
	HasState(ctx context.Context, entityID string) (bool, error)
}
