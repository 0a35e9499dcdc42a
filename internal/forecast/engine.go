package forecast

import (
	"context"
	"time"
)

// Engine is the common surface of both forecasting strategies. One engine
// instance exclusively owns its model and persisted state; the scheduler
// serializes Update calls per instance.
type Engine interface {
	// ID returns the instance identity (also the persistence key).
	ID() string

	// SourceEntity returns the entity the forecast describes.
	SourceEntity() string

	// HistoryDays returns the configured lookback window in days.
	HistoryDays() int

	// Available reports whether an update cycle can run right now.
	Available(ctx context.Context) bool

	// Update runs one update cycle and returns a fresh result. Soft
	// failures (see IsSoft) mean "no new forecast this cycle"; any other
	// error marks the run as failed.
	Update(ctx context.Context, now time.Time) (*ForecastResult, error)

	// Close releases resources and forces a final state checkpoint.
	Close(ctx context.Context) error
}
