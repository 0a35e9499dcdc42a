package forecast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sensorcast/sensorcast/internal/logging"
	"github.com/sensorcast/sensorcast/internal/stats"
)

// ShiftEngine builds forecasts by shifting a single entity's historical
// statistics forward by the history window, optionally cycling the
// pattern to cover a longer horizon.
type ShiftEngine struct {
	id            string
	sourceEntity  string
	historyDays   int
	forecastHours int // 0 disables cycling
	source        stats.Source
	logger        *logging.Logger
}

// NewShiftEngine creates a historical-shift engine for one source entity.
func NewShiftEngine(id, sourceEntity string, historyDays, forecastHours int,
	source stats.Source, logger *logging.Logger,
) *ShiftEngine {
	return &ShiftEngine{
		id:            id,
		sourceEntity:  sourceEntity,
		historyDays:   historyDays,
		forecastHours: forecastHours,
		source:        source,
		logger:        logger.With("forecaster_id", id),
	}
}

// ID returns the instance identity.
func (e *ShiftEngine) ID() string { return e.id }

// SourceEntity returns the entity whose history is projected.
func (e *ShiftEngine) SourceEntity() string { return e.sourceEntity }

// HistoryDays returns the configured lookback window.
func (e *ShiftEngine) HistoryDays() int { return e.historyDays }

// Available reports whether the source is reachable and the entity has a
// known state.
func (e *ShiftEngine) Available(ctx context.Context) bool {
	has, err := e.source.HasState(ctx, e.sourceEntity)
	return err == nil && has
}

// Update fetches the history window, shifts it forward, and (in the
// horizon variant) cycles the pattern to the configured horizon.
func (e *ShiftEngine) Update(ctx context.Context, now time.Time) (*ForecastResult, error) {
	start := now.Add(-time.Duration(e.historyDays) * dayLength)

	rows, err := e.source.Fetch(ctx, []string{e.sourceEntity}, start, now,
		stats.PeriodHour, []string{stats.TypeMean})
	if err != nil {
		if errors.Is(err, stats.ErrUnavailable) {
			return nil, fmt.Errorf("%w: %v", ErrSourceNotReady, err)
		}
		return nil, fmt.Errorf("fetch statistics for %s: %w", e.sourceEntity, err)
	}

	entityRows := rows[e.sourceEntity]
	if len(entityRows) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoHistoricalData, e.sourceEntity)
	}

	forecast := ShiftHistory(entityRows, e.historyDays)
	if len(forecast) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoValidForecastPoints, e.sourceEntity)
	}

	if e.forecastHours > 0 {
		horizonEnd := now.Add(time.Duration(e.forecastHours) * time.Hour)
		forecast = CycleToHorizon(forecast, e.historyDays, horizonEnd)
	}

	e.logger.Debug("Generated forecast",
		"source_entity", e.sourceEntity,
		"points", len(forecast))

	return &ForecastResult{
		Forecast:     forecast,
		SourceEntity: e.sourceEntity,
		HistoryDays:  e.historyDays,
		GeneratedAt:  now,
	}, nil
}

// Close is a no-op; the shift engine holds no persistent state.
func (e *ShiftEngine) Close(_ context.Context) error { return nil }
