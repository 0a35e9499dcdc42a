package forecast

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sensorcast/sensorcast/internal/logging"
	"github.com/sensorcast/sensorcast/internal/modelstore"
	"github.com/sensorcast/sensorcast/internal/stats"
)

// OnlineEngine trains a multivariate model incrementally from aligned
// statistics and produces hourly forecasts for the output entity. Model
// state survives restarts through the snapshot store.
type OnlineEngine struct {
	id             string
	inputEntities  []string
	outputEntity   string
	modelKind      string
	historyDays    int
	forecastHours  int
	updateInterval time.Duration
	source         stats.Source
	store          *modelstore.Store
	logger         *logging.Logger

	mu         sync.Mutex
	model      Model
	lastUpdate *time.Time
	lastKnown  *LastKnownInputs
	metrics    RollingMetrics
}

// NewOnlineEngine creates an online ML engine and restores any
// persisted state for the instance. A missing, corrupt, or
// incompatible snapshot means the model retrains from scratch.
func NewOnlineEngine(id string, inputEntities []string, outputEntity, modelKind string,
	historyDays, forecastHours int, updateInterval time.Duration,
	source stats.Source, store *modelstore.Store, logger *logging.Logger,
) (*OnlineEngine, error) {
	if _, err := NewModel(modelKind); err != nil {
		return nil, err
	}

	e := &OnlineEngine{
		id:             id,
		inputEntities:  append([]string{}, inputEntities...),
		outputEntity:   outputEntity,
		modelKind:      modelKind,
		historyDays:    historyDays,
		forecastHours:  forecastHours,
		updateInterval: updateInterval,
		source:         source,
		store:          store,
		logger:         logger.With("forecaster_id", id),
		lastKnown:      NewLastKnownInputs(nil),
	}
	e.restore()
	return e, nil
}

// restore loads persisted state best effort; any failure leaves the
// engine untrained.
func (e *OnlineEngine) restore() {
	if e.store == nil {
		return
	}
	snap, err := e.store.Load(e.id)
	if err != nil || snap == nil {
		return
	}
	if snap.ModelKind != e.modelKind {
		e.logger.Warn("Persisted model kind mismatch, retraining",
			"persisted", snap.ModelKind, "configured", e.modelKind)
		return
	}
	model, err := DecodeModel(snap.ModelKind, snap.Model)
	if err != nil {
		e.logger.Warn("Failed to decode persisted model, retraining", "error", err)
		return
	}

	e.model = model
	e.lastUpdate = snap.LastUpdateTimestamp
	e.lastKnown = NewLastKnownInputs(snap.LastKnownInputs)
	e.metrics = RollingMetrics{
		SumAbsErr: snap.Metrics.SumAbsErr,
		SumSqErr:  snap.Metrics.SumSqErr,
		Samples:   snap.MetricsSamples,
	}
	e.logger.Info("Restored persisted model",
		"model", snap.ModelKind,
		"metrics_samples", snap.MetricsSamples)
}

// ID returns the instance identity.
func (e *OnlineEngine) ID() string { return e.id }

// SourceEntity returns the entity the engine forecasts.
func (e *OnlineEngine) SourceEntity() string { return e.outputEntity }

// HistoryDays returns the configured lookback window in days.
func (e *OnlineEngine) HistoryDays() int { return e.historyDays }

// Available reports whether the source is reachable and every input
// entity and the output entity has a known state.
func (e *OnlineEngine) Available(ctx context.Context) bool {
	return e.checkAvailable(ctx) == nil
}

func (e *OnlineEngine) checkAvailable(ctx context.Context) error {
	for _, entity := range e.allEntities() {
		has, err := e.source.HasState(ctx, entity)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSourceNotReady, err)
		}
		if !has {
			return fmt.Errorf("%w: entity %s has no state", ErrSourceNotReady, entity)
		}
	}
	return nil
}

func (e *OnlineEngine) allEntities() []string {
	return append(append([]string{}, e.inputEntities...), e.outputEntity)
}

// Update trains the model on statistics gathered since the last update
// and produces a fresh forecast. The first call trains from the full
// available history; later calls are incremental and skip training when
// the update interval has not yet elapsed.
func (e *OnlineEngine) Update(ctx context.Context, now time.Time) (*ForecastResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkAvailable(ctx); err != nil {
		return nil, err
	}
	if err := e.train(ctx, now); err != nil {
		return nil, err
	}
	if e.model == nil {
		return nil, fmt.Errorf("%w for %s", ErrNoModelAvailable, e.outputEntity)
	}

	forecast, err := e.generateForecast(now)
	if err != nil {
		return nil, err
	}

	return &ForecastResult{
		Forecast:     forecast,
		SourceEntity: e.outputEntity,
		HistoryDays:  e.historyDays,
		GeneratedAt:  now,
		Metrics:      e.metrics.Values(),
	}, nil
}

func (e *OnlineEngine) train(ctx context.Context, now time.Time) error {
	cold := e.model == nil || e.lastUpdate == nil

	var start time.Time
	if cold {
		start = coldStartEpoch
	} else {
		if now.Sub(*e.lastUpdate) < e.updateInterval {
			e.logger.Debug("Skipping training, update interval not elapsed",
				"last_update", e.lastUpdate)
			return nil
		}
		start = e.lastUpdate.Add(time.Second)
	}

	rows, err := e.source.Fetch(ctx, e.allEntities(), start, now,
		stats.PeriodHour, []string{stats.TypeMean})
	if err != nil {
		if errors.Is(err, stats.ErrUnavailable) {
			return fmt.Errorf("%w: %v", ErrSourceNotReady, err)
		}
		return fmt.Errorf("fetch statistics for %s: %w", e.outputEntity, err)
	}

	samples := AlignSeries(rows, e.inputEntities, e.outputEntity)
	if len(samples) == 0 {
		if cold {
			return fmt.Errorf("%w for %s", ErrNoTrainingData, e.outputEntity)
		}
		// Nothing aligned this round; move the cursor so the window
		// does not grow without bound.
		ts := now
		e.lastUpdate = &ts
		e.persist()
		return nil
	}

	if cold && e.model == nil {
		model, err := NewModel(e.modelKind)
		if err != nil {
			return err
		}
		e.model = model
	}

	// Prequential replay: score each sample against the model before
	// the model learns it.
	for _, sample := range samples {
		if yhat, err := e.model.PredictOne(sample.Features); err == nil {
			e.metrics.Update(sample.Target, yhat)
		}
		e.model.LearnOne(sample.Features, sample.Target)
		e.lastKnown.Observe(sample.Features)
	}

	ts := now
	e.lastUpdate = &ts
	e.persist()

	e.logger.Info("Trained model",
		"model", e.modelKind,
		"samples", len(samples),
		"cold_start", cold,
		"metrics_samples", e.metrics.Samples)
	return nil
}

func (e *OnlineEngine) generateForecast(now time.Time) ([]ForecastPoint, error) {
	steps := e.forecastHours
	futureFeatures := e.lastKnown.FeaturesFor(steps)

	var values []float64
	if batch, ok := e.model.(BatchForecaster); ok {
		var err error
		values, err = batch.BatchForecast(steps, futureFeatures)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrForecastFailed, err)
		}
	} else {
		values = make([]float64, 0, steps)
		for i := 0; i < steps; i++ {
			yhat, err := e.model.PredictOne(futureFeatures[i])
			if err != nil {
				continue
			}
			values = append(values, yhat)
		}
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoValidForecastPoints, e.outputEntity)
	}

	points := make([]ForecastPoint, 0, len(values))
	for i, value := range values {
		points = append(points, ForecastPoint{
			Time:  now.Add(time.Duration(i+1) * time.Hour),
			Value: value,
		})
	}
	return points, nil
}

// persist writes the snapshot best effort; save failures are logged,
// not surfaced, so a bad disk cannot break forecasting.
func (e *OnlineEngine) persist() {
	if e.store == nil || e.model == nil {
		return
	}
	encoded, err := EncodeModel(e.model)
	if err != nil {
		e.logger.Warn("Failed to encode model for persistence", "error", err)
		return
	}
	snap := &modelstore.Snapshot{
		ModelKind:           e.model.Kind(),
		Model:               encoded,
		LastUpdateTimestamp: e.lastUpdate,
		LastKnownInputs:     e.lastKnown.Values(),
		Metrics: modelstore.MetricsState{
			SumAbsErr: e.metrics.SumAbsErr,
			SumSqErr:  e.metrics.SumSqErr,
		},
		MetricsSamples: e.metrics.Samples,
	}
	if err := e.store.Save(e.id, snap); err != nil {
		e.logger.Warn("Failed to persist model snapshot", "error", err)
	}
}

// Close writes a final snapshot so no training is lost on shutdown.
func (e *OnlineEngine) Close(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.persist()
	return nil
}
