package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/sensorcast/sensorcast/internal/forecast"
	"github.com/sensorcast/sensorcast/internal/logging"
	"github.com/sensorcast/sensorcast/internal/models"
	"github.com/sensorcast/sensorcast/internal/queue"
	"github.com/sensorcast/sensorcast/internal/utils"
)

// Runner drives one forecaster engine on a fixed interval. A failed
// update never clears the previous forecast; callers always see the
// last good result.
type Runner struct {
	engine    forecast.Engine
	name      string
	typ       string
	model     string
	interval  time.Duration
	publisher queue.Publisher
	logger    *logging.Logger

	mu          sync.Mutex
	lastResult  *forecast.ForecastResult
	lastError   error
	lastAttempt time.Time
	failStreak  int

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewRunner creates a runner for one engine. Publisher may be nil when
// events are disabled.
func NewRunner(engine forecast.Engine, name, typ, model string, interval time.Duration,
	publisher queue.Publisher, logger *logging.Logger,
) *Runner {
	return &Runner{
		engine:    engine,
		name:      name,
		typ:       typ,
		model:     model,
		interval:  interval,
		publisher: publisher,
		logger:    logger.With("forecaster_id", engine.ID()),
		stopCh:    make(chan struct{}),
	}
}

// ID returns the engine's instance identity.
func (r *Runner) ID() string { return r.engine.ID() }

// Name returns the configured display name.
func (r *Runner) Name() string { return r.name }

// Type returns the forecaster type.
func (r *Runner) Type() string { return r.typ }

// Model returns the model family, empty for shift forecasters.
func (r *Runner) Model() string { return r.model }

// Engine exposes the underlying engine.
func (r *Runner) Engine() forecast.Engine { return r.engine }

// Start launches the update loop: one immediate update, then one per
// interval until Stop.
func (r *Runner) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		r.RunOnce(ctx)

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.RunOnce(ctx)
			}
		}
	}()
}

// RunOnce performs a single update cycle. Concurrent calls serialize on
// the runner's lock so the engine never sees overlapping updates.
func (r *Runner) RunOnce(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	updateCtx, cancel := context.WithTimeout(ctx, utils.RefreshTimeout)
	defer cancel()

	now := time.Now().UTC()
	r.lastAttempt = now

	result, err := r.engine.Update(updateCtx, now)
	if err != nil {
		r.lastError = err
		r.failStreak++
		switch {
		case forecast.IsSoft(err):
			r.logger.Debug("Forecast skipped", "reason", err)
		case errors.Is(err, forecast.ErrForecastFailed):
			r.logger.Warn("Forecast generation failed", "error", err)
		default:
			r.logger.Error("Update failed", "error", err)
		}
		return err
	}

	r.lastResult = result
	r.lastError = nil
	r.failStreak = 0
	r.publish(ctx, result)
	return nil
}

func (r *Runner) publish(ctx context.Context, result *forecast.ForecastResult) {
	if r.publisher == nil {
		return
	}

	event := models.NewForecastEvent(r.engine.ID(), result)
	data, err := json.Marshal(event)
	if err != nil {
		r.logger.Warn("Failed to encode forecast event", "error", err)
		return
	}

	subject := queue.ForecastSubject(r.engine.ID())
	if err := r.publisher.Publish(ctx, subject, data); err != nil {
		r.logger.Warn("Failed to publish forecast event",
			"subject", subject, "error", err)
	}
}

// Stop ends the loop and closes the engine so its state is flushed.
func (r *Runner) Stop(ctx context.Context) error {
	r.stopOnce.Do(func() { close(r.stopCh) })
	r.wg.Wait()
	return r.engine.Close(ctx)
}

// LastResult returns the most recent successful forecast, nil before
// the first success.
func (r *Runner) LastResult() *forecast.ForecastResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastResult
}

// LastError returns the error from the most recent update, nil after a
// success.
func (r *Runner) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastError
}

// LastAttempt returns when the runner last tried to update.
func (r *Runner) LastAttempt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastAttempt
}

// FailureCount returns the number of consecutive failed updates, 0
// after a success.
func (r *Runner) FailureCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failStreak
}

// Manager owns all runners and starts and stops them together.
type Manager struct {
	runners map[string]*Runner
	order   []string
	logger  *logging.Logger
}

// NewManager creates an empty manager.
func NewManager(logger *logging.Logger) *Manager {
	return &Manager{
		runners: make(map[string]*Runner),
		logger:  logger,
	}
}

// Add registers a runner. IDs are unique by configuration validation.
func (m *Manager) Add(runner *Runner) {
	m.runners[runner.ID()] = runner
	m.order = append(m.order, runner.ID())
}

// Get returns the runner for an ID.
func (m *Manager) Get(id string) (*Runner, bool) {
	runner, ok := m.runners[id]
	return runner, ok
}

// List returns all runners in registration order.
func (m *Manager) List() []*Runner {
	out := make([]*Runner, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.runners[id])
	}
	return out
}

// Start launches every runner's update loop.
func (m *Manager) Start(ctx context.Context) {
	for _, runner := range m.List() {
		runner.Start(ctx)
	}
	m.logger.Info("Scheduler started", "forecasters", len(m.order))
}

// Stop stops every runner, waiting for in-flight updates to finish.
func (m *Manager) Stop(ctx context.Context) {
	for _, runner := range m.List() {
		if err := runner.Stop(ctx); err != nil {
			m.logger.Warn("Failed to stop forecaster",
				"forecaster_id", runner.ID(), "error", err)
		}
	}
	m.logger.Info("Scheduler stopped")
}
