package forecast

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sensorcast/sensorcast/internal/modelstore"
	"github.com/sensorcast/sensorcast/internal/stats"
)

func testStore(t *testing.T) *modelstore.Store {
	t.Helper()
	store, err := modelstore.NewStore(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func loadTrainingData(source *stats.StaticSource, now time.Time, hours int) {
	for i := hours; i > 0; i-- {
		ts := now.Add(-time.Duration(i) * time.Hour)
		temp := float64(20 + i%5)
		source.AddRow("sensor.temp", ts, f64(temp))
		source.AddRow("sensor.power", ts, f64(2*temp))
	}
}

func TestOnlineEngineColdTraining(t *testing.T) {
	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	source := stats.NewStaticSource()
	loadTrainingData(source, now, 48)

	engine, err := NewOnlineEngine("fc-ml", []string{"sensor.temp"}, "sensor.power",
		KindScaledLinear, 7, 6, time.Hour, source, testStore(t), testLogger())
	if err != nil {
		t.Fatalf("NewOnlineEngine failed: %v", err)
	}

	result, err := engine.Update(context.Background(), now)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if len(result.Forecast) != 6 {
		t.Fatalf("Expected 6 forecast points, got %d", len(result.Forecast))
	}
	wantFirst := now.Add(time.Hour)
	if !result.Forecast[0].Time.Equal(wantFirst) {
		t.Errorf("Expected first point at %v, got %v", wantFirst, result.Forecast[0].Time)
	}
	if result.HistoryDays != 7 {
		t.Errorf("Expected history days 7, got %d", result.HistoryDays)
	}
	if result.Metrics["samples"] != 48 {
		t.Errorf("Expected 48 metric samples, got %v", result.Metrics["samples"])
	}
	if _, ok := result.Metrics["mae"]; !ok {
		t.Error("Expected mae metric")
	}
}

func TestOnlineEngineSeasonalAR(t *testing.T) {
	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	source := stats.NewStaticSource()
	loadTrainingData(source, now, 72)

	engine, err := NewOnlineEngine("fc-ar", []string{"sensor.temp"}, "sensor.power",
		KindSeasonalAR, 7, 24, time.Hour, source, testStore(t), testLogger())
	if err != nil {
		t.Fatalf("NewOnlineEngine failed: %v", err)
	}

	result, err := engine.Update(context.Background(), now)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if len(result.Forecast) != 24 {
		t.Fatalf("Expected 24 forecast points, got %d", len(result.Forecast))
	}
	// The first sample has no history to predict from, so it is not
	// scored.
	if result.Metrics["samples"] != 71 {
		t.Errorf("Expected 71 metric samples, got %v", result.Metrics["samples"])
	}
}

func TestOnlineEngineForecastTimesFollowNow(t *testing.T) {
	now := time.Date(2026, 3, 8, 12, 30, 0, 0, time.UTC)
	source := stats.NewStaticSource()
	loadTrainingData(source, now, 48)

	engine, err := NewOnlineEngine("fc-ml", []string{"sensor.temp"}, "sensor.power",
		KindScaledLinear, 7, 6, time.Hour, source, testStore(t), testLogger())
	if err != nil {
		t.Fatalf("NewOnlineEngine failed: %v", err)
	}

	result, err := engine.Update(context.Background(), now)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	// Forecast points are anchored to the update time itself, not the
	// top of the hour.
	for i, point := range result.Forecast {
		want := now.Add(time.Duration(i+1) * time.Hour)
		if !point.Time.Equal(want) {
			t.Errorf("Point %d: expected %v, got %v", i, want, point.Time)
		}
	}
}

func TestOnlineEngineNoTrainingData(t *testing.T) {
	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	source := stats.NewStaticSource()
	// Both entities have a state but never at the same timestamp, so
	// alignment yields no tuples.
	source.AddRow("sensor.power", now.Add(-time.Hour), f64(1))
	source.AddRow("sensor.temp", now.Add(-30*time.Minute), f64(20))

	engine, err := NewOnlineEngine("fc-ml", []string{"sensor.temp"}, "sensor.power",
		KindScaledLinear, 7, 6, time.Hour, source, testStore(t), testLogger())
	if err != nil {
		t.Fatalf("NewOnlineEngine failed: %v", err)
	}

	_, err = engine.Update(context.Background(), now)
	if !errors.Is(err, ErrNoTrainingData) {
		t.Errorf("Expected ErrNoTrainingData, got %v", err)
	}
	if !IsSoft(err) {
		t.Error("Expected a soft error")
	}
}

func TestOnlineEngineInputWithoutState(t *testing.T) {
	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	source := stats.NewStaticSource()
	// The output entity alone has history; the input entity is unknown
	// to the recorder.
	source.AddRow("sensor.power", now.Add(-time.Hour), f64(1))

	engine, err := NewOnlineEngine("fc-ml", []string{"sensor.temp"}, "sensor.power",
		KindScaledLinear, 7, 6, time.Hour, source, testStore(t), testLogger())
	if err != nil {
		t.Fatalf("NewOnlineEngine failed: %v", err)
	}

	if engine.Available(context.Background()) {
		t.Error("Expected unavailable while an input entity has no state")
	}

	_, err = engine.Update(context.Background(), now)
	if !errors.Is(err, ErrSourceNotReady) {
		t.Errorf("Expected ErrSourceNotReady, got %v", err)
	}

	// Once the input entity reports, the engine becomes available.
	source.AddRow("sensor.temp", now.Add(-time.Hour), f64(20))
	if !engine.Available(context.Background()) {
		t.Error("Expected available once every entity has a state")
	}
}

func TestOnlineEnginePrequentialMetrics(t *testing.T) {
	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	source := stats.NewStaticSource()
	ts := now.Add(-time.Hour)
	source.AddRow("sensor.temp", ts, f64(1))
	source.AddRow("sensor.power", ts, f64(10))

	engine, err := NewOnlineEngine("fc-ml", []string{"sensor.temp"}, "sensor.power",
		KindScaledLinear, 7, 6, time.Hour, source, testStore(t), testLogger())
	if err != nil {
		t.Fatalf("NewOnlineEngine failed: %v", err)
	}

	result, err := engine.Update(context.Background(), now)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	// The single sample is scored against the untrained prediction of 0,
	// so the absolute error is exactly the target. Scoring after
	// learning would shrink it.
	if result.Metrics["samples"] != 1 {
		t.Fatalf("Expected 1 metric sample, got %v", result.Metrics["samples"])
	}
	if result.Metrics["mae"] != 10 {
		t.Errorf("Expected mae 10, got %v", result.Metrics["mae"])
	}
	if result.Metrics["rmse"] != 10 {
		t.Errorf("Expected rmse 10, got %v", result.Metrics["rmse"])
	}
}

func TestOnlineEngineSourceUnavailable(t *testing.T) {
	source := stats.NewStaticSource()
	source.SetUnavailable(true)

	engine, err := NewOnlineEngine("fc-ml", []string{"sensor.temp"}, "sensor.power",
		KindScaledLinear, 7, 6, time.Hour, source, testStore(t), testLogger())
	if err != nil {
		t.Fatalf("NewOnlineEngine failed: %v", err)
	}

	_, err = engine.Update(context.Background(), time.Now().UTC())
	if !errors.Is(err, ErrSourceNotReady) {
		t.Errorf("Expected ErrSourceNotReady, got %v", err)
	}
}

func TestOnlineEngineIncrementalSkip(t *testing.T) {
	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	source := stats.NewStaticSource()
	loadTrainingData(source, now, 24)

	engine, err := NewOnlineEngine("fc-ml", []string{"sensor.temp"}, "sensor.power",
		KindScaledLinear, 7, 6, 24*time.Hour, source, testStore(t), testLogger())
	if err != nil {
		t.Fatalf("NewOnlineEngine failed: %v", err)
	}

	first, err := engine.Update(context.Background(), now)
	if err != nil {
		t.Fatalf("First update failed: %v", err)
	}

	// Within the update interval no new training happens, but a
	// forecast is still produced from the existing model.
	second, err := engine.Update(context.Background(), now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Second update failed: %v", err)
	}
	if second.Metrics["samples"] != first.Metrics["samples"] {
		t.Errorf("Expected metric samples unchanged, got %v then %v",
			first.Metrics["samples"], second.Metrics["samples"])
	}
}

func TestOnlineEnginePersistenceAcrossRestart(t *testing.T) {
	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	source := stats.NewStaticSource()
	loadTrainingData(source, now, 24)
	store := testStore(t)

	engine, err := NewOnlineEngine("fc-ml", []string{"sensor.temp"}, "sensor.power",
		KindScaledLinear, 7, 6, time.Hour, source, store, testLogger())
	if err != nil {
		t.Fatalf("NewOnlineEngine failed: %v", err)
	}
	first, err := engine.Update(context.Background(), now)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := engine.Close(context.Background()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// A new engine over the same store restores the trained model and
	// its metrics, and has no new samples to learn.
	restored, err := NewOnlineEngine("fc-ml", []string{"sensor.temp"}, "sensor.power",
		KindScaledLinear, 7, 6, time.Hour, source, store, testLogger())
	if err != nil {
		t.Fatalf("NewOnlineEngine failed: %v", err)
	}
	second, err := restored.Update(context.Background(), now.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("Update after restart failed: %v", err)
	}
	if second.Metrics["samples"] != first.Metrics["samples"] {
		t.Errorf("Expected metric samples preserved, got %v then %v",
			first.Metrics["samples"], second.Metrics["samples"])
	}
}

func TestOnlineEngineModelKindMismatchRetrains(t *testing.T) {
	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	source := stats.NewStaticSource()
	loadTrainingData(source, now, 24)
	store := testStore(t)

	engine, err := NewOnlineEngine("fc-ml", []string{"sensor.temp"}, "sensor.power",
		KindScaledLinear, 7, 6, time.Hour, source, store, testLogger())
	if err != nil {
		t.Fatalf("NewOnlineEngine failed: %v", err)
	}
	if _, err := engine.Update(context.Background(), now); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	// Reconfigured to a different family, the persisted snapshot is
	// ignored and the model trains from scratch.
	swapped, err := NewOnlineEngine("fc-ml", []string{"sensor.temp"}, "sensor.power",
		KindSeasonalAR, 7, 6, time.Hour, source, store, testLogger())
	if err != nil {
		t.Fatalf("NewOnlineEngine failed: %v", err)
	}
	result, err := swapped.Update(context.Background(), now)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if result.Metrics["samples"] != 23 {
		t.Errorf("Expected 23 metric samples after retrain, got %v", result.Metrics["samples"])
	}
}
