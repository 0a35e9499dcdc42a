package forecast

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sensorcast/sensorcast/internal/logging"
	"github.com/sensorcast/sensorcast/internal/stats"
)

func testLogger() *logging.Logger {
	return logging.NewDevelopment()
}

func TestShiftEngineUpdate(t *testing.T) {
	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	source := stats.NewStaticSource()
	source.AddRow("sensor.power", now.Add(-24*time.Hour), f64(100))
	source.AddRow("sensor.power", now.Add(-23*time.Hour), f64(200))

	engine := NewShiftEngine("fc-1", "sensor.power", 1, 0, source, testLogger())

	if !engine.Available(context.Background()) {
		t.Fatal("Expected engine to be available")
	}

	result, err := engine.Update(context.Background(), now)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if len(result.Forecast) != 2 {
		t.Fatalf("Expected 2 forecast points, got %d", len(result.Forecast))
	}
	if !result.Forecast[0].Time.Equal(now) {
		t.Errorf("Expected first point at %v, got %v", now, result.Forecast[0].Time)
	}
	if result.Forecast[0].Value != 100 {
		t.Errorf("Expected value 100, got %v", result.Forecast[0].Value)
	}
	if result.SourceEntity != "sensor.power" {
		t.Errorf("Unexpected source entity %s", result.SourceEntity)
	}
	if result.HistoryDays != 1 {
		t.Errorf("Expected history days 1, got %d", result.HistoryDays)
	}
}

func TestShiftEngineUpdateWithHorizon(t *testing.T) {
	now := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	source := stats.NewStaticSource()
	source.AddRow("sensor.power", now.Add(-24*time.Hour), f64(100))
	source.AddRow("sensor.power", now.Add(-12*time.Hour), f64(200))

	engine := NewShiftEngine("fc-1", "sensor.power", 1, 30, source, testLogger())

	result, err := engine.Update(context.Background(), now)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if len(result.Forecast) != 3 {
		t.Fatalf("Expected 3 forecast points, got %d", len(result.Forecast))
	}
}

func TestShiftEngineNoHistory(t *testing.T) {
	source := stats.NewStaticSource()
	source.AddRow("sensor.power", "garbage", nil)

	engine := NewShiftEngine("fc-1", "sensor.power", 1, 0, source, testLogger())

	_, err := engine.Update(context.Background(), time.Now().UTC())
	if !errors.Is(err, ErrNoValidForecastPoints) {
		t.Errorf("Expected ErrNoValidForecastPoints, got %v", err)
	}
	if !IsSoft(err) {
		t.Error("Expected a soft error")
	}

	empty := stats.NewStaticSource()
	engine = NewShiftEngine("fc-1", "sensor.power", 1, 0, empty, testLogger())
	_, err = engine.Update(context.Background(), time.Now().UTC())
	if !errors.Is(err, ErrNoHistoricalData) {
		t.Errorf("Expected ErrNoHistoricalData, got %v", err)
	}
}

func TestShiftEngineSourceUnavailable(t *testing.T) {
	source := stats.NewStaticSource()
	source.SetUnavailable(true)

	engine := NewShiftEngine("fc-1", "sensor.power", 1, 0, source, testLogger())

	if engine.Available(context.Background()) {
		t.Error("Expected engine unavailable")
	}
	_, err := engine.Update(context.Background(), time.Now().UTC())
	if !errors.Is(err, ErrSourceNotReady) {
		t.Errorf("Expected ErrSourceNotReady, got %v", err)
	}
	if !IsSoft(err) {
		t.Error("Expected a soft error")
	}
}
