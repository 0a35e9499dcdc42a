package forecast

import (
	"testing"
	"time"

	"github.com/sensorcast/sensorcast/internal/stats"
)

func f64(v float64) *float64 { return &v }

func TestShiftHistory(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []stats.Row{
		{Start: base, Mean: f64(100)},
		{Start: base.Add(time.Hour), Mean: f64(200)},
	}

	points := ShiftHistory(rows, 7)
	if len(points) != 2 {
		t.Fatalf("Expected 2 points, got %d", len(points))
	}

	wantFirst := base.Add(7 * 24 * time.Hour)
	if !points[0].Time.Equal(wantFirst) {
		t.Errorf("Expected first point at %v, got %v", wantFirst, points[0].Time)
	}
	if points[0].Value != 100 {
		t.Errorf("Expected first value 100, got %v", points[0].Value)
	}
	if !points[1].Time.Equal(wantFirst.Add(time.Hour)) {
		t.Errorf("Expected second point at %v, got %v", wantFirst.Add(time.Hour), points[1].Time)
	}
	if points[1].Value != 200 {
		t.Errorf("Expected second value 200, got %v", points[1].Value)
	}
}

func TestShiftHistorySkipsInvalidRows(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []stats.Row{
		{Start: base, Mean: nil},
		{Start: "not-a-timestamp", Mean: f64(5)},
		{Start: nil, Mean: f64(6)},
		{Start: base.Add(time.Hour), Mean: f64(7)},
	}

	points := ShiftHistory(rows, 1)
	if len(points) != 1 {
		t.Fatalf("Expected 1 valid point, got %d", len(points))
	}
	if points[0].Value != 7 {
		t.Errorf("Expected value 7, got %v", points[0].Value)
	}
}

func TestShiftHistorySortsAscending(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []stats.Row{
		{Start: base.Add(2 * time.Hour), Mean: f64(3)},
		{Start: base, Mean: f64(1)},
		{Start: base.Add(time.Hour), Mean: f64(2)},
	}

	points := ShiftHistory(rows, 1)
	if len(points) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(points))
	}
	for i := 1; i < len(points); i++ {
		if points[i].Time.Before(points[i-1].Time) {
			t.Errorf("Points not sorted at index %d", i)
		}
	}
	if points[0].Value != 1 || points[2].Value != 3 {
		t.Errorf("Unexpected value order: %v %v %v",
			points[0].Value, points[1].Value, points[2].Value)
	}
}

func TestShiftHistoryEpochTimestamps(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []stats.Row{
		{Start: float64(base.Unix()), Mean: f64(42)},
	}

	points := ShiftHistory(rows, 2)
	if len(points) != 1 {
		t.Fatalf("Expected 1 point, got %d", len(points))
	}
	want := base.Add(2 * 24 * time.Hour)
	if !points[0].Time.Equal(want) {
		t.Errorf("Expected %v, got %v", want, points[0].Time)
	}
}

func TestCycleToHorizonPartialCycle(t *testing.T) {
	start := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	points := []ForecastPoint{
		{Time: start, Value: 10},
		{Time: start.Add(12 * time.Hour), Value: 20},
	}

	// One-day cycle repeated into a 30-hour horizon keeps the first
	// point of the second cycle and truncates the rest.
	out := CycleToHorizon(points, 1, start.Add(30*time.Hour))
	if len(out) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(out))
	}
	if !out[2].Time.Equal(start.Add(24 * time.Hour)) {
		t.Errorf("Expected cycled point at %v, got %v",
			start.Add(24*time.Hour), out[2].Time)
	}
	if out[2].Value != 10 {
		t.Errorf("Expected cycled value 10, got %v", out[2].Value)
	}
}

func TestCycleToHorizonAlreadyCovered(t *testing.T) {
	start := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	points := []ForecastPoint{
		{Time: start, Value: 1},
		{Time: start.Add(48 * time.Hour), Value: 2},
	}

	out := CycleToHorizon(points, 1, start.Add(24*time.Hour))
	if len(out) != 2 {
		t.Fatalf("Expected points unchanged, got %d", len(out))
	}
}

func TestCycleToHorizonEmpty(t *testing.T) {
	out := CycleToHorizon(nil, 1, time.Now().Add(24*time.Hour))
	if len(out) != 0 {
		t.Errorf("Expected no points, got %d", len(out))
	}
}

func TestCycleToHorizonMultipleCycles(t *testing.T) {
	start := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	points := []ForecastPoint{
		{Time: start, Value: 5},
	}

	out := CycleToHorizon(points, 1, start.Add(72*time.Hour))
	if len(out) != 4 {
		t.Fatalf("Expected 4 points, got %d", len(out))
	}
	for i, p := range out {
		want := start.Add(time.Duration(i) * 24 * time.Hour)
		if !p.Time.Equal(want) {
			t.Errorf("Point %d: expected %v, got %v", i, want, p.Time)
		}
		if p.Value != 5 {
			t.Errorf("Point %d: expected value 5, got %v", i, p.Value)
		}
	}
}
