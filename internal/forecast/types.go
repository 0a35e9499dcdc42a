// Package forecast implements the forecast-generation engines: the
// historical-shift projection and the online multivariate learner.
package forecast

import (
	"math"
	"time"
)

// ForecastPoint represents a single point in a forecast time series
type ForecastPoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// ForecastResult is the outcome of one successful engine run. It is
// created fresh on every run and never mutated afterwards; a newer
// result supersedes it.
type ForecastResult struct {
	Forecast     []ForecastPoint    `json:"forecast"`      // sorted ascending by time
	SourceEntity string             `json:"source_entity"` // output entity for the online engine
	HistoryDays  int                `json:"history_days"`
	GeneratedAt  time.Time          `json:"generated_at"`
	Metrics      map[string]float64 `json:"metrics,omitempty"` // empty until evaluation samples exist
}

// NearestTo returns the forecast point closest to t, or false when the
// forecast is empty.
func (r *ForecastResult) NearestTo(t time.Time) (ForecastPoint, bool) {
	if r == nil || len(r.Forecast) == 0 {
		return ForecastPoint{}, false
	}

	nearest := r.Forecast[0]
	minDiff := math.Abs(r.Forecast[0].Time.Sub(t).Seconds())
	for _, p := range r.Forecast[1:] {
		diff := math.Abs(p.Time.Sub(t).Seconds())
		if diff < minDiff {
			minDiff = diff
			nearest = p
		}
	}

	return nearest, true
}
