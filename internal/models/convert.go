package models

import (
	"time"

	"github.com/sensorcast/sensorcast/internal/forecast"
)

// NewForecastPointViews renders forecast points with RFC3339 UTC
// timestamps.
func NewForecastPointViews(points []forecast.ForecastPoint) []ForecastPointView {
	views := make([]ForecastPointView, 0, len(points))
	for _, p := range points {
		views = append(views, ForecastPointView{
			Time:  p.Time.UTC().Format(time.RFC3339),
			Value: p.Value,
		})
	}
	return views
}

// NewForecastView renders a forecast result for the API.
func NewForecastView(result *forecast.ForecastResult) ForecastView {
	return ForecastView{
		SourceEntity: result.SourceEntity,
		HistoryDays:  result.HistoryDays,
		GeneratedAt:  result.GeneratedAt.UTC().Format(time.RFC3339),
		Forecast:     NewForecastPointViews(result.Forecast),
		Metrics:      result.Metrics,
	}
}

// NewForecastEvent renders a forecast result as a published event.
func NewForecastEvent(forecasterID string, result *forecast.ForecastResult) ForecastEvent {
	return ForecastEvent{
		ForecasterID: forecasterID,
		SourceEntity: result.SourceEntity,
		GeneratedAt:  result.GeneratedAt.UTC().Format(time.RFC3339),
		Forecast:     NewForecastPointViews(result.Forecast),
		Metrics:      result.Metrics,
	}
}
