package forecast

import "errors"

// Soft failures: the update cycle produced no new forecast but the run is
// not considered failed. The prior result, if any, stays authoritative.
var (
	// ErrSourceNotReady indicates the statistics source is unreachable or
	// a required entity has no known state.
	ErrSourceNotReady = errors.New("statistics source not ready")

	// ErrNoHistoricalData indicates the fetch succeeded but returned nothing.
	ErrNoHistoricalData = errors.New("no historical data available")

	// ErrNoTrainingData indicates no aligned training tuples exist.
	ErrNoTrainingData = errors.New("no training data available")

	// ErrNoValidForecastPoints indicates every raw sample was structurally invalid.
	ErrNoValidForecastPoints = errors.New("no valid forecast points generated")

	// ErrNoModelAvailable indicates forecasting was attempted before any training.
	ErrNoModelAvailable = errors.New("no model available for forecasting")
)

// ErrForecastFailed indicates the model's batch forecast call itself
// failed. Unlike the "no data yet" cases this is surfaced as a real
// error: it points at a model-internal fault.
var ErrForecastFailed = errors.New("forecast generation failed")

// IsSoft reports whether err is a soft failure that should degrade
// gracefully instead of marking the run as failed.
func IsSoft(err error) bool {
	return errors.Is(err, ErrSourceNotReady) ||
		errors.Is(err, ErrNoHistoricalData) ||
		errors.Is(err, ErrNoTrainingData) ||
		errors.Is(err, ErrNoValidForecastPoints) ||
		errors.Is(err, ErrNoModelAvailable)
}
