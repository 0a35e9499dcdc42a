package models

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ForecastPointView represents a single forecast point in responses
type ForecastPointView struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

// ForecastView represents a forecaster's current forecast
type ForecastView struct {
	SourceEntity string              `json:"source_entity"`
	HistoryDays  int                 `json:"history_days,omitempty"`
	GeneratedAt  string              `json:"generated_at"`
	Forecast     []ForecastPointView `json:"forecast"`
	Metrics      map[string]float64  `json:"metrics,omitempty"`
}

// ForecasterResponse represents one forecaster instance's status
type ForecasterResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	SourceEntity string `json:"source_entity"`
	Model        string `json:"model,omitempty"`
	Available    bool   `json:"available"`
	Points       int    `json:"points"`
	LastSuccess  string `json:"last_success,omitempty"`
	LastAttempt  string `json:"last_attempt,omitempty"`
	LastError    string `json:"last_error,omitempty"`
	FailureCount int    `json:"failure_count,omitempty"`
}

// ForecasterListResponse represents list forecasters response
type ForecasterListResponse struct {
	Forecasters []ForecasterResponse `json:"forecasters"`
}

// SensorResponse represents a forecaster rendered as a sensor entity:
// a scalar state plus the full forecast in attributes
type SensorResponse struct {
	EntityID   string           `json:"entity_id"`
	State      *float64         `json:"state"`
	Attributes SensorAttributes `json:"attributes"`
}

// SensorAttributes represents the sensor's extra state attributes
type SensorAttributes struct {
	SourceEntity       string              `json:"source_entity"`
	HistoryDays        int                 `json:"history_days,omitempty"`
	LastForecastUpdate string              `json:"last_forecast_update,omitempty"`
	Forecast           []ForecastPointView `json:"forecast"`
	Metrics            map[string]float64  `json:"metrics,omitempty"`
}

// RefreshResponse represents the outcome of a manual refresh
type RefreshResponse struct {
	ID        string `json:"id"`
	Refreshed bool   `json:"refreshed"`
	Error     string `json:"error,omitempty"`
}

// ForecastEvent is the message published when a forecaster produces a
// new forecast
type ForecastEvent struct {
	ForecasterID string              `json:"forecaster_id"`
	SourceEntity string              `json:"source_entity"`
	GeneratedAt  string              `json:"generated_at"`
	Forecast     []ForecastPointView `json:"forecast"`
	Metrics      map[string]float64  `json:"metrics,omitempty"`
}
