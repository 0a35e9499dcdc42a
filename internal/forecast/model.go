package forecast

import (
	"encoding/json"
	"fmt"
	"time"
)

// Model kinds selectable per forecaster instance.
const (
	KindSeasonalAR   = "seasonal_ar"
	KindScaledLinear = "scaled_linear"
)

// Model is an online regressor trained one sample at a time.
type Model interface {
	// Kind identifies the model family for persistence.
	Kind() string
	// LearnOne updates the model with one aligned sample.
	LearnOne(features map[string]float64, target float64)
	// PredictOne estimates the target for the given features. Models
	// that cannot predict before training return an error.
	PredictOne(features map[string]float64) (float64, error)
}

// BatchForecaster is implemented by models that produce a recursive
// multi-step forecast in one call instead of independent per-step
// predictions.
type BatchForecaster interface {
	BatchForecast(steps int, futureFeatures []map[string]float64) ([]float64, error)
}

// NewModel constructs a fresh untrained model of the given kind.
func NewModel(kind string) (Model, error) {
	switch kind {
	case KindSeasonalAR:
		return NewSeasonalARModel(), nil
	case KindScaledLinear:
		return NewScaledLinearModel(), nil
	default:
		return nil, fmt.Errorf("unknown model kind: %s", kind)
	}
}

// EncodeModel serializes a model's state for persistence.
func EncodeModel(m Model) (json.RawMessage, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode %s model: %w", m.Kind(), err)
	}
	return data, nil
}

// DecodeModel restores a model of the given kind from its serialized
// state.
func DecodeModel(kind string, data json.RawMessage) (Model, error) {
	model, err := NewModel(kind)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, model); err != nil {
		return nil, fmt.Errorf("decode %s model: %w", kind, err)
	}
	return model, nil
}

// coldStartEpoch is the training-history origin used when no persisted
// state exists for an instance.
var coldStartEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
