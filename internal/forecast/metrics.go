package forecast

import "math"

// RollingMetrics accumulates absolute and squared prediction errors so
// MAE and RMSE can be reported over the model's whole learning history.
type RollingMetrics struct {
	SumAbsErr float64 `json:"sum_abs_err"`
	SumSqErr  float64 `json:"sum_sq_err"`
	Samples   int     `json:"samples"`
}

// Update folds one prediction/truth pair into the accumulators.
func (m *RollingMetrics) Update(truth, prediction float64) {
	err := truth - prediction
	m.SumAbsErr += math.Abs(err)
	m.SumSqErr += err * err
	m.Samples++
}

// MAE returns the mean absolute error, or 0 before any samples.
func (m *RollingMetrics) MAE() float64 {
	if m.Samples == 0 {
		return 0
	}
	return m.SumAbsErr / float64(m.Samples)
}

// RMSE returns the root mean squared error, or 0 before any samples.
func (m *RollingMetrics) RMSE() float64 {
	if m.Samples == 0 {
		return 0
	}
	return math.Sqrt(m.SumSqErr / float64(m.Samples))
}

// Values renders the metrics for reporting. Empty until at least one
// sample has been scored.
func (m *RollingMetrics) Values() map[string]float64 {
	if m.Samples == 0 {
		return map[string]float64{}
	}
	return map[string]float64{
		"mae":     m.MAE(),
		"rmse":    m.RMSE(),
		"samples": float64(m.Samples),
	}
}
