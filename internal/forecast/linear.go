package forecast

import "math"

const linearLearnRate = 0.01

// featureStats tracks a running mean and variance per feature using
// Welford's algorithm so inputs can be standardized online.
type featureStats struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	M2    float64 `json:"m2"`
}

func (s *featureStats) update(x float64) {
	s.Count++
	delta := x - s.Mean
	s.Mean += delta / float64(s.Count)
	s.M2 += delta * (x - s.Mean)
}

func (s *featureStats) stddev() float64 {
	if s.Count < 2 {
		return 0
	}
	return math.Sqrt(s.M2 / float64(s.Count))
}

// scale standardizes a raw value; with no spread yet it centers only.
func (s *featureStats) scale(x float64) float64 {
	sd := s.stddev()
	if sd == 0 {
		return x - s.Mean
	}
	return (x - s.Mean) / sd
}

// ScaledLinearModel is an online linear regressor over standardized
// features trained by stochastic gradient descent. Untrained it
// predicts 0, so it never refuses a prediction.
type ScaledLinearModel struct {
	Weights      map[string]float64       `json:"weights"`
	Intercept    float64                  `json:"intercept"`
	Stats        map[string]*featureStats `json:"stats"`
	LearningRate float64                  `json:"learning_rate"`
	Observed     int                      `json:"observed"`
}

// NewScaledLinearModel creates an untrained scaled linear model.
func NewScaledLinearModel() *ScaledLinearModel {
	return &ScaledLinearModel{
		Weights:      make(map[string]float64),
		Stats:        make(map[string]*featureStats),
		LearningRate: linearLearnRate,
	}
}

// Kind identifies the model family.
func (m *ScaledLinearModel) Kind() string { return KindScaledLinear }

func (m *ScaledLinearModel) scaled(features map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(features))
	for name, value := range features {
		if st, ok := m.Stats[name]; ok {
			out[name] = st.scale(value)
		} else {
			out[name] = value
		}
	}
	return out
}

// PredictOne estimates the target; an untrained model returns 0.
func (m *ScaledLinearModel) PredictOne(features map[string]float64) (float64, error) {
	yhat := m.Intercept
	for name, value := range m.scaled(features) {
		yhat += m.Weights[name] * value
	}
	return yhat, nil
}

// LearnOne advances the running scaler with the raw features, then
// takes one SGD step on the scaled values.
func (m *ScaledLinearModel) LearnOne(features map[string]float64, target float64) {
	for name, value := range features {
		st, ok := m.Stats[name]
		if !ok {
			st = &featureStats{}
			m.Stats[name] = st
		}
		st.update(value)
	}

	scaled := m.scaled(features)
	yhat := m.Intercept
	for name, value := range scaled {
		yhat += m.Weights[name] * value
	}
	err := target - yhat

	step := m.LearningRate * err
	m.Intercept += step
	for name, value := range scaled {
		m.Weights[name] += step * value
	}
	m.Observed++
}
