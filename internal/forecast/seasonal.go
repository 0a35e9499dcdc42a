package forecast

import (
	"fmt"
	"sort"
)

// Seasonal AR structure: 24 hourly autoregressive lags plus one lag at
// the 24-hour seasonal period, trained online with a normalized SGD
// step.
const (
	seasonalARLags      = 24
	seasonalPeriod      = 24
	seasonalLagCount    = 1
	seasonalARLearnRate = 0.1
	nlmsEpsilon         = 1e-8
)

// SeasonalARModel is an online seasonal autoregressive model with
// exogenous inputs. It predicts from its own recent history and learns
// incrementally, so multi-step forecasts are produced recursively.
type SeasonalARModel struct {
	P  int `json:"p"`
	M  int `json:"m"`
	SP int `json:"sp"`

	ARWeights       []float64          `json:"ar_weights"`
	SeasonalWeights []float64          `json:"seasonal_weights"`
	ExogWeights     map[string]float64 `json:"exog_weights"`
	Intercept       float64            `json:"intercept"`
	LearningRate    float64            `json:"learning_rate"`

	// History holds recent target values, newest last, capped at the
	// deepest lag the model can reference.
	History  []float64 `json:"history"`
	Observed int       `json:"observed"`
}

// NewSeasonalARModel creates an untrained seasonal AR model.
func NewSeasonalARModel() *SeasonalARModel {
	return &SeasonalARModel{
		P:               seasonalARLags,
		M:               seasonalPeriod,
		SP:              seasonalLagCount,
		ARWeights:       make([]float64, seasonalARLags),
		SeasonalWeights: make([]float64, seasonalLagCount),
		ExogWeights:     make(map[string]float64),
		LearningRate:    seasonalARLearnRate,
	}
}

// Kind identifies the model family.
func (m *SeasonalARModel) Kind() string { return KindSeasonalAR }

func (m *SeasonalARModel) historyDepth() int { return m.P + m.M*m.SP }

// lag returns the k-th most recent value from history, 0 when history
// is too shallow.
func lag(history []float64, k int) float64 {
	if k <= 0 || k > len(history) {
		return 0
	}
	return history[len(history)-k]
}

func (m *SeasonalARModel) predictFrom(history []float64, features map[string]float64) float64 {
	yhat := m.Intercept
	for i := 0; i < m.P; i++ {
		yhat += m.ARWeights[i] * lag(history, i+1)
	}
	for j := 0; j < m.SP; j++ {
		yhat += m.SeasonalWeights[j] * lag(history, m.M*(j+1))
	}
	for name, value := range features {
		yhat += m.ExogWeights[name] * value
	}
	return yhat
}

// PredictOne estimates the next value from the model's own history. It
// errors until at least one sample has been learned.
func (m *SeasonalARModel) PredictOne(features map[string]float64) (float64, error) {
	if m.Observed == 0 {
		return 0, fmt.Errorf("seasonal AR model has no training history")
	}
	return m.predictFrom(m.History, features), nil
}

// LearnOne folds one sample into the model with a normalized gradient
// step, then appends the target to the history ring.
func (m *SeasonalARModel) LearnOne(features map[string]float64, target float64) {
	yhat := m.predictFrom(m.History, features)
	err := target - yhat

	// Normalize the step by the squared input norm so a single large
	// feature value cannot blow up the weights.
	norm := 1.0
	for i := 0; i < m.P; i++ {
		x := lag(m.History, i+1)
		norm += x * x
	}
	for j := 0; j < m.SP; j++ {
		x := lag(m.History, m.M*(j+1))
		norm += x * x
	}
	for _, value := range features {
		norm += value * value
	}
	step := m.LearningRate * err / (norm + nlmsEpsilon)

	m.Intercept += step
	for i := 0; i < m.P; i++ {
		m.ARWeights[i] += step * lag(m.History, i+1)
	}
	for j := 0; j < m.SP; j++ {
		m.SeasonalWeights[j] += step * lag(m.History, m.M*(j+1))
	}
	for name, value := range features {
		m.ExogWeights[name] += step * value
	}

	m.History = append(m.History, target)
	if depth := m.historyDepth(); len(m.History) > depth {
		m.History = m.History[len(m.History)-depth:]
	}
	m.Observed++
}

// BatchForecast produces a recursive multi-step forecast: each step's
// prediction is appended to a simulated history and feeds the next
// step's lags. futureFeatures supplies exogenous values per step; a
// short or nil slice falls back to empty features for the missing
// steps.
func (m *SeasonalARModel) BatchForecast(steps int, futureFeatures []map[string]float64) ([]float64, error) {
	if m.Observed == 0 {
		return nil, fmt.Errorf("seasonal AR model has no training history")
	}
	if steps <= 0 {
		return nil, nil
	}

	history := append([]float64{}, m.History...)
	out := make([]float64, 0, steps)
	for i := 0; i < steps; i++ {
		var features map[string]float64
		if i < len(futureFeatures) {
			features = futureFeatures[i]
		}
		yhat := m.predictFrom(history, features)
		out = append(out, yhat)
		history = append(history, yhat)
		if depth := m.historyDepth(); len(history) > depth {
			history = history[len(history)-depth:]
		}
	}
	return out, nil
}

// FeatureNames returns the exogenous features the model has seen, for
// diagnostics.
func (m *SeasonalARModel) FeatureNames() []string {
	names := make([]string, 0, len(m.ExogWeights))
	for name := range m.ExogWeights {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
