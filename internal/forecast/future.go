package forecast

// FutureInputs supplies exogenous feature values for forecast steps
// that lie in the future, where no measurements exist yet.
type FutureInputs interface {
	// FeaturesFor returns the feature vector to use for each of the
	// given number of future steps.
	FeaturesFor(steps int) []map[string]float64
}

// LastKnownInputs repeats the most recently observed feature values for
// every future step.
type LastKnownInputs struct {
	values map[string]float64
}

// NewLastKnownInputs creates a carry-forward strategy seeded with the
// given values, which may be nil.
func NewLastKnownInputs(values map[string]float64) *LastKnownInputs {
	return &LastKnownInputs{values: values}
}

// Observe records the latest known feature values.
func (l *LastKnownInputs) Observe(values map[string]float64) {
	if len(values) == 0 {
		return
	}
	copied := make(map[string]float64, len(values))
	for name, value := range values {
		copied[name] = value
	}
	l.values = copied
}

// Values returns the current carried-forward vector, nil when nothing
// has been observed.
func (l *LastKnownInputs) Values() map[string]float64 { return l.values }

// FeaturesFor returns the carried-forward vector repeated per step.
func (l *LastKnownInputs) FeaturesFor(steps int) []map[string]float64 {
	if steps <= 0 {
		return nil
	}
	out := make([]map[string]float64, steps)
	for i := range out {
		out[i] = l.values
	}
	return out
}
