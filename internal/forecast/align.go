package forecast

import (
	"sort"
	"time"

	"github.com/sensorcast/sensorcast/internal/stats"
	"github.com/sensorcast/sensorcast/internal/utils"
)

// TrainingSample is one aligned observation: input feature values and
// the target value sharing the same statistics timestamp.
type TrainingSample struct {
	Time     time.Time
	Features map[string]float64
	Target   float64
}

// AlignSeries joins per-entity statistics rows on their timestamps. A
// timestamp yields a sample only when every input entity and the target
// entity all have a usable value at that exact instant. Rows with
// unparseable timestamps or missing means are dropped before the join.
func AlignSeries(rows map[string][]stats.Row, inputEntities []string, targetEntity string) []TrainingSample {
	if len(inputEntities) == 0 || targetEntity == "" {
		return nil
	}

	// Per-entity lookup keyed on Unix seconds. Later rows win on
	// duplicate timestamps.
	indexed := make(map[string]map[int64]float64, len(inputEntities)+1)
	for _, entity := range append(append([]string{}, inputEntities...), targetEntity) {
		values := make(map[int64]float64)
		for _, row := range rows[entity] {
			if row.Mean == nil {
				continue
			}
			ts, ok := utils.ToTime(row.Start)
			if !ok {
				continue
			}
			values[ts.Unix()] = *row.Mean
		}
		indexed[entity] = values
	}

	targetValues := indexed[targetEntity]
	if len(targetValues) == 0 {
		return nil
	}

	keys := make([]int64, 0, len(targetValues))
	for key := range targetValues {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	samples := make([]TrainingSample, 0, len(keys))
	for _, key := range keys {
		features := make(map[string]float64, len(inputEntities))
		complete := true
		for _, entity := range inputEntities {
			value, ok := indexed[entity][key]
			if !ok {
				complete = false
				break
			}
			features[entity] = value
		}
		if !complete {
			continue
		}
		samples = append(samples, TrainingSample{
			Time:     time.Unix(key, 0).UTC(),
			Features: features,
			Target:   targetValues[key],
		})
	}
	return samples
}
