package forecast

import (
	"sort"
	"time"

	"github.com/sensorcast/sensorcast/internal/stats"
	"github.com/sensorcast/sensorcast/internal/utils"
)

// dayLength is the fixed-duration calendar day used for shifting and
// cycling. No special daylight-saving handling is applied.
const dayLength = 24 * time.Hour

// ShiftHistory projects historical statistics forward by historyDays to
// form a forecast: every row with a normalizable timestamp and a mean
// value yields a point at start+shift with the mean unchanged. Rows with
// a missing or unparseable field are skipped silently. The result is
// sorted ascending by time.
func ShiftHistory(rows []stats.Row, historyDays int) []ForecastPoint {
	shift := time.Duration(historyDays) * dayLength

	forecast := make([]ForecastPoint, 0, len(rows))
	for _, row := range rows {
		if row.Start == nil || row.Mean == nil {
			continue
		}

		start, ok := utils.ToTime(row.Start)
		if !ok {
			continue
		}

		forecast = append(forecast, ForecastPoint{
			Time:  start.Add(shift),
			Value: *row.Mean,
		})
	}

	sort.Slice(forecast, func(i, j int) bool {
		return forecast[i].Time.Before(forecast[j].Time)
	})

	return forecast
}

// CycleToHorizon repeats a shifted series at integer multiples of the
// history window until horizonEnd is covered. Cycled points past the
// horizon end are truncated within their cycle. A series that already
// reaches the horizon is returned unchanged; an empty series cycles to
// an empty series.
func CycleToHorizon(points []ForecastPoint, historyDays int, horizonEnd time.Time) []ForecastPoint {
	if len(points) == 0 {
		return points
	}

	// Already covering the horizon: nothing to repeat.
	if !points[len(points)-1].Time.Before(horizonEnd) {
		return points
	}

	cycle := time.Duration(historyDays) * dayLength

	out := make([]ForecastPoint, len(points))
	copy(out, points)

	for k := 1; ; k++ {
		offset := time.Duration(k) * cycle
		if points[0].Time.Add(offset).After(horizonEnd) {
			break
		}
		for _, p := range points {
			t := p.Time.Add(offset)
			if t.After(horizonEnd) {
				break
			}
			out = append(out, ForecastPoint{Time: t, Value: p.Value})
		}
	}

	return out
}
