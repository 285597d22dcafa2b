package financials

import (
	"math"

	"github.com/jmkang/stockscope/pkg/money"
)

// MetricPoint is one value in a metric series with its change versus the
// previous period. ChangePercent is nil for the first period and whenever
// the previous value is zero.
type MetricPoint struct {
	Value         float64  `json:"value" msgpack:"value"`
	ChangePercent *float64 `json:"change_percent" msgpack:"change_percent"`
	Formatted     string   `json:"formatted" msgpack:"formatted"`
}

// Changes computes period-over-period percentage changes for a series.
// The change base is the absolute previous value, so a swing from a
// negative base keeps its direction.
func Changes(values []float64) []MetricPoint {
	points := make([]MetricPoint, len(values))
	for i, v := range values {
		points[i] = MetricPoint{
			Value:     v,
			Formatted: money.FormatKRW(v),
		}
		if i == 0 {
			continue
		}
		prev := values[i-1]
		if prev == 0 {
			continue
		}
		change := round2((v - prev) / math.Abs(prev) * 100)
		points[i].ChangePercent = &change
	}
	return points
}

// round2 rounds half away from zero at the second decimal.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
