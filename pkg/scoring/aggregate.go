package scoring

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Distribution summarizes a metric's values across folds.
type Distribution struct {
	Mean float64 `json:"mean"`
	Max  float64 `json:"max"`
	Min  float64 `json:"min"`
	Std  float64 `json:"std"`
}

// Aggregate computes the cross-fold distribution of a metric. Std is the
// population standard deviation, matching the reference leaderboard.
func Aggregate(values []float64) (Distribution, error) {
	if len(values) == 0 {
		return Distribution{}, ErrNoSamples
	}
	return Distribution{
		Mean: stat.Mean(values, nil),
		Max:  floats.Max(values),
		Min:  floats.Min(values),
		Std:  stat.PopStdDev(values, nil),
	}, nil
}

// AggregateByMetric computes per-metric distributions from per-fold metric
// maps. Only metrics present in every fold are aggregated, so a partial
// metric never yields a distribution over fewer folds than expected.
func AggregateByMetric(perFold []map[string]float64) (map[string]Distribution, error) {
	if len(perFold) == 0 {
		return nil, ErrNoSamples
	}

	names := make([]string, 0, len(perFold[0]))
	for name := range perFold[0] {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]Distribution, len(names))
	for _, name := range names {
		values := make([]float64, 0, len(perFold))
		for _, fold := range perFold {
			v, ok := fold[name]
			if !ok {
				break
			}
			values = append(values, v)
		}
		if len(values) != len(perFold) {
			continue
		}
		dist, err := Aggregate(values)
		if err != nil {
			return nil, err
		}
		out[name] = dist
	}
	return out, nil
}
