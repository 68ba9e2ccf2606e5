package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Distribution
	}{
		{
			name:   "ascending values",
			values: []float64{1, 2, 3, 4, 5},
			want:   Distribution{Mean: 3, Max: 5, Min: 1, Std: math.Sqrt(2)},
		},
		{
			name:   "constant values",
			values: []float64{0.25, 0.25, 0.25},
			want:   Distribution{Mean: 0.25, Max: 0.25, Min: 0.25, Std: 0},
		},
		{
			name:   "single value",
			values: []float64{7},
			want:   Distribution{Mean: 7, Max: 7, Min: 7, Std: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Aggregate(tt.values)
			require.NoError(t, err)
			assert.InDelta(t, tt.want.Mean, got.Mean, tolerance)
			assert.InDelta(t, tt.want.Max, got.Max, tolerance)
			assert.InDelta(t, tt.want.Min, got.Min, tolerance)
			assert.InDelta(t, tt.want.Std, got.Std, tolerance)
		})
	}
}

func TestAggregate_Empty(t *testing.T) {
	_, err := Aggregate(nil)
	assert.ErrorIs(t, err, ErrNoSamples)
}

func TestAggregateByMetric(t *testing.T) {
	perFold := []map[string]float64{
		{"mae": 1, "rmse": 2},
		{"mae": 3, "rmse": 4},
		{"mae": 5, "rmse": 6},
	}

	got, err := AggregateByMetric(perFold)
	require.NoError(t, err)

	require.Contains(t, got, "mae")
	require.Contains(t, got, "rmse")
	assert.InDelta(t, 3.0, got["mae"].Mean, tolerance)
	assert.InDelta(t, 5.0, got["mae"].Max, tolerance)
	assert.InDelta(t, 1.0, got["mae"].Min, tolerance)
	assert.InDelta(t, 4.0, got["rmse"].Mean, tolerance)
}

func TestAggregateByMetric_SkipsPartialMetrics(t *testing.T) {
	perFold := []map[string]float64{
		{"mae": 1, "extra": 9},
		{"mae": 2},
	}

	got, err := AggregateByMetric(perFold)
	require.NoError(t, err)

	assert.Contains(t, got, "mae")
	assert.NotContains(t, got, "extra")
}

func TestAggregateByMetric_Empty(t *testing.T) {
	_, err := AggregateByMetric(nil)
	assert.ErrorIs(t, err, ErrNoSamples)
}
