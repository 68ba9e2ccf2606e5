package matbench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams_TypedAccessors(t *testing.T) {
	p := Params{
		"algorithm":     "random_forest",
		"n_estimators":  500,
		"learning_rate": 0.05,
		"early_stop":    true,
		"from_json":     float64(128),
	}

	s, ok := p.GetString("algorithm")
	require.True(t, ok)
	assert.Equal(t, "random_forest", s)

	f, ok := p.GetFloat("learning_rate")
	require.True(t, ok)
	assert.Equal(t, 0.05, f)

	f, ok = p.GetFloat("n_estimators")
	require.True(t, ok)
	assert.Equal(t, 500.0, f)

	b, ok := p.GetBool("early_stop")
	require.True(t, ok)
	assert.True(t, b)

	i, ok := p.GetInt("n_estimators")
	require.True(t, ok)
	assert.Equal(t, 500, i)

	// Whole floats convert back to ints after a JSON round-trip.
	i, ok = p.GetInt("from_json")
	require.True(t, ok)
	assert.Equal(t, 128, i)

	_, ok = p.GetInt("learning_rate")
	assert.False(t, ok)

	raw, ok := p.Get("algorithm")
	require.True(t, ok)
	assert.Equal(t, "random_forest", raw)

	_, ok = p.Get("absent")
	assert.False(t, ok)
	_, ok = p.GetString("n_estimators")
	assert.False(t, ok)
	_, ok = p.GetBool("algorithm")
	assert.False(t, ok)
	_, ok = p.GetFloat("algorithm")
	assert.False(t, ok)
}

func TestParams_Clone(t *testing.T) {
	p := Params{"a": 1.0, "b": "x"}

	c := p.Clone()
	c["a"] = 2.0
	c["new"] = true

	assert.Equal(t, 1.0, p["a"])
	assert.NotContains(t, p, "new")

	var nilParams Params
	assert.Nil(t, nilParams.Clone())
}
