package descriptive

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statdesc/domain/core"
)

var (
	swSkewed = []float64{0.11, 7.87, 4.61, 10.14, 7.95, 3.14, 0.46, 4.43, 0.21, 4.75,
		0.71, 1.52, 3.24, 0.93, 0.42, 4.97, 9.53, 4.55, 0.47, 6.66}
	swNormal = []float64{1.36, 1.14, 2.92, 2.55, 1.46, 1.06, 5.27, -1.11, 3.48, 1.10,
		0.88, -0.51, 1.46, 0.52, 6.20, 1.69, 0.08, 3.67, 2.81, 3.49}
)

func TestShapiroWilkReferenceValues(t *testing.T) {
	cases := []struct {
		name string
		x    []float64
		w, p float64
	}{
		{"skewed", swSkewed, 0.9004729, 0.0420896},
		{"normal", swNormal, 0.9590269, 0.5245979},
		{"three points", []float64{1, 2, 4}, 0.9642857, 0.6368868},
		{"seven points", []float64{3, 1, 4, 1, 5, 9, 2}, 0.8798179, 0.2256410},
		{"four points", []float64{1, 2, 3, 4}, 0.9929120, 0.9718771},
		{"five points", []float64{1, 2, 3, 4, 10}, 0.8357883, 0.1536126},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := ShapiroWilk(tc.x)
			require.NoError(t, err)
			assert.InDelta(t, tc.w, res.W, 1e-6)
			assert.InDelta(t, tc.p, res.P, 1e-6)
			assert.False(t, res.Constant)
			assert.False(t, res.Approximate)
		})
	}
}

func TestShapiroWilkEquallySpacedThree(t *testing.T) {
	res, err := ShapiroWilk([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.W, "W is clamped to 1")
	assert.InDelta(t, 1.0, res.P, 1e-9)
}

func TestShapiroWilkConstant(t *testing.T) {
	res, err := ShapiroWilk([]float64{5, 5, 5, 5})
	require.NoError(t, err)
	assert.True(t, res.Constant)
	assert.Equal(t, 1.0, res.W)
	assert.Equal(t, 1.0, res.P)
}

func TestShapiroWilkTooFew(t *testing.T) {
	_, err := ShapiroWilk([]float64{1, 2})
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestShapiroWilkNormalScoresVsLognormal(t *testing.T) {
	const n = 30
	scores := make([]float64, n)
	skewed := make([]float64, n)
	for i := range scores {
		scores[i] = normalQuantile((float64(i) + 0.5) / n)
		skewed[i] = math.Exp(2 * scores[i])
	}

	res, err := ShapiroWilk(scores)
	require.NoError(t, err)
	assert.Greater(t, res.P, 0.99)

	res, err = ShapiroWilk(skewed)
	require.NoError(t, err)
	assert.InDelta(t, 0.4326, res.W, 1e-3)
	assert.Less(t, res.P, 1e-6)
}

func TestShapiroWilkIgnoresOrder(t *testing.T) {
	a, err := ShapiroWilk(swNormal)
	require.NoError(t, err)
	rev := make([]float64, len(swNormal))
	for i, v := range swNormal {
		rev[len(rev)-1-i] = v
	}
	b, err := ShapiroWilk(rev)
	require.NoError(t, err)
	assert.InDelta(t, a.W, b.W, 1e-12)
	assert.InDelta(t, a.P, b.P, 1e-12)
}
