package stats

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefinedRejectsNaNOnly(t *testing.T) {
	assert.False(t, Defined(math.NaN()).Valid)
	assert.True(t, Defined(math.Inf(1)).Valid)
	assert.True(t, Defined(0).Valid)

	v, ok := Defined(2.5).Get()
	assert.True(t, ok)
	assert.Equal(t, 2.5, v)
	assert.True(t, math.IsNaN(Undefined.Float()))
}

func TestEstimateJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A Estimate `json:"a"`
		B Estimate `json:"b"`
	}{A: Defined(1.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1.5,"b":null}`, string(b))

	var back struct {
		A Estimate `json:"a"`
		B Estimate `json:"b"`
	}
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, Defined(1.5), back.A)
	assert.Equal(t, Undefined, back.B)
}

func TestEstimateInfinityJSON(t *testing.T) {
	b, err := json.Marshal([]Estimate{Defined(math.Inf(1)), Defined(math.Inf(-1)), Defined(2)})
	require.NoError(t, err)
	assert.Equal(t, `["inf","-inf",2]`, string(b))

	var back []Estimate
	require.NoError(t, json.Unmarshal(b, &back))
	require.Len(t, back, 3)
	assert.True(t, math.IsInf(back[0].Float(), 1))
	assert.True(t, math.IsInf(back[1].Float(), -1))
	assert.Equal(t, 2.0, back[2].Float())
}

func TestEstimateYAML(t *testing.T) {
	b, err := yaml.Marshal(VarianceTest{Method: MethodLevene, Statistic: Defined(3)})
	require.NoError(t, err)
	assert.Contains(t, string(b), "method: levene")
	assert.Contains(t, string(b), "statistic: 3")
	assert.Contains(t, string(b), "p_value: null")
}

func TestSummaryAggregatesUseNaNForUndefined(t *testing.T) {
	s := &Summary{
		Profiles: []Profile{
			{
				Label: "A", N: 3,
				Mean: Defined(2), StdDev: Defined(1),
				CILower: Defined(-0.48), CIUpper: Defined(4.48),
				Min: Defined(1), Max: Defined(3),
				Median: Defined(2), Q25: Defined(1.5), Q75: Defined(2.5),
				W: Defined(1), NormalityP: Defined(1),
			},
			{Label: "B"},
		},
		VarianceEquality: VarianceTest{Method: MethodNone},
	}

	msd := s.MeanSD()
	require.Len(t, msd, 2)
	assert.Equal(t, [2]float64{2, 1}, msd[0])
	assert.True(t, math.IsNaN(msd[1][0]))
	assert.True(t, math.IsNaN(msd[1][1]))

	assert.Equal(t, [3]float64{2, 1.5, 2.5}, s.Quartiles()[0])
	assert.Equal(t, [2]float64{1, 3}, s.MinMax()[0])
	assert.Equal(t, [2]float64{-0.48, 4.48}, s.CI()[0])
	assert.Equal(t, [2]float64{1, 1}, s.Normality()[0])
	assert.True(t, math.IsNaN(s.Normality()[1][1]))

	eq := s.EqVar()
	assert.True(t, math.IsNaN(eq[0]))
	assert.True(t, math.IsNaN(eq[1]))
	assert.False(t, s.VarianceEquality.Ran())
	assert.True(t, s.Profiles[1].Empty())
}

func TestSummaryLabelFallback(t *testing.T) {
	s := &Summary{Labels: []string{"x", ""}}
	assert.Equal(t, "x", s.Label(0))
	assert.Equal(t, "2", s.Label(1))
	assert.Equal(t, "3", s.Label(2))
}

func TestVarianceMethodTitle(t *testing.T) {
	assert.Equal(t, "Bartlett's test", MethodBartlett.Title())
	assert.Equal(t, "Levene's test", MethodLevene.Title())
	assert.Equal(t, "no test", MethodNone.Title())
}
