package plot

import (
	"context"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainstats "statdesc/domain/stats"
	"statdesc/internal/errors"
	"statdesc/ports"
)

func nan() float64 { return math.NaN() }

func profileOf(label string, clean []float64, p float64) domainstats.Profile {
	lo, hi, sum := math.Inf(1), math.Inf(-1), 0.0
	for _, v := range clean {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
		sum += v
	}
	mean := sum / float64(len(clean))
	ss := 0.0
	for _, v := range clean {
		ss += (v - mean) * (v - mean)
	}
	return domainstats.Profile{
		Label:      label,
		N:          len(clean),
		Mean:       domainstats.Defined(mean),
		StdDev:     domainstats.Defined(math.Sqrt(ss / float64(len(clean)-1))),
		Min:        domainstats.Defined(lo),
		Max:        domainstats.Defined(hi),
		NormalityP: domainstats.Defined(p),
	}
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err, path)
	defer f.Close()
	_, err = png.Decode(f)
	assert.NoError(t, err, path)
}

func newRenderer(t *testing.T) *ChartRenderer {
	t.Helper()
	r, err := NewChartRenderer(filepath.Join(t.TempDir(), "plots"), 400, 300, nil)
	require.NoError(t, err)
	return r
}

var (
	colA = []float64{9.0, 9.1, 8.9, 9.05, 8.95, 9.2, 8.8, 9.0}
	colB = []float64{8.6, 9.6, 9.1, 8.7, 9.4, nan(), 9.3, 8.8}
)

func groupPlot() ports.GroupPlot {
	cleanB := []float64{8.6, 9.6, 9.1, 8.7, 9.4, 9.3, 8.8}
	return ports.GroupPlot{
		Labels:   []string{"A", "B"},
		Columns:  [][]float64{colA, colB},
		Clean:    [][]float64{colA, cleanB},
		Profiles: []domainstats.Profile{profileOf("A", colA, 0.6), profileOf("B", cleanB, 0.7)},
		VarianceEquality: domainstats.VarianceTest{
			Method:    domainstats.MethodBartlett,
			Statistic: domainstats.Defined(5.1),
			PValue:    domainstats.Defined(0.02),
		},
		Alpha: 0.05,
	}
}

func TestNewChartRendererValidates(t *testing.T) {
	_, err := NewChartRenderer(t.TempDir(), 0, 300, nil)
	assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))
}

func TestRenderVariable(t *testing.T) {
	r := newRenderer(t)
	err := r.RenderVariable(context.Background(), ports.VariablePlot{
		Index:   0,
		Label:   "height cm",
		Values:  colA,
		Clean:   colA,
		Profile: profileOf("height cm", colA, 0.5),
		Alpha:   0.05,
	})
	require.NoError(t, err)

	for _, name := range []string{"height_cm.png", "height_cm_box.png", "height_cm_hist.png"} {
		assertPNG(t, filepath.Join(r.Dir(), name))
	}
}

func TestRenderVariableSingleObservation(t *testing.T) {
	r := newRenderer(t)
	one := []float64{nan(), 4}
	err := r.RenderVariable(context.Background(), ports.VariablePlot{
		Label:   "x",
		Values:  one,
		Clean:   []float64{4},
		Profile: domainstats.Profile{N: 1, Mean: domainstats.Defined(4), Min: domainstats.Defined(4), Max: domainstats.Defined(4)},
		Alpha:   0.05,
	})
	require.NoError(t, err)
	assertPNG(t, filepath.Join(r.Dir(), "x_hist.png"))
}

func TestRenderGroupAndScatterMatrix(t *testing.T) {
	r := newRenderer(t)
	ctx := context.Background()
	plot := groupPlot()

	require.NoError(t, r.RenderGroup(ctx, plot))
	assertPNG(t, filepath.Join(r.Dir(), "all_variables.png"))
	assertPNG(t, filepath.Join(r.Dir(), "all_boxplot.png"))

	require.NoError(t, r.RenderScatterMatrix(ctx, plot))
	path := filepath.Join(r.Dir(), "scatter_matrix.png")
	assertPNG(t, path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 2*minMatrixPanel, cfg.Width)
	assert.Equal(t, 2*minMatrixPanel+matrixHeader, cfg.Height)
}

func TestScatterMatrixNeedsTwoColumns(t *testing.T) {
	r := newRenderer(t)
	plot := groupPlot()
	plot.Clean[1] = nil

	require.NoError(t, r.RenderScatterMatrix(context.Background(), plot))
	assert.NoFileExists(t, filepath.Join(r.Dir(), "scatter_matrix.png"))
}

func TestRenderHonoursCancelledContext(t *testing.T) {
	r := newRenderer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.RenderGroup(ctx, groupPlot()), context.Canceled)
}

func TestGroupBoxTitle(t *testing.T) {
	plot := groupPlot()
	assert.Equal(t, "Boxplot (no equality of variances, p=0.020000)", groupBoxTitle(plot))

	plot.VarianceEquality.PValue = domainstats.Defined(0.4)
	assert.Equal(t, "Boxplot (equality of variances, p=0.400000)", groupBoxTitle(plot))

	plot.VarianceEquality = domainstats.VarianceTest{Method: domainstats.MethodNone}
	assert.Equal(t, "Boxplot", groupBoxTitle(plot))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "a_b_box.png", fileName("a/b", "_box"))
	assert.Equal(t, "variable.png", fileName("", ""))
	assert.Equal(t, "col_1.png", fileName("col 1", ""))
}
