package synthetic

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	a, err := Generate(cfg)
	require.NoError(t, err)
	b, err := Generate(cfg)
	require.NoError(t, err)
	assert.Equal(t, a.Rows, b.Rows)

	cfg.Seed = 7
	c, err := Generate(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, a.Rows, c.Rows)

	assert.Equal(t, []string{"normal_1", "normal_2", "normal_3"}, a.Headers)
	assert.Len(t, a.Rows, 100)
	assert.Len(t, a.Columns[2], 100)
}

func TestGenerateShapesAndLocation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rows = 2000
	cfg.Shapes = []Shape{ShapeNormal, ShapeUniform, ShapeExponential}
	ds, err := Generate(cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"normal_1", "uniform_2", "exponential_3"}, ds.Headers)
	for j, col := range ds.Columns {
		sum := 0.0
		for _, v := range col {
			sum += v
		}
		assert.InDelta(t, 10*float64(j+1), sum/float64(len(col)), 0.3, "column %d", j+1)
	}
	for _, v := range ds.Columns[1] {
		assert.InDelta(t, 20, v, 2*math.Sqrt(3)+1e-4)
	}
}

func TestGenerateMissingSentinel(t *testing.T) {
	sentinel := -999.0
	cfg := DefaultConfig()
	cfg.Rows = 500
	cfg.MissingRate = 0.2
	cfg.Sentinel = &sentinel
	ds, err := Generate(cfg)
	require.NoError(t, err)

	missing := 0
	for i, row := range ds.Rows {
		for j, cell := range row {
			if ds.Missing[j][i] {
				missing++
				assert.Equal(t, "-999", cell)
			}
		}
	}
	assert.InDelta(t, 0.2, float64(missing)/float64(500*3), 0.05)
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	for _, mutate := range []func(*Config){
		func(c *Config) { c.Rows = 0 },
		func(c *Config) { c.Cols = 0 },
		func(c *Config) { c.MissingRate = 1 },
		func(c *Config) { c.Decimals = -1 },
	} {
		cfg := DefaultConfig()
		mutate(&cfg)
		_, err := Generate(cfg)
		assert.Error(t, err)
	}
}

func TestWriteCSVAndXLSX(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rows = 10
	cfg.MissingRate = 0.3
	ds, err := Generate(cfg)
	require.NoError(t, err)
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "out.csv")
	require.NoError(t, Write(csvPath, ds))
	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, ds.Headers, records[0])
	assert.Equal(t, ds.Rows, records[1:])

	xlsxPath := filepath.Join(dir, "out.xlsx")
	require.NoError(t, Write(xlsxPath, ds))
	x, err := excelize.OpenFile(xlsxPath)
	require.NoError(t, err)
	defer x.Close()
	rows, err := x.GetRows(x.GetSheetName(0))
	require.NoError(t, err)
	assert.Equal(t, ds.Headers, rows[0])
	assert.Len(t, rows, 11)

	assert.Error(t, Write(filepath.Join(dir, "out.json"), ds))
}

func TestNormal(t *testing.T) {
	m := Normal(100, 3, 1)
	require.Len(t, m, 100)
	assert.Len(t, m[0], 3)
	assert.Equal(t, m, Normal(100, 3, 1))
}
