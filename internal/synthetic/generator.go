package synthetic

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Shape is the distribution a generated column is drawn from.
type Shape string

const (
	ShapeNormal      Shape = "normal"
	ShapeUniform     Shape = "uniform"
	ShapeExponential Shape = "exponential"
)

// Dataset is a generated table, both formatted for writing and numeric.
type Dataset struct {
	Headers []string
	Rows    [][]string // formatted cells, missing cells hold the marker

	// Columns holds the values before missing cells were blanked.
	Columns [][]float64
	// Missing[j][i] marks cell (i, j) as missing.
	Missing [][]bool
}

type Config struct {
	Rows int
	Cols int
	Seed int64

	// MissingRate is the probability that a cell is missing.
	MissingRate float64
	// Sentinel, when set, is written for missing cells instead of NaN.
	Sentinel *float64

	// Shapes cycles over the columns; empty means all normal.
	Shapes   []Shape
	Decimals int
}

func DefaultConfig() Config {
	return Config{
		Rows:     100,
		Cols:     3,
		Seed:     42,
		Decimals: 4,
	}
}

// Generate draws a seeded dataset. Column j of a normal shape has mean
// 10(j+1) and standard deviation j+1.
func Generate(cfg Config) (*Dataset, error) {
	if cfg.Rows <= 0 {
		return nil, fmt.Errorf("rows must be > 0")
	}
	if cfg.Cols <= 0 {
		return nil, fmt.Errorf("cols must be > 0")
	}
	if cfg.MissingRate < 0 || cfg.MissingRate >= 1 {
		return nil, fmt.Errorf("missing rate must be in [0, 1)")
	}
	if cfg.Decimals < 0 {
		return nil, fmt.Errorf("decimals must be >= 0")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	ds := &Dataset{
		Headers: make([]string, cfg.Cols),
		Columns: make([][]float64, cfg.Cols),
		Missing: make([][]bool, cfg.Cols),
	}
	for j := 0; j < cfg.Cols; j++ {
		shape := ShapeNormal
		if len(cfg.Shapes) > 0 {
			shape = cfg.Shapes[j%len(cfg.Shapes)]
		}
		ds.Headers[j] = fmt.Sprintf("%s_%d", shape, j+1)

		loc, scale := 10*float64(j+1), float64(j+1)
		col := make([]float64, cfg.Rows)
		miss := make([]bool, cfg.Rows)
		for i := range col {
			switch shape {
			case ShapeUniform:
				col[i] = loc - scale*math.Sqrt(3) + rng.Float64()*2*scale*math.Sqrt(3)
			case ShapeExponential:
				col[i] = loc - scale + rng.ExpFloat64()*scale
			default:
				col[i] = loc + rng.NormFloat64()*scale
			}
			col[i] = round(col[i], cfg.Decimals)
			miss[i] = cfg.MissingRate > 0 && rng.Float64() < cfg.MissingRate
		}
		ds.Columns[j] = col
		ds.Missing[j] = miss
	}

	marker := "NaN"
	if cfg.Sentinel != nil {
		marker = strconv.FormatFloat(*cfg.Sentinel, 'f', -1, 64)
	}
	ds.Rows = make([][]string, cfg.Rows)
	for i := range ds.Rows {
		row := make([]string, cfg.Cols)
		for j := range row {
			if ds.Missing[j][i] {
				row[j] = marker
				continue
			}
			row[j] = strconv.FormatFloat(ds.Columns[j][i], 'f', cfg.Decimals, 64)
		}
		ds.Rows[i] = row
	}
	return ds, nil
}

// Normal returns a rows×cols matrix of standard normal draws, row-major.
func Normal(rows, cols int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
		for j := range out[i] {
			out[i][j] = rng.NormFloat64()
		}
	}
	return out
}

// Write stores ds as CSV or XLSX depending on the extension of path.
func Write(path string, ds *Dataset) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return WriteXLSX(path, ds)
	case ".csv":
		return WriteCSV(path, ds)
	default:
		return fmt.Errorf("unsupported output %q, use .csv or .xlsx", path)
	}
}

func WriteCSV(path string, ds *Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(ds.Headers); err != nil {
		return err
	}
	if err := w.WriteAll(ds.Rows); err != nil {
		return err
	}
	return f.Close()
}

// WriteXLSX writes numeric cells as numbers and missing cells as their
// marker text, so a NaN marker stays readable.
func WriteXLSX(path string, ds *Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, h := range ds.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for r, row := range ds.Rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			var value interface{} = v
			if !ds.Missing[c][r] {
				value = ds.Columns[c][r]
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}

func round(x float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(x*p) / p
}
