package descriptive

import (
	"fmt"
	"math"
	"strconv"

	"statdesc/domain/core"
	"statdesc/domain/dataset"
)

// Coerce converts rank-1 or rank-2 numeric Go values into a Table. Rank-2
// input is row-major (rows are observations); rank-1 input is one column.
// In []any and [][]any input, nil is a missing value.
func Coerce(data any) (dataset.Table, error) {
	switch v := data.(type) {
	case dataset.Table:
		if err := v.Validate(); err != nil {
			return dataset.Table{}, err
		}
		return v.Clone(), nil
	case *dataset.Table:
		if v == nil {
			return dataset.Table{}, fmt.Errorf("%w: nil table", core.ErrInvalidInput)
		}
		return Coerce(*v)
	case []float64:
		return vector(v)
	case [][]float64:
		return dataset.FromRows(v)
	case []float32:
		return vector(widen(v))
	case [][]float32:
		return dataset.FromRows(widenRows(v))
	case []int:
		return vector(widen(v))
	case [][]int:
		return dataset.FromRows(widenRows(v))
	case []int64:
		return vector(widen(v))
	case [][]int64:
		return dataset.FromRows(widenRows(v))
	case []any:
		col := make([]float64, len(v))
		for i, e := range v {
			f, ok := toFloat(e)
			if !ok {
				return dataset.Table{}, core.NewNonNumericError(i, 0, e)
			}
			col[i] = f
		}
		return vector(col)
	case [][]any:
		rows := make([][]float64, len(v))
		for i, row := range v {
			rows[i] = make([]float64, len(row))
			for j, e := range row {
				f, ok := toFloat(e)
				if !ok {
					return dataset.Table{}, core.NewNonNumericError(i, j, e)
				}
				rows[i][j] = f
			}
		}
		return dataset.FromRows(rows)
	case nil:
		return dataset.Table{}, fmt.Errorf("%w: no data", core.ErrInvalidInput)
	default:
		return dataset.Table{}, fmt.Errorf("%w: %T", core.ErrUnsupportedInput, data)
	}
}

func vector(v []float64) (dataset.Table, error) {
	if len(v) == 0 {
		return dataset.Table{}, fmt.Errorf("%w: dataset has no rows", core.ErrInvalidInput)
	}
	return dataset.FromVector(v), nil
}

type number interface {
	~int | ~int64 | ~float32
}

func widen[T number](v []T) []float64 {
	out := make([]float64, len(v))
	for i, e := range v {
		out[i] = float64(e)
	}
	return out
}

func widenRows[T number](rows [][]T) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = widen(r)
	}
	return out
}

func toFloat(e any) (float64, bool) {
	switch n := e.(type) {
	case nil:
		return math.NaN(), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// Normalized is a table after missing-value handling.
type Normalized struct {
	Rows int
	Cols int
	// Columns is the input with sentinel values replaced by NaN.
	Columns [][]float64
	// Clean holds each column without missing values.
	Clean   [][]float64
	Missing int
	Labels  []string
}

// Normalize replaces the missing sentinel with NaN, extracts the clean
// columns and resolves labels. t is not modified.
func Normalize(t dataset.Table, missing dataset.MissingSpec, labels []string) Normalized {
	norm := Normalized{
		Rows:    t.Rows(),
		Cols:    t.Cols(),
		Columns: make([][]float64, t.Cols()),
		Clean:   make([][]float64, t.Cols()),
		Labels:  ResolveLabels(labels, t.Cols()),
	}
	for j, col := range t.Columns {
		out := make([]float64, len(col))
		clean := make([]float64, 0, len(col))
		for i, v := range col {
			if missing.IsMissing(v) {
				out[i] = math.NaN()
				norm.Missing++
				continue
			}
			out[i] = v
			clean = append(clean, v)
		}
		norm.Columns[j] = out
		norm.Clean[j] = clean
	}
	return norm
}

// ResolveLabels returns a new slice of length max(len(labels), cols) in
// which every empty label of the first cols entries is replaced by its
// one-based column number.
func ResolveLabels(labels []string, cols int) []string {
	size := cols
	if len(labels) > size {
		size = len(labels)
	}
	out := make([]string, size)
	copy(out, labels)
	for j := 0; j < cols; j++ {
		if out[j] == "" {
			out[j] = strconv.Itoa(j + 1)
		}
	}
	return out
}
