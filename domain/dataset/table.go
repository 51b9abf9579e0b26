package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"statdesc/domain/core"
)

// Table is a column-oriented numeric table. Columns[j][i] is observation i
// of variable j; missing observations are NaN.
type Table struct {
	Columns [][]float64 `json:"columns"`
}

// FromRows builds a Table from row-major data (rows = observations).
func FromRows(rows [][]float64) (Table, error) {
	if len(rows) == 0 {
		return Table{}, fmt.Errorf("%w: dataset has no rows", core.ErrInvalidInput)
	}
	width := len(rows[0])
	if width == 0 {
		return Table{}, fmt.Errorf("%w: dataset has no columns", core.ErrInvalidInput)
	}
	cols := make([][]float64, width)
	for j := range cols {
		cols[j] = make([]float64, len(rows))
	}
	for i, row := range rows {
		if len(row) != width {
			return Table{}, core.NewRaggedError(i, len(row), width)
		}
		for j, v := range row {
			cols[j][i] = v
		}
	}
	return Table{Columns: cols}, nil
}

// FromVector builds a single-column Table.
func FromVector(v []float64) Table {
	col := make([]float64, len(v))
	copy(col, v)
	return Table{Columns: [][]float64{col}}
}

// Rows returns the number of observations.
func (t Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0])
}

// Cols returns the number of variables.
func (t Table) Cols() int {
	return len(t.Columns)
}

// Validate checks that every column has the same length.
func (t Table) Validate() error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("%w: dataset has no columns", core.ErrInvalidInput)
	}
	n := len(t.Columns[0])
	for j, col := range t.Columns {
		if len(col) != n {
			return fmt.Errorf("%w: column %d has %d values, expected %d", core.ErrRaggedTable, j+1, len(col), n)
		}
	}
	return nil
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	cols := make([][]float64, len(t.Columns))
	for j, col := range t.Columns {
		cols[j] = append([]float64(nil), col...)
	}
	return Table{Columns: cols}
}

// RawTable holds string cells as read from a file, before numeric coercion.
type RawTable struct {
	Source  string     `json:"source,omitempty"`
	Headers []string   `json:"headers,omitempty"`
	Rows    [][]string `json:"rows"`
}

// Width returns the widest row (or header) length.
func (r RawTable) Width() int {
	w := len(r.Headers)
	for _, row := range r.Rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// MissingSpec designates how missing observations are encoded in the input:
// either the standard NaN marker or a single numeric sentinel.
type MissingSpec struct {
	sentinel float64
	numeric  bool
}

// MissingNaN is the default specifier: missing values are already NaN.
func MissingNaN() MissingSpec {
	return MissingSpec{}
}

// MissingValue designates v as the missing-value sentinel. A NaN sentinel is
// the same as MissingNaN.
func MissingValue(v float64) MissingSpec {
	if math.IsNaN(v) {
		return MissingNaN()
	}
	return MissingSpec{sentinel: v, numeric: true}
}

// ParseMissing parses "", "nan" (any case) or a float literal.
func ParseMissing(s string) (MissingSpec, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return MissingNaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return MissingSpec{}, fmt.Errorf("%w: missing-value specifier %q is neither \"nan\" nor a number", core.ErrInvalidInput, s)
	}
	return MissingValue(v), nil
}

// Sentinel returns the numeric sentinel, if one is configured.
func (m MissingSpec) Sentinel() (float64, bool) {
	return m.sentinel, m.numeric
}

// IsMissing reports whether v encodes a missing observation.
func (m MissingSpec) IsMissing(v float64) bool {
	if math.IsNaN(v) {
		return true
	}
	return m.numeric && v == m.sentinel
}

func (m MissingSpec) String() string {
	if !m.numeric {
		return "nan"
	}
	return strconv.FormatFloat(m.sentinel, 'g', -1, 64)
}
