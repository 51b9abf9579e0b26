package coercer

import (
	"errors"
	"math"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statdesc/domain/core"
	"statdesc/domain/dataset"
)

func TestCoerceCellFormats(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())
	cases := map[string]float64{
		"42":        42,
		" -3.5 ":    -3.5,
		"1e3":       1000,
		"(12.5)":    -12.5,
		"$1,234.50": 1234.5,
		"1.234,56":  1234.56,
		"1 234,56":  1234.56,
		"2,5":       2.5,
		"1,234,567": 1234567,
		"15%":       15,
		"€7":        7,
	}
	for in, want := range cases {
		got, ok := c.CoerceCell(in)
		require.True(t, ok, in)
		assert.InDelta(t, want, got, 1e-9, in)
	}
}

func TestCoerceCellMissingAndInvalid(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())
	for _, in := range []string{"", "  ", "NaN", "nan", "NA", "null", "N/A"} {
		v, ok := c.CoerceCell(in)
		require.True(t, ok, in)
		assert.True(t, math.IsNaN(v), in)
	}
	for _, in := range []string{"abc", "inf", "1.2.3x", "--1"} {
		_, ok := c.CoerceCell(in)
		assert.False(t, ok, in)
	}
}

func TestCoerceTable(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())
	tbl, err := c.Coerce(&dataset.RawTable{
		Headers: []string{"a", "b"},
		Rows: [][]string{
			{"1", "-999"},
			{"NA", "5"},
			{"3"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Cols())
	assert.Equal(t, 3, tbl.Rows())
	assert.Equal(t, 1.0, tbl.Columns[0][0])
	assert.True(t, math.IsNaN(tbl.Columns[0][1]))
	assert.Equal(t, -999.0, tbl.Columns[1][0])
	assert.True(t, math.IsNaN(tbl.Columns[1][2]), "short rows are padded with missing cells")
}

func TestCoerceAggregatesFailures(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())
	_, err := c.Coerce(&dataset.RawTable{
		Headers: []string{"height", ""},
		Rows: [][]string{
			{"1.7", "x"},
			{"tall", "2"},
			{"1.8", "y"},
		},
	})
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))
	assert.ErrorIs(t, err, core.ErrNonNumeric)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 3)
	assert.Contains(t, err.Error(), "3 cells could not be read as numbers")
	assert.Contains(t, err.Error(), `column "height": invalid input: non-numeric value at row 2, column 1: "tall"`)
	assert.Contains(t, err.Error(), `row 1, column 2: "x"`)
}

func TestCoerceCapsReportedFailures(t *testing.T) {
	c := NewTypeCoercer(CoercionConfig{MaxErrors: 2})
	_, err := c.Coerce(&dataset.RawTable{Rows: [][]string{{"a", "b", "c", "d", "e"}}})
	require.Error(t, err)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 3)
	assert.Contains(t, err.Error(), "3 more non-numeric cells")
}

func TestCoerceEmpty(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())
	_, err := c.Coerce(&dataset.RawTable{})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	_, err = c.Coerce(nil)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}
