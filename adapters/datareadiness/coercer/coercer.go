package coercer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"statdesc/domain/core"
	"statdesc/domain/dataset"
)

// TypeCoercer converts raw string cells into numbers with deterministic rules
type TypeCoercer struct {
	config  CoercionConfig
	missing map[string]bool
}

// CoercionConfig defines which cells are missing and how many failures are
// reported before the rest are summarized.
type CoercionConfig struct {
	MissingTokens []string `json:"missing_tokens"` // case-insensitive, empty cells are always missing
	MaxErrors     int      `json:"max_errors"`     // 0 reports every failure
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		MissingTokens: []string{"nan", "na", "n/a", "null", "none"},
		MaxErrors:     20,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	missing := make(map[string]bool, len(config.MissingTokens))
	for _, tok := range config.MissingTokens {
		missing[strings.ToLower(strings.TrimSpace(tok))] = true
	}
	return &TypeCoercer{config: config, missing: missing}
}

// Coerce converts every cell of raw into a float64 column table. Missing
// cells become NaN. All unparseable cells are reported together; no
// partial table is returned.
func (c *TypeCoercer) Coerce(raw *dataset.RawTable) (dataset.Table, error) {
	if raw == nil || len(raw.Rows) == 0 {
		return dataset.Table{}, fmt.Errorf("%w: table has no rows", core.ErrInvalidInput)
	}
	width := raw.Width()
	if width == 0 {
		return dataset.Table{}, fmt.Errorf("%w: table has no columns", core.ErrInvalidInput)
	}

	cols := make([][]float64, width)
	for j := range cols {
		cols[j] = make([]float64, len(raw.Rows))
	}

	var result *multierror.Error
	failures := 0
	for i, row := range raw.Rows {
		for j := 0; j < width; j++ {
			cell := ""
			if j < len(row) {
				cell = row[j]
			}
			v, ok := c.CoerceCell(cell)
			if !ok {
				failures++
				if c.config.MaxErrors == 0 || failures <= c.config.MaxErrors {
					result = multierror.Append(result, c.cellError(raw, i, j, cell))
				}
				continue
			}
			cols[j][i] = v
		}
	}

	if failures > 0 {
		if extra := failures - len(result.Errors); extra > 0 {
			result = multierror.Append(result, fmt.Errorf("%w: %d more non-numeric cells", core.ErrNonNumeric, extra))
		}
		result.ErrorFormat = listFormat
		return dataset.Table{}, result
	}
	return dataset.Table{Columns: cols}, nil
}

// CoerceCell parses one cell. Missing cells yield NaN and ok.
func (c *TypeCoercer) CoerceCell(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" || c.missing[strings.ToLower(s)] {
		return math.NaN(), true
	}
	return c.tryParseNumeric(s)
}

func (c *TypeCoercer) cellError(raw *dataset.RawTable, row, col int, cell string) error {
	err := core.NewNonNumericError(row, col, strconv.Quote(cell))
	if col < len(raw.Headers) && raw.Headers[col] != "" {
		return fmt.Errorf("column %q: %w", raw.Headers[col], err)
	}
	return err
}

func listFormat(errs []error) string {
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = "  * " + err.Error()
	}
	return fmt.Sprintf("%d cells could not be read as numbers:\n%s", len(errs), strings.Join(lines, "\n"))
}

// tryParseNumeric attempts to parse as numeric with strict rules
// Handles international formats: parentheses for negatives, European decimals, currency symbols
func (c *TypeCoercer) tryParseNumeric(strVal string) (float64, bool) {
	cleanVal := strings.TrimSpace(strVal)

	// Handle parentheses for negative numbers: (123) -> -123
	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	// Remove currency symbols: $, €, £, ¥
	for _, symbol := range []string{"$", "€", "£", "¥", "USD", "EUR", "GBP", "JPY"} {
		cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
	}
	cleanVal = strings.TrimSpace(cleanVal)
	cleanVal = strings.TrimSuffix(cleanVal, "%")

	hasComma := strings.Contains(cleanVal, ",")
	hasPeriod := strings.Contains(cleanVal, ".")
	hasSpace := strings.Contains(cleanVal, " ")

	switch {
	case hasComma && (hasPeriod || hasSpace):
		// 1.234,56 or 1 234,56 when the comma comes last, 1,234.56 otherwise
		commaIdx := strings.LastIndex(cleanVal, ",")
		if commaIdx > strings.LastIndex(cleanVal, ".") && allDigits(cleanVal[commaIdx+1:]) {
			cleanVal = strings.ReplaceAll(cleanVal, ".", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
		}
	case hasComma:
		// lone comma is a decimal separator
		if strings.Count(cleanVal, ",") > 1 {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		}
	default:
		cleanVal = strings.ReplaceAll(cleanVal, " ", "")
	}

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	// ParseFloat would accept "nan" and "inf"; missing tokens are handled
	// before this point and infinities are not observations.
	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
