package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"statdesc/domain/stats"
)

var rule = strings.Repeat("-", 59)

// WriteText writes the fixed-width console report.
func WriteText(w io.Writer, s *stats.Summary) error {
	tw := &textWriter{w: w}

	tw.line(rule)
	tw.line(fmt.Sprintf("Descriptive statistics for data (%d %s, %d %s)",
		s.Rows, plural(s.Rows, "row"), s.Cols, plural(s.Cols, "column")))
	tw.line(fmt.Sprintf("%d missing values", s.MissingCount))

	tw.table2(s, "", "Mean", "STD", s.MeanSD())
	tw.table2(s, "95% confidence interval with unknown population STD", "Lower", "Upper", s.CI())
	tw.table2(s, "", "Minimum", "Maximum", s.MinMax())

	tw.line(rule)
	tw.line(fmt.Sprintf("%-10s %15s %15s %15s", "Variable", "Median", "25th percent.", "75th percent."))
	tw.line(rule)
	for j, q := range s.Quartiles() {
		tw.line(fmt.Sprintf("%-10s %s %s %s", s.Label(j), num(15, q[0]), num(15, q[1]), num(15, q[2])))
	}

	tw.table2(s, "Shapiro-Wilk's test for normality", "W statistic", "p value", s.Normality())
	tw.line(rule)

	if s.NonEmpty > 1 {
		tw.line(varianceTitle(s.VarianceEquality))
		tw.line(fmt.Sprintf("%26s %15s", "statistic", "p value"))
		tw.line(rule)
		eq := s.EqVar()
		tw.line(fmt.Sprintf("%s %s", num(26, eq[0]), num(15, eq[1])))
		tw.line(rule)
	}
	return tw.err
}

func varianceTitle(v stats.VarianceTest) string {
	switch v.Method {
	case stats.MethodBartlett:
		return "Bartlett's test for equality of variances"
	case stats.MethodLevene:
		return "Levene's test for equality of variances"
	default:
		return "Equality of variances not tested"
	}
}

// textWriter keeps the first write error.
type textWriter struct {
	w   io.Writer
	err error
}

func (tw *textWriter) line(s string) {
	if tw.err != nil {
		return
	}
	_, tw.err = io.WriteString(tw.w, s+"\n")
}

func (tw *textWriter) table2(s *stats.Summary, title, a, b string, rows [][2]float64) {
	tw.line(rule)
	if title != "" {
		tw.line(title)
	}
	tw.line(fmt.Sprintf("%-10s %15s %15s", "Variable", a, b))
	tw.line(rule)
	for j, r := range rows {
		tw.line(fmt.Sprintf("%-10s %s %s", s.Label(j), num(15, r[0]), num(15, r[1])))
	}
}

// num right-aligns v with %f precision, writing undefined values as nan.
func num(width int, v float64) string {
	return fmt.Sprintf("%*s", width, formatFloat(v))
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return fmt.Sprintf("%f", v)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
