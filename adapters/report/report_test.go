package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"statdesc/domain/stats"
	apperrors "statdesc/internal/errors"
)

func sampleSummary() *stats.Summary {
	d := stats.Defined
	return &stats.Summary{
		RunID:        "0190d9a2-7c4e-7000-8000-000000000001",
		ComputedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Rows:         4,
		Cols:         2,
		MissingCount: 3,
		NonEmpty:     2,
		Eligible:     1,
		Alpha:        0.05,
		Labels:       []string{"A", "B"},
		Profiles: []stats.Profile{
			{
				Label: "A", N: 4,
				Mean: d(2.5), StdDev: d(1.2909944487358056),
				CILower: d(0.44574), CIUpper: d(4.55426),
				Min: d(1), Max: d(4),
				Median: d(2.5), Q25: d(1.75), Q75: d(3.25),
				W: d(0.992912), NormalityP: d(0.971877),
			},
			{
				Label: "B", N: 1, Missing: 3,
				Mean: d(7),
				Min:  d(7), Max: d(7),
				Median: d(7), Q25: d(7), Q75: d(7),
			},
		},
		VarianceEquality: stats.VarianceTest{Method: stats.MethodNone},
		Notices:          []string{"Equality of variances not tested, fewer than two columns have more than two values"},
	}
}

func TestWriteTextLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleSummary()))

	rule := strings.Repeat("-", 59)
	want := strings.Join([]string{
		rule,
		"Descriptive statistics for data (4 rows, 2 columns)",
		"3 missing values",
		rule,
		"Variable              Mean             STD",
		rule,
		"A                 2.500000        1.290994",
		"B                 7.000000             nan",
		rule,
		"95% confidence interval with unknown population STD",
		"Variable             Lower           Upper",
		rule,
		"A                 0.445740        4.554260",
		"B                      nan             nan",
		rule,
		"Variable           Minimum         Maximum",
		rule,
		"A                 1.000000        4.000000",
		"B                 7.000000        7.000000",
		rule,
		"Variable            Median   25th percent.   75th percent.",
		rule,
		"A                 2.500000        1.750000        3.250000",
		"B                 7.000000        7.000000        7.000000",
		rule,
		"Shapiro-Wilk's test for normality",
		"Variable       W statistic         p value",
		rule,
		"A                 0.992912        0.971877",
		"B                      nan             nan",
		rule,
		"Equality of variances not tested",
		"                 statistic         p value",
		rule,
		"                       nan             nan",
		rule,
	}, "\n") + "\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteTextSingular(t *testing.T) {
	s := &stats.Summary{
		Rows: 1, Cols: 1, NonEmpty: 1,
		Labels:   []string{"only"},
		Profiles: []stats.Profile{{Label: "only", N: 1, Mean: stats.Defined(3)}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, s))
	out := buf.String()
	assert.Contains(t, out, "Descriptive statistics for data (1 row, 1 column)\n")
	assert.NotContains(t, out, "equality of variances")
	assert.NotContains(t, out, "Equality of variances")
}

func TestWriteTextVarianceTitles(t *testing.T) {
	s := sampleSummary()
	s.VarianceEquality = stats.VarianceTest{
		Method:    stats.MethodBartlett,
		Statistic: stats.Defined(22.789434813726768),
		PValue:    stats.Defined(1.1254782518834628e-05),
	}
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, s))
	assert.Contains(t, buf.String(), "Bartlett's test for equality of variances\n")
	assert.Contains(t, buf.String(), "                 22.789435        0.000011\n")

	s.VarianceEquality.Method = stats.MethodLevene
	buf.Reset()
	require.NoError(t, WriteText(&buf, s))
	assert.Contains(t, buf.String(), "Levene's test for equality of variances\n")
}

func TestWriteTextInfinity(t *testing.T) {
	s := sampleSummary()
	s.Profiles[0].Max = stats.Defined(math.Inf(1))
	s.Profiles[0].Min = stats.Defined(math.Inf(-1))

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, s))
	assert.Contains(t, buf.String(), "A                     -inf             inf\n")
	assert.Contains(t, Markdown(s), "| A | -inf | inf |")

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, s))
	assert.Contains(t, buf.String(), `"max": "inf"`)
}

func TestMarkdownAndHTML(t *testing.T) {
	s := sampleSummary()
	s.Labels[1] = "b|c"
	s.Profiles[1].Label = "b|c"

	md := Markdown(s)
	assert.Contains(t, md, "| Variable | Mean | STD |")
	assert.Contains(t, md, "| A | 2.500000 | 1.290994 |")
	assert.Contains(t, md, "| b/c | 7.000000 | nan |")
	assert.Contains(t, md, "## Equality of variances not tested")
	assert.Contains(t, md, "- Equality of variances not tested, fewer than two columns")

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, s))
	html := buf.String()
	assert.Contains(t, html, "<title>Descriptive statistics</title>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "2.500000")
}

func TestWriteJSONAndYAML(t *testing.T) {
	s := sampleSummary()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "json", s))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "none", decoded["variance_equality"].(map[string]any)["method"])
	profiles := decoded["profiles"].([]any)
	assert.Nil(t, profiles[1].(map[string]any)["std_dev"])
	assert.Equal(t, 2.5, profiles[0].(map[string]any)["mean"])
	assert.NotContains(t, decoded, "Columns")

	buf.Reset()
	require.NoError(t, Write(&buf, "YAML", s))
	var y map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &y))
	assert.Equal(t, 4, y["rows"])
	assert.Contains(t, buf.String(), "std_dev: null")
}

func TestWriteDispatch(t *testing.T) {
	s := sampleSummary()
	for _, f := range []string{"text", "markdown", "md", "html", "json", "yaml"} {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, f, s), f)
		assert.NotEmpty(t, buf.String(), f)
	}

	err := Write(&bytes.Buffer{}, "pdf", s)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))

	_, err = ParseFormat(" Markdown ")
	assert.NoError(t, err)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteReportsWriterFailure(t *testing.T) {
	err := Write(failingWriter{}, "text", sampleSummary())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeIOError, apperrors.GetCode(err))
	assert.Contains(t, err.Error(), "disk full")
}
