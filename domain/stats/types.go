package stats

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"statdesc/domain/core"
)

// Estimate is a statistic that may be undefined, e.g. a confidence interval
// for a single observation. The zero value is undefined.
type Estimate struct {
	Value float64
	Valid bool
}

// Defined wraps a computed value. NaN is kept as undefined; infinities are
// defined values, e.g. the maximum of a column holding +Inf.
func Defined(v float64) Estimate {
	if math.IsNaN(v) {
		return Estimate{}
	}
	return Estimate{Value: v, Valid: true}
}

// Undefined is the explicit absent value.
var Undefined = Estimate{}

// Get returns the value and whether it is defined.
func (e Estimate) Get() (float64, bool) {
	return e.Value, e.Valid
}

// Float returns the value, or NaN when undefined.
func (e Estimate) Float() float64 {
	if !e.Valid {
		return math.NaN()
	}
	return e.Value
}

// MarshalJSON writes undefined as null and infinities as "inf" or "-inf",
// which JSON numbers cannot hold.
func (e Estimate) MarshalJSON() ([]byte, error) {
	switch {
	case !e.Valid:
		return []byte("null"), nil
	case math.IsInf(e.Value, 1):
		return []byte(`"inf"`), nil
	case math.IsInf(e.Value, -1):
		return []byte(`"-inf"`), nil
	}
	return json.Marshal(e.Value)
}

func (e *Estimate) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case "null":
		*e = Estimate{}
		return nil
	case `"inf"`:
		*e = Defined(math.Inf(1))
		return nil
	case `"-inf"`:
		*e = Defined(math.Inf(-1))
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*e = Defined(v)
	return nil
}

// MarshalYAML encodes undefined values as null.
func (e Estimate) MarshalYAML() (interface{}, error) {
	if !e.Valid {
		return nil, nil
	}
	return e.Value, nil
}

// Profile is the fixed statistical profile of one column.
type Profile struct {
	Label   string `json:"label" yaml:"label"`
	N       int    `json:"n" yaml:"n"`
	Missing int    `json:"missing" yaml:"missing"`

	Mean   Estimate `json:"mean" yaml:"mean"`
	StdDev Estimate `json:"std_dev" yaml:"std_dev"`

	// 95% confidence interval of the mean with unknown population STD
	CILower Estimate `json:"ci_lower" yaml:"ci_lower"`
	CIUpper Estimate `json:"ci_upper" yaml:"ci_upper"`

	Min Estimate `json:"min" yaml:"min"`
	Max Estimate `json:"max" yaml:"max"`

	Median Estimate `json:"median" yaml:"median"`
	Q25    Estimate `json:"q25" yaml:"q25"`
	Q75    Estimate `json:"q75" yaml:"q75"`

	// Shapiro-Wilk
	W          Estimate `json:"w" yaml:"w"`
	NormalityP Estimate `json:"normality_p" yaml:"normality_p"`
}

// Empty reports whether the column had no observed values.
func (p Profile) Empty() bool {
	return p.N == 0
}

// VarianceMethod names the equality-of-variance test that was run.
type VarianceMethod string

const (
	MethodNone     VarianceMethod = "none"
	MethodBartlett VarianceMethod = "bartlett"
	MethodLevene   VarianceMethod = "levene"
)

// Title returns the human readable test name.
func (m VarianceMethod) Title() string {
	switch m {
	case MethodBartlett:
		return "Bartlett's test"
	case MethodLevene:
		return "Levene's test"
	default:
		return "no test"
	}
}

// VarianceTest is the single cross-column equality-of-variance result.
type VarianceTest struct {
	Method    VarianceMethod `json:"method" yaml:"method"`
	Statistic Estimate       `json:"statistic" yaml:"statistic"`
	PValue    Estimate       `json:"p_value" yaml:"p_value"`
}

// Ran reports whether a test was selected.
func (v VarianceTest) Ran() bool {
	return v.Method == MethodBartlett || v.Method == MethodLevene
}

// Summary is everything computed by one invocation.
type Summary struct {
	RunID      core.RunID `json:"run_id" yaml:"run_id"`
	ComputedAt time.Time  `json:"computed_at" yaml:"computed_at"`

	Rows         int     `json:"rows" yaml:"rows"`
	Cols         int     `json:"cols" yaml:"cols"`
	MissingCount int     `json:"missing_count" yaml:"missing_count"`
	NonEmpty     int     `json:"non_empty" yaml:"non_empty"`
	Eligible     int     `json:"eligible" yaml:"eligible"`
	Alpha        float64 `json:"alpha" yaml:"alpha"`

	Labels           []string     `json:"labels" yaml:"labels"`
	Profiles         []Profile    `json:"profiles" yaml:"profiles"`
	VarianceEquality VarianceTest `json:"variance_equality" yaml:"variance_equality"`
	Notices          []string     `json:"notices,omitempty" yaml:"notices,omitempty"`

	// Columns holds the input after sentinel replacement, Clean the
	// per-column values without missing entries. Kept for renderers.
	Columns [][]float64 `json:"-" yaml:"-"`
	Clean   [][]float64 `json:"-" yaml:"-"`
}

// MeanSD returns (mean, sd) per column, NaN where undefined.
func (s *Summary) MeanSD() [][2]float64 {
	out := make([][2]float64, len(s.Profiles))
	for i, p := range s.Profiles {
		out[i] = [2]float64{p.Mean.Float(), p.StdDev.Float()}
	}
	return out
}

// CI returns (lower, upper) per column.
func (s *Summary) CI() [][2]float64 {
	out := make([][2]float64, len(s.Profiles))
	for i, p := range s.Profiles {
		out[i] = [2]float64{p.CILower.Float(), p.CIUpper.Float()}
	}
	return out
}

// MinMax returns (min, max) per column.
func (s *Summary) MinMax() [][2]float64 {
	out := make([][2]float64, len(s.Profiles))
	for i, p := range s.Profiles {
		out[i] = [2]float64{p.Min.Float(), p.Max.Float()}
	}
	return out
}

// Quartiles returns (median, 25th, 75th percentile) per column.
func (s *Summary) Quartiles() [][3]float64 {
	out := make([][3]float64, len(s.Profiles))
	for i, p := range s.Profiles {
		out[i] = [3]float64{p.Median.Float(), p.Q25.Float(), p.Q75.Float()}
	}
	return out
}

// Normality returns (W, p) per column.
func (s *Summary) Normality() [][2]float64 {
	out := make([][2]float64, len(s.Profiles))
	for i, p := range s.Profiles {
		out[i] = [2]float64{p.W.Float(), p.NormalityP.Float()}
	}
	return out
}

// EqVar returns (statistic, p) of the variance-equality test.
func (s *Summary) EqVar() [2]float64 {
	return [2]float64{s.VarianceEquality.Statistic.Float(), s.VarianceEquality.PValue.Float()}
}

// Label returns the label of column j, synthesizing one if needed.
func (s *Summary) Label(j int) string {
	if j < len(s.Labels) && s.Labels[j] != "" {
		return s.Labels[j]
	}
	return strconv.Itoa(j + 1)
}
