package descriptive

import (
	"context"
	"fmt"
	"time"

	"statdesc/domain/core"
	"statdesc/domain/dataset"
	"statdesc/domain/stats"
	"statdesc/internal"
	"statdesc/internal/errors"
	"statdesc/ports"
)

// ShowLevel controls which plots are handed to the renderer.
type ShowLevel int

const (
	// ShowNone draws nothing.
	ShowNone ShowLevel = iota
	// ShowGroup draws the all-variables plots only.
	ShowGroup
	// ShowAll draws one figure per variable plus the group plots.
	ShowAll
)

// Request holds the options of one description.
type Request struct {
	Missing dataset.MissingSpec
	Labels  []string
	Alpha   float64
	Show    ShowLevel
}

// DefaultRequest treats NaN as missing, uses alpha 0.05 and draws every plot.
func DefaultRequest() Request {
	return Request{Missing: dataset.MissingNaN(), Alpha: 0.05, Show: ShowAll}
}

// Validate rejects options outside their documented ranges.
func (r Request) Validate() error {
	if !(r.Alpha > 0 && r.Alpha < 1) {
		return errors.ValidationError(fmt.Sprintf("alpha must be in (0, 1), got %v", r.Alpha))
	}
	if r.Show < ShowNone || r.Show > ShowAll {
		return errors.ValidationError(fmt.Sprintf("show must be 0, 1 or 2, got %d", r.Show))
	}
	return nil
}

// Analyzer computes descriptive statistics and optionally hands the result
// to a renderer.
type Analyzer struct {
	logger   *internal.Logger
	renderer ports.Renderer
	now      func() time.Time
}

// NewAnalyzer creates an analyzer. A nil logger discards logs; a nil
// renderer disables plotting.
func NewAnalyzer(logger *internal.Logger, renderer ports.Renderer) *Analyzer {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &Analyzer{logger: logger, renderer: renderer, now: time.Now}
}

// Describe runs a description without plotting or logging.
func Describe(data any, req Request) (*stats.Summary, error) {
	return NewAnalyzer(nil, nil).Describe(context.Background(), data, req)
}

// Describe computes the summary of data. Invalid requests and non-numeric
// or ragged input fail the call; everything else (empty columns,
// degenerate tests, renderer failures) is recorded in Summary.Notices.
func (a *Analyzer) Describe(ctx context.Context, data any, req Request) (*stats.Summary, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	table, err := Coerce(data)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}

	norm := Normalize(table, req.Missing, req.Labels)
	summary := &stats.Summary{
		RunID:        core.NewRunID(),
		ComputedAt:   a.now().UTC(),
		Rows:         norm.Rows,
		Cols:         norm.Cols,
		MissingCount: norm.Missing,
		Alpha:        req.Alpha,
		Labels:       norm.Labels,
		Profiles:     make([]stats.Profile, norm.Cols),
		Columns:      norm.Columns,
		Clean:        norm.Clean,
	}
	a.logger.Debug("run %s: %d rows, %d columns, %d missing values (missing=%s)",
		summary.RunID, norm.Rows, norm.Cols, norm.Missing, req.Missing)

	for j, clean := range norm.Clean {
		profile, notices := SummarizeColumn(j, summary.Label(j), clean, norm.Rows)
		summary.Profiles[j] = profile
		a.notice(summary, notices...)
		if profile.N > 0 {
			summary.NonEmpty++
		}
		if profile.N > 2 {
			summary.Eligible++
		}
	}

	vt, err := TestVarianceEquality(norm.Clean, summary.Profiles)
	summary.VarianceEquality = vt
	switch {
	case err != nil:
		a.notice(summary, fmt.Sprintf("%s not computed: %v", vt.Method.Title(), err))
	case summary.NonEmpty > 1 && !vt.Ran():
		a.notice(summary, "Equality of variances not tested, fewer than two columns have more than two values")
	}

	a.render(ctx, summary, req)

	a.logger.Info("described %d columns (%d non-empty), variance test: %s",
		summary.Cols, summary.NonEmpty, summary.VarianceEquality.Method)
	return summary, nil
}

func (a *Analyzer) notice(s *stats.Summary, notices ...string) {
	for _, n := range notices {
		a.logger.Warn("%s", n)
		s.Notices = append(s.Notices, n)
	}
}

func (a *Analyzer) render(ctx context.Context, s *stats.Summary, req Request) {
	if a.renderer == nil || req.Show == ShowNone {
		return
	}

	if req.Show >= ShowAll {
		for j, p := range s.Profiles {
			if p.Empty() {
				continue
			}
			err := a.renderer.RenderVariable(ctx, ports.VariablePlot{
				Index:   j,
				Label:   s.Label(j),
				Values:  s.Columns[j],
				Clean:   s.Clean[j],
				Profile: p,
				Alpha:   s.Alpha,
			})
			if err != nil {
				a.notice(s, fmt.Sprintf("Plot of variable %s failed: %v", s.Label(j), err))
			}
		}
	}

	if s.Cols < 2 {
		return
	}
	group := ports.GroupPlot{
		Labels:           s.Labels[:s.Cols],
		Columns:          s.Columns,
		Clean:            s.Clean,
		Profiles:         s.Profiles,
		VarianceEquality: s.VarianceEquality,
		Alpha:            s.Alpha,
	}
	if err := a.renderer.RenderGroup(ctx, group); err != nil {
		a.notice(s, fmt.Sprintf("Plot of all variables failed: %v", err))
	}
	if err := a.renderer.RenderScatterMatrix(ctx, group); err != nil {
		a.notice(s, fmt.Sprintf("Scatterplot matrix failed: %v", err))
	}
}
