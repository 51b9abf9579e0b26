package app

import (
	"context"
	"io"

	"statdesc/adapters/report"
	"statdesc/domain/stats"
	"statdesc/internal"
	"statdesc/internal/analysis/descriptive"
	"statdesc/internal/config"
	"statdesc/internal/errors"
	"statdesc/ports"
)

// SourceFactory opens a table source for a file path.
type SourceFactory func(path string) (ports.TableSource, error)

// DescribeService reads tables, describes them and writes the report in
// the configured format.
type DescribeService struct {
	cfg      *config.Config
	open     SourceFactory
	coercer  ports.TableCoercer
	analyzer *descriptive.Analyzer
	logger   *internal.Logger
}

// NewDescribeService wires a service. renderer may be nil to disable plots.
func NewDescribeService(cfg *config.Config, open SourceFactory, coercer ports.TableCoercer, renderer ports.Renderer, logger *internal.Logger) *DescribeService {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &DescribeService{
		cfg:      cfg,
		open:     open,
		coercer:  coercer,
		analyzer: descriptive.NewAnalyzer(logger.With("analyzer"), renderer),
		logger:   logger.With("DescribeService"),
	}
}

// Request builds the analysis request from the configuration.
func (s *DescribeService) Request() (descriptive.Request, error) {
	missing, err := s.cfg.Missing()
	if err != nil {
		return descriptive.Request{}, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return descriptive.Request{
		Missing: missing,
		Labels:  s.cfg.Analysis.Labels,
		Alpha:   s.cfg.Analysis.Alpha,
		Show:    descriptive.ShowLevel(s.cfg.Analysis.Show),
	}, nil
}

// DescribeFile reads path, describes it and writes the report to w. Header
// names label the columns unless labels are configured.
func (s *DescribeService) DescribeFile(ctx context.Context, path string, w io.Writer) (*stats.Summary, error) {
	if s.open == nil || s.coercer == nil {
		return nil, errors.InternalError("describe service has no table reader")
	}
	src, err := s.open(path)
	if err != nil {
		return nil, err
	}
	raw, err := src.ReadTable(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	table, err := s.coercer.Coerce(raw)
	if err != nil {
		return nil, errors.Wrapf(errors.WithCode(errors.CodeInvalidInput, err), "parse %s", path)
	}
	s.logger.Debug("read %s: %d rows, %d columns", path, table.Rows(), table.Cols())

	req, err := s.Request()
	if err != nil {
		return nil, err
	}
	if len(req.Labels) == 0 && hasNames(raw.Headers) {
		req.Labels = raw.Headers
	}
	return s.run(ctx, table, req, w)
}

// Describe describes in-memory data (any shape the analyzer accepts) and
// writes the report to w.
func (s *DescribeService) Describe(ctx context.Context, data any, w io.Writer) (*stats.Summary, error) {
	req, err := s.Request()
	if err != nil {
		return nil, err
	}
	return s.run(ctx, data, req, w)
}

func (s *DescribeService) run(ctx context.Context, data any, req descriptive.Request, w io.Writer) (*stats.Summary, error) {
	summary, err := s.analyzer.Describe(ctx, data, req)
	if err != nil {
		return nil, err
	}
	if w != nil {
		if err := report.Write(w, s.cfg.Report.Format, summary); err != nil {
			return summary, err
		}
	}
	s.logger.Info("run %s: %d notices", summary.RunID, len(summary.Notices))
	return summary, nil
}

func hasNames(headers []string) bool {
	for _, h := range headers {
		if h != "" {
			return true
		}
	}
	return false
}
