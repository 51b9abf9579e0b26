package plot

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"regexp"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"statdesc/internal"
	"statdesc/internal/errors"
	"statdesc/ports"
)

var _ ports.Renderer = (*ChartRenderer)(nil)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ChartRenderer writes PNG figures into a directory.
type ChartRenderer struct {
	dir    string
	width  int
	height int
	logger *internal.Logger
}

// NewChartRenderer creates dir if needed. Width and height are the size of
// a single figure in pixels.
func NewChartRenderer(dir string, width, height int, logger *internal.Logger) (*ChartRenderer, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.ValidationError(fmt.Sprintf("plot size must be positive, got %dx%d", width, height))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.IOError(dir, err)
	}
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &ChartRenderer{dir: dir, width: width, height: height, logger: logger.With("ChartRenderer")}, nil
}

// Dir is the output directory.
func (r *ChartRenderer) Dir() string {
	return r.dir
}

// pointStyle renders points only (no connecting line)
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    3,
		DotColor:    col,
	}
}

func lineStyle(col drawing.Color, width float64, dashed bool) chart.Style {
	st := chart.Style{StrokeWidth: width, StrokeColor: col}
	if dashed {
		st.StrokeDashArray = []float64{6, 4}
	}
	return st
}

func frame(title string, w, h int) chart.Chart {
	return chart.Chart{
		Title:      title,
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
	}
}

func encode(ch chart.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(ch chart.Chart) (image.Image, error) {
	b, err := encode(ch)
	if err != nil {
		return nil, err
	}
	return png.Decode(bytes.NewReader(b))
}

func (r *ChartRenderer) save(ctx context.Context, name string, ch chart.Chart) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := encode(ch)
	if err != nil {
		return errors.RenderError(name, err)
	}
	return r.write(name, b)
}

func (r *ChartRenderer) write(name string, b []byte) error {
	path := filepath.Join(r.dir, name)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return errors.IOError(path, err)
	}
	r.logger.Debug("wrote %s (%d bytes)", path, len(b))
	return nil
}

func fileName(label, suffix string) string {
	base := unsafeName.ReplaceAllString(label, "_")
	if base == "" {
		base = "variable"
	}
	return base + suffix + ".png"
}

func seriesColor(j int) drawing.Color {
	return chart.GetDefaultColor(j)
}
