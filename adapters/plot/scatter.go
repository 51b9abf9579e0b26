package plot

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"statdesc/internal/errors"
	"statdesc/ports"
)

const (
	matrixTitle    = "Scatterplot Matrix"
	matrixHeader   = 28
	minMatrixPanel = 160
)

// RenderScatterMatrix writes scatter_matrix.png: a k×k grid over the
// non-empty columns with histograms on the diagonal and pairwise scatter
// plots elsewhere.
func (r *ChartRenderer) RenderScatterMatrix(ctx context.Context, plot ports.GroupPlot) error {
	var idx []int
	for j, clean := range plot.Clean {
		if len(clean) > 0 {
			idx = append(idx, j)
		}
	}
	k := len(idx)
	if k < 2 {
		return nil
	}

	panel := max(r.height/k, minMatrixPanel)
	canvas := image.NewRGBA(image.Rect(0, 0, k*panel, k*panel+matrixHeader))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	for row, i := range idx {
		for col, j := range idx {
			if err := ctx.Err(); err != nil {
				return err
			}
			var ch chart.Chart
			if row == col {
				p := plot.Profiles[i]
				ch = histogramFigure(plot.Labels[i], plot.Clean[i], p.Mean.Float(), p.StdDev.Float(), panel, panel)
			} else {
				var ok bool
				ch, ok = pairChart(plot, j, i, panel)
				if !ok {
					continue
				}
			}
			ch.Background.Padding = chart.Box{Top: 24, Left: 8, Right: 8, Bottom: 8}
			img, err := decode(ch)
			if err != nil {
				return errors.RenderError(matrixTitle, err)
			}
			at := image.Pt(col*panel, row*panel+matrixHeader)
			draw.Draw(canvas, image.Rectangle{Min: at, Max: at.Add(img.Bounds().Size())}, img, img.Bounds().Min, draw.Src)
		}
	}
	label(canvas, matrixTitle, (canvas.Bounds().Dx()-7*len(matrixTitle))/2, 18)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return errors.RenderError(matrixTitle, err)
	}
	return r.write("scatter_matrix.png", buf.Bytes())
}

// pairChart plots column y against column x over the rows where both are
// observed. ok is false when no row has both.
func pairChart(plot ports.GroupPlot, x, y, size int) (chart.Chart, bool) {
	var xs, ys []float64
	cx, cy := plot.Columns[x], plot.Columns[y]
	for i := 0; i < len(cx) && i < len(cy); i++ {
		if math.IsNaN(cx[i]) || math.IsNaN(cy[i]) {
			continue
		}
		xs = append(xs, cx[i])
		ys = append(ys, cy[i])
	}
	if len(xs) == 0 {
		return chart.Chart{}, false
	}

	px, py := plot.Profiles[x], plot.Profiles[y]
	xlo, xhi := padded(px.Min.Float(), px.Max.Float())
	ylo, yhi := padded(py.Min.Float(), py.Max.Float())

	ch := frame("", size, size)
	ch.XAxis = chart.XAxis{Range: &chart.ContinuousRange{Min: xlo, Max: xhi}}
	ch.YAxis = chart.YAxis{Range: &chart.ContinuousRange{Min: ylo, Max: yhi}}
	ch.Series = []chart.Series{
		chart.ContinuousSeries{XValues: xs, YValues: ys, Style: pointStyle(seriesColor(y))},
	}
	return ch, true
}

func label(dst draw.Image, s string, x, y int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(max(x, 0), y),
	}
	d.DrawString(s)
}
