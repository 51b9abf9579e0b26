package plot

import (
	"context"
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"statdesc/ports"
)

const boxHalfWidth = 0.25

// RenderGroup writes all_variables.png and all_boxplot.png.
func (r *ChartRenderer) RenderGroup(ctx context.Context, plot ports.GroupPlot) error {
	var labels []string
	var samples [][]float64
	for j, clean := range plot.Clean {
		if len(clean) == 0 {
			continue
		}
		labels = append(labels, plot.Labels[j])
		samples = append(samples, clean)
	}
	if len(samples) == 0 {
		return nil
	}

	if err := r.save(ctx, "all_variables.png", r.allSeriesChart(plot)); err != nil {
		return err
	}
	return r.save(ctx, "all_boxplot.png", r.boxChart(groupBoxTitle(plot), labels, samples, true))
}

func groupBoxTitle(plot ports.GroupPlot) string {
	p, ok := plot.VarianceEquality.PValue.Get()
	if !plot.VarianceEquality.Ran() || !ok {
		return "Boxplot"
	}
	if p > plot.Alpha {
		return fmt.Sprintf("Boxplot (equality of variances, p=%f)", p)
	}
	return fmt.Sprintf("Boxplot (no equality of variances, p=%f)", p)
}

func (r *ChartRenderer) allSeriesChart(plot ports.GroupPlot) chart.Chart {
	ch := frame("All variables", r.width, r.height)

	lo, hi := math.Inf(1), math.Inf(-1)
	rows := 0
	for j, values := range plot.Columns {
		rows = max(rows, len(values))
		xs, ys := finite(values)
		if len(xs) == 0 {
			continue
		}
		for _, v := range ys {
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
		ch.Series = append(ch.Series, chart.ContinuousSeries{
			Name:    plot.Labels[j],
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(seriesColor(j), 1.5, false),
		})
	}
	lo, hi = padded(lo, hi)
	ch.XAxis = chart.XAxis{Name: "Index", Range: &chart.ContinuousRange{Min: -0.5, Max: float64(rows) - 0.5}}
	ch.YAxis = chart.YAxis{Name: "Value", Range: &chart.ContinuousRange{Min: lo, Max: hi}}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

// boxChart draws one Tukey boxplot per sample at x = 1..k. Samples must be
// non-empty.
func (r *ChartRenderer) boxChart(title string, labels []string, samples [][]float64, colored bool) chart.Chart {
	ch := frame(title, r.width, r.height)

	lo, hi := math.Inf(1), math.Inf(-1)
	ticks := make([]chart.Tick, len(samples))
	for j, x := range samples {
		b := Box(x)
		pos := float64(j + 1)
		ticks[j] = chart.Tick{Value: pos, Label: labels[j]}

		col := chart.ColorBlue
		if colored {
			col = seriesColor(j)
		}
		ch.Series = append(ch.Series, boxSeries(pos, b, col)...)

		lo = math.Min(lo, b.LowWhisker)
		hi = math.Max(hi, b.HighWhisker)
		for _, o := range b.Outliers {
			lo, hi = math.Min(lo, o), math.Max(hi, o)
		}
	}

	lo, hi = padded(lo, hi)
	ch.XAxis = chart.XAxis{
		Range: &chart.ContinuousRange{Min: 0.5, Max: float64(len(samples)) + 0.5},
		Ticks: ticks,
	}
	ch.YAxis = chart.YAxis{Range: &chart.ContinuousRange{Min: lo, Max: hi}}
	return ch
}

func boxSeries(pos float64, b BoxStats, col drawing.Color) []chart.Series {
	left, right := pos-boxHalfWidth, pos+boxHalfWidth
	serif := boxHalfWidth / 2
	line := lineStyle(col, 1.5, false)

	series := []chart.Series{
		chart.ContinuousSeries{
			XValues: []float64{left, right, right, left, left},
			YValues: []float64{b.Q1, b.Q1, b.Q3, b.Q3, b.Q1},
			Style:   line,
		},
		chart.ContinuousSeries{
			XValues: []float64{left, right},
			YValues: []float64{b.Median, b.Median},
			Style:   lineStyle(chart.ColorRed, 2, false),
		},
		chart.ContinuousSeries{XValues: []float64{pos, pos}, YValues: []float64{b.Q3, b.HighWhisker}, Style: line},
		chart.ContinuousSeries{XValues: []float64{pos, pos}, YValues: []float64{b.Q1, b.LowWhisker}, Style: line},
		chart.ContinuousSeries{XValues: []float64{pos - serif, pos + serif}, YValues: []float64{b.HighWhisker, b.HighWhisker}, Style: line},
		chart.ContinuousSeries{XValues: []float64{pos - serif, pos + serif}, YValues: []float64{b.LowWhisker, b.LowWhisker}, Style: line},
	}
	if len(b.Outliers) > 0 {
		xs := make([]float64, len(b.Outliers))
		for i := range xs {
			xs[i] = pos
		}
		series = append(series, chart.ContinuousSeries{XValues: xs, YValues: b.Outliers, Style: pointStyle(col)})
	}
	return series
}
