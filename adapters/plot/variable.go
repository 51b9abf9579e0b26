package plot

import (
	"context"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/gonum/stat/distuv"

	"statdesc/ports"
)

// RenderVariable writes <label>.png (values against index with the mean
// and mean±sd), <label>_box.png and <label>_hist.png.
func (r *ChartRenderer) RenderVariable(ctx context.Context, plot ports.VariablePlot) error {
	if len(plot.Clean) == 0 {
		return nil
	}

	if err := r.save(ctx, fileName(plot.Label, ""), r.seriesChart(plot)); err != nil {
		return err
	}
	if err := r.save(ctx, fileName(plot.Label, "_box"), r.boxChart("Boxplot", []string{plot.Label}, [][]float64{plot.Clean}, false)); err != nil {
		return err
	}
	return r.save(ctx, fileName(plot.Label, "_hist"), r.histogramChart(plot))
}

func (r *ChartRenderer) seriesChart(plot ports.VariablePlot) chart.Chart {
	p := plot.Profile
	title := fmt.Sprintf("Variable %s: Mean= %f, STD= %f", plot.Label, p.Mean.Float(), p.StdDev.Float())

	xs, ys := finite(plot.Values)
	n := float64(len(plot.Values))
	ch := frame(title, r.width, r.height)
	ch.XAxis = chart.XAxis{Name: "Index", Range: &chart.ContinuousRange{Min: -0.5, Max: n - 0.5}}
	lo, hi := padded(p.Min.Float(), p.Max.Float())
	ch.YAxis = chart.YAxis{Name: "Value", Range: &chart.ContinuousRange{Min: lo, Max: hi}}

	ch.Series = []chart.Series{
		chart.ContinuousSeries{Name: plot.Label, XValues: xs, YValues: ys, Style: pointStyle(chart.ColorBlue)},
	}
	if mean, ok := p.Mean.Get(); ok {
		ends := []float64{0, n - 1}
		ch.Series = append(ch.Series, chart.ContinuousSeries{
			Name: "mean", XValues: ends, YValues: []float64{mean, mean}, Style: lineStyle(chart.ColorRed, 2, false),
		})
		if sd, ok := p.StdDev.Get(); ok {
			ch.Series = append(ch.Series,
				chart.ContinuousSeries{Name: "mean+sd", XValues: ends, YValues: []float64{mean + sd, mean + sd}, Style: lineStyle(chart.ColorRed, 2, true)},
				chart.ContinuousSeries{Name: "mean-sd", XValues: ends, YValues: []float64{mean - sd, mean - sd}, Style: lineStyle(chart.ColorRed, 2, true)},
			)
		}
	}
	return ch
}

func (r *ChartRenderer) histogramChart(plot ports.VariablePlot) chart.Chart {
	title := "Histogram"
	if p, ok := plot.Profile.NormalityP.Get(); ok {
		distribution := "not normal"
		if p > plot.Alpha {
			distribution = "normal"
		}
		title = fmt.Sprintf("Histogram (%s, p=%1.3f)", distribution, p)
	}
	return histogramFigure(title, plot.Clean, plot.Profile.Mean.Float(), plot.Profile.StdDev.Float(), r.width, r.height)
}

// histogramFigure draws the density histogram of x and, when sd > 0, the
// normal density with the sample mean and sd.
func histogramFigure(title string, x []float64, mean, sd float64, w, h int) chart.Chart {
	hist := NewHistogram(x)
	xs, ys := hist.Outline()

	ch := frame(title, w, h)
	ch.XAxis = chart.XAxis{Name: "Value"}
	ch.Series = []chart.Series{
		chart.ContinuousSeries{
			Name:    "histogram",
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: 1,
				StrokeColor: chart.ColorBlue,
				FillColor:   chart.ColorBlue.WithAlpha(96),
			},
		},
	}

	top := 0.0
	for _, d := range hist.Density {
		if d > top {
			top = d
		}
	}
	if sd > 0 {
		centers := hist.Centers(100)
		norm := distuv.Normal{Mu: mean, Sigma: sd}
		pdf := make([]float64, len(centers))
		for i, c := range centers {
			pdf[i] = norm.Prob(c)
			if pdf[i] > top {
				top = pdf[i]
			}
		}
		ch.Series = append(ch.Series, chart.ContinuousSeries{
			Name: "normal", XValues: centers, YValues: pdf, Style: lineStyle(chart.ColorRed, 2, false),
		})
	}
	if top <= 0 {
		top = 1
	}
	ch.YAxis = chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: top * 1.05}}
	return ch
}
