package plot

import (
	"math"
	"sort"

	"statdesc/internal/analysis/descriptive"
)

// BoxStats are the Tukey boxplot positions of a sample.
type BoxStats struct {
	Q1, Median, Q3 float64
	// Whiskers reach the most extreme values within 1.5 IQR of the box.
	LowWhisker, HighWhisker float64
	Outliers                []float64
}

// Box computes boxplot positions. x must be non-empty and free of NaN.
func Box(x []float64) BoxStats {
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)

	b := BoxStats{
		Q1:     descriptive.Percentile(sorted, 25),
		Median: descriptive.Percentile(sorted, 50),
		Q3:     descriptive.Percentile(sorted, 75),
	}
	iqr := b.Q3 - b.Q1
	lo, hi := b.Q1-1.5*iqr, b.Q3+1.5*iqr

	b.LowWhisker, b.HighWhisker = b.Q1, b.Q3
	for _, v := range sorted {
		if v >= lo {
			b.LowWhisker = v
			break
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] <= hi {
			b.HighWhisker = sorted[i]
			break
		}
	}
	for _, v := range sorted {
		if v < lo || v > hi {
			b.Outliers = append(b.Outliers, v)
		}
	}
	return b
}

// Histogram is a density-normalized histogram.
type Histogram struct {
	Edges   []float64 // len(Density)+1
	Density []float64 // integrates to 1
}

// BinCount is 2√n below 100 observations and √n from there on.
func BinCount(n int) int {
	if n <= 0 {
		return 1
	}
	k := math.Sqrt(float64(n))
	if n < 100 {
		k *= 2
	}
	return int(math.Max(1, math.Ceil(k)))
}

// NewHistogram bins x into BinCount(len(x)) equal-width bins over its
// range. A constant sample gets a unit-wide bin centred on its value.
func NewHistogram(x []float64) Histogram {
	bins := BinCount(len(x))
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range x {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if len(x) == 0 {
		lo, hi = 0, 1
	}
	if hi == lo {
		lo, hi = lo-0.5, hi+0.5
	}

	width := (hi - lo) / float64(bins)
	h := Histogram{Edges: make([]float64, bins+1), Density: make([]float64, bins)}
	for i := range h.Edges {
		h.Edges[i] = lo + float64(i)*width
	}
	h.Edges[bins] = hi

	for _, v := range x {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		h.Density[i]++
	}
	if len(x) > 0 {
		for i := range h.Density {
			h.Density[i] /= float64(len(x)) * width
		}
	}
	return h
}

// Outline returns the step polygon tracing the bars, starting and ending
// on the baseline.
func (h Histogram) Outline() (xs, ys []float64) {
	xs = append(xs, h.Edges[0])
	ys = append(ys, 0)
	for i, d := range h.Density {
		xs = append(xs, h.Edges[i], h.Edges[i+1])
		ys = append(ys, d, d)
	}
	xs = append(xs, h.Edges[len(h.Edges)-1])
	ys = append(ys, 0)
	return xs, ys
}

// Centers returns n evenly spaced points between the first and last bin
// centres, for drawing a fitted density.
func (h Histogram) Centers(n int) []float64 {
	first := (h.Edges[0] + h.Edges[1]) / 2
	last := (h.Edges[len(h.Edges)-2] + h.Edges[len(h.Edges)-1]) / 2
	out := make([]float64, n)
	for i := range out {
		if n == 1 {
			out[i] = first
			continue
		}
		out[i] = first + (last-first)*float64(i)/float64(n-1)
	}
	return out
}

// padded widens [lo, hi] by 5% on both sides, or by 1 if it is empty.
func padded(lo, hi float64) (float64, float64) {
	if hi-lo <= 0 || math.IsNaN(hi-lo) {
		return lo - 1, hi + 1
	}
	pad := 0.05 * (hi - lo)
	return lo - pad, hi + pad
}

func finite(values []float64) (xs, ys []float64) {
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, v)
	}
	return xs, ys
}
