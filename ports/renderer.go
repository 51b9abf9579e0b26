package ports

import (
	"context"

	"statdesc/domain/stats"
)

// Renderer draws plots for a finished description. It is optional: the
// analyzer skips plotting when no renderer is configured.
type Renderer interface {
	RenderVariable(ctx context.Context, plot VariablePlot) error
	RenderGroup(ctx context.Context, plot GroupPlot) error
	RenderScatterMatrix(ctx context.Context, plot GroupPlot) error
}

// VariablePlot carries one column to a renderer.
type VariablePlot struct {
	Index   int
	Label   string
	Values  []float64 // after sentinel replacement, NaN for missing
	Clean   []float64
	Profile stats.Profile
	Alpha   float64
}

// GroupPlot carries all columns to a renderer.
type GroupPlot struct {
	Labels           []string
	Columns          [][]float64
	Clean            [][]float64
	Profiles         []stats.Profile
	VarianceEquality stats.VarianceTest
	Alpha            float64
}
