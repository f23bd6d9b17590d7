// Package quantitative plots numeric columns: correlation matrices,
// distributions, feature to target relations, box and letter-value plots,
// and the time-point comparisons of the speed dating survey.
package quantitative

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"

	"github.com/KaramelBytes/edakit/internal/analysis"
	"github.com/KaramelBytes/edakit/internal/figure"
	"github.com/KaramelBytes/edakit/internal/frame"
	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// DefaultClassificationThreshold is the largest number of distinct target
// values still treated as classes.
const DefaultClassificationThreshold = 10

var (
	skyBlue   = color.RGBA{R: 135, G: 206, B: 235, A: 255}
	slateGray = color.RGBA{R: 112, G: 128, B: 144, A: 255}
	crimson   = color.RGBA{R: 220, G: 20, B: 60, A: 255}
)

func threshold(t int) int {
	if t <= 0 {
		return DefaultClassificationThreshold
	}
	return t
}

// translucent returns c with the given alpha.
func translucent(c color.Color, alpha uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: alpha}
}

// CorrelationMatrix computes the pairwise Pearson matrix of the numeric
// columns of df and plots its lower triangle, diagonal included, annotated
// on a blue-red scale over [-1, 1]. It writes correlation_matrix.png (12x8).
func CorrelationMatrix(df dataframe.DataFrame, schema frame.Schema, dir string, opts ...figure.Option) (*analysis.CorrMatrix, error) {
	cols := schema.Numeric()
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: no numeric columns to correlate", frame.ErrInvalidArgument)
	}
	m, err := analysis.Correlate(df, cols)
	if err != nil {
		return nil, err
	}
	p, g := figure.Heatmap("Correlation matrix", m.Values, m.Columns, m.Columns, figure.Diverging())
	g.Min, g.Max = -1, 1
	g.Mask = func(r, c int) bool { return c > r }
	if len(cols) <= 25 {
		g.Format = "%.2f"
	}
	if err := figure.Save(filepath.Join(dir, "correlation_matrix.png"), p, figure.Resolve(12, 8, opts...)); err != nil {
		return nil, err
	}
	return m, nil
}

// CorrelationHeatmap plots the full annotated correlation matrix of vars;
// Heatmap_correlation.png (10x8).
func CorrelationHeatmap(df dataframe.DataFrame, vars []string, dir string, opts ...figure.Option) error {
	if len(vars) == 0 {
		return fmt.Errorf("%w: no variables to correlate", frame.ErrInvalidArgument)
	}
	m, err := analysis.Correlate(df, vars)
	if err != nil {
		return err
	}
	p, g := figure.Heatmap("Correlation between variables", m.Values, m.Columns, m.Columns, figure.Diverging())
	g.Min, g.Max = -1, 1
	g.Format = "%.2f"
	return figure.Save(filepath.Join(dir, "Heatmap_correlation.png"), p, figure.Resolve(10, 8, opts...))
}

// scatter returns a scatter plotter of the complete pairs of xs and ys.
func scatter(xs, ys []float64, clr color.Color, radius vg.Length) (*plotter.Scatter, int, error) {
	cx, cy := frame.Complete(xs, ys)
	if len(cx) == 0 {
		return nil, 0, nil
	}
	pts := make(plotter.XYs, len(cx))
	for i := range cx {
		pts[i] = plotter.XY{X: cx[i], Y: cy[i]}
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, 0, err
	}
	s.GlyphStyle = draw.GlyphStyle{Color: clr, Radius: radius, Shape: draw.CircleGlyph{}}
	return s, len(cx), nil
}

// violins builds one violin per level at positions 0..n-1 and returns the
// plot with the levels on the x axis.
func violins(title, xlabel, ylabel string, levels []string, vals [][]float64) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	colors := figure.Levels(len(levels))
	for i := range levels {
		if len(vals[i]) == 0 {
			continue
		}
		p.Add(figure.NewViolin(float64(i), vals[i], colors[i]))
	}
	if len(levels) > 0 {
		p.NominalX(levels...)
	}
	return p
}

// boxes builds vertical box plots per level.
func boxes(title, xlabel, ylabel string, levels []string, vals [][]float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	colors := figure.Levels(len(levels))
	for i := range levels {
		if len(vals[i]) == 0 {
			continue
		}
		b, err := plotter.NewBoxPlot(vg.Points(30), float64(i), plotter.Values(vals[i]))
		if err != nil {
			return nil, fmt.Errorf("box plot %s: %w", levels[i], err)
		}
		b.FillColor = colors[i]
		p.Add(b)
	}
	if len(levels) > 0 {
		p.NominalX(levels...)
	}
	return p, nil
}

// finiteRange returns the span of every finite value across samples.
func finiteRange(samples ...[]float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range samples {
		for _, v := range s {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi, !math.IsInf(lo, 0)
}
