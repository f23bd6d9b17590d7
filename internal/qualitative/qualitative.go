// Package qualitative plots categorical columns: value counts as bars and
// pies, contingency tables as heatmaps and stacked bars, grouped counts and
// mosaics.
package qualitative

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/KaramelBytes/edakit/internal/figure"
	"github.com/KaramelBytes/edakit/internal/frame"
	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func noValues(col string) error {
	return fmt.Errorf("%w: column %q has no values", frame.ErrInvalidArgument, col)
}

// barWidth spreads n bars (or groups) over roughly six inches.
func barWidth(n int) vg.Length {
	if n < 1 {
		n = 1
	}
	return vg.Points(math.Min(40, 430/float64(n)))
}

// BarChart plots the value counts of col as bars; bar_<col>.png, 10x6.
func BarChart(df dataframe.DataFrame, col, dir string, opts ...figure.Option) error {
	counts, err := frame.ValueCounts(df, col)
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		return noValues(col)
	}
	vals := make(plotter.Values, len(counts))
	names := make([]string, len(counts))
	for i, c := range counts {
		vals[i] = float64(c.Count)
		names[i] = c.Value
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Distribution of %s", col)
	p.X.Label.Text = col
	p.Y.Label.Text = "Frequency"
	bars, err := plotter.NewBarChart(vals, barWidth(len(vals)))
	if err != nil {
		return fmt.Errorf("bar chart %s: %w", col, err)
	}
	bars.Color = skyBlue
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)
	figure.RotateXTicks(p)
	return figure.Save(filepath.Join(dir, fmt.Sprintf("bar_%s.png", col)), p, figure.Resolve(10, 6, opts...))
}

// PieChart plots the value counts of col as labelled wedges with
// percentages, starting at twelve o'clock; pie_<col>.png, 8x8.
func PieChart(df dataframe.DataFrame, col, dir string, opts ...figure.Option) error {
	counts, err := frame.ValueCounts(df, col)
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		return noValues(col)
	}
	pie := &figure.Pie{}
	for _, c := range counts {
		pie.Values = append(pie.Values, float64(c.Count))
		pie.Labels = append(pie.Labels, c.Value)
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Distribution of %s", col)
	p.HideAxes()
	p.Add(pie)
	return figure.Save(filepath.Join(dir, fmt.Sprintf("pie_%s.png", col)), p, figure.Resolve(8, 8, opts...))
}

// ContingencyHeatmap plots the annotated contingency table of col1 (rows)
// against col2 (columns); heatmap_<col1>_vs_<col2>.png, 10x8.
func ContingencyHeatmap(df dataframe.DataFrame, col1, col2, dir string, opts ...figure.Option) error {
	ct, err := frame.CrossTabulate(df, col1, col2)
	if err != nil {
		return err
	}
	if len(ct.Rows) == 0 {
		return fmt.Errorf("%w: no rows with both %q and %q", frame.ErrInvalidArgument, col1, col2)
	}
	vals := make([][]float64, len(ct.Counts))
	for i, row := range ct.Counts {
		vals[i] = make([]float64, len(row))
		for j, c := range row {
			vals[i][j] = float64(c)
		}
	}
	p, g := figure.Heatmap(fmt.Sprintf("Contingency table of %s and %s", col1, col2), vals, ct.Rows, ct.Cols, figure.Heat())
	g.Format = "%.0f"
	p.X.Label.Text = col2
	p.Y.Label.Text = col1
	return figure.Save(filepath.Join(dir, fmt.Sprintf("heatmap_%s_vs_%s.png", col1, col2)), p, figure.Resolve(10, 8, opts...))
}

// StackedBar plots, per level of col1, the percentage split of col2 as
// stacked bars; stacked_bar_<col1>_vs_<col2>.png, 10x6.
func StackedBar(df dataframe.DataFrame, col1, col2, dir string, opts ...figure.Option) error {
	ct, err := frame.CrossTabulate(df, col1, col2)
	if err != nil {
		return err
	}
	if len(ct.Rows) == 0 {
		return fmt.Errorf("%w: no rows with both %q and %q", frame.ErrInvalidArgument, col1, col2)
	}
	norm := ct.Normalized()
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Distribution of %s by %s (%%)", col2, col1)
	p.X.Label.Text = col1
	p.Y.Label.Text = "Percentage"
	p.Legend.Top = true
	p.Legend.Add(col2)
	w := barWidth(len(ct.Rows))
	var below *plotter.BarChart
	for j, level := range ct.Cols {
		vals := make(plotter.Values, len(ct.Rows))
		for i := range ct.Rows {
			vals[i] = norm[i][j]
		}
		bars, err := plotter.NewBarChart(vals, w)
		if err != nil {
			return fmt.Errorf("stacked bar %s: %w", level, err)
		}
		bars.Color = figure.Categorical(j)
		bars.LineStyle.Width = 0
		if below != nil {
			bars.StackOn(below)
		}
		below = bars
		p.Add(bars)
		p.Legend.Add(level, bars)
	}
	p.NominalX(ct.Rows...)
	figure.RotateXTicks(p)
	p.Y.Max = math.Max(p.Y.Max, 100)
	return figure.Save(filepath.Join(dir, fmt.Sprintf("stacked_bar_%s_vs_%s.png", col1, col2)), p, figure.Resolve(10, 6, opts...))
}

// CountPlotWithHue plots the counts of x split into side-by-side bars per
// level of hue; countplot_<x>_by_<hue>.png, 10x6.
func CountPlotWithHue(df dataframe.DataFrame, x, hue, dir string, opts ...figure.Option) error {
	ct, err := frame.CrossTabulate(df, x, hue)
	if err != nil {
		return err
	}
	if len(ct.Rows) == 0 {
		return fmt.Errorf("%w: no rows with both %q and %q", frame.ErrInvalidArgument, x, hue)
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Count of %s by %s", x, hue)
	p.X.Label.Text = x
	p.Y.Label.Text = "Count"
	p.Legend.Top = true
	p.Legend.Add(hue)
	k := len(ct.Cols)
	w := barWidth(len(ct.Rows)*k) * 0.9
	colors := figure.Levels(k)
	for j, level := range ct.Cols {
		vals := make(plotter.Values, len(ct.Rows))
		for i := range ct.Rows {
			vals[i] = float64(ct.Counts[i][j])
		}
		bars, err := plotter.NewBarChart(vals, w)
		if err != nil {
			return fmt.Errorf("count plot %s: %w", level, err)
		}
		bars.Color = colors[j]
		bars.LineStyle.Width = 0
		bars.Offset = vg.Length(float64(j)-float64(k-1)/2) * w
		p.Add(bars)
		p.Legend.Add(level, bars)
	}
	p.NominalX(ct.Rows...)
	figure.RotateXTicks(p)
	return figure.Save(filepath.Join(dir, fmt.Sprintf("countplot_%s_by_%s.png", x, hue)), p, figure.Resolve(10, 6, opts...))
}
