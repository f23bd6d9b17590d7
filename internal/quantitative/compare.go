package quantitative

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/edakit/internal/figure"
	"github.com/KaramelBytes/edakit/internal/frame"
	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/plot"
)

// presentColumns returns prefix+t for each time point whose column exists,
// with the matching time points.
func presentColumns(df dataframe.DataFrame, prefix string, times []string) (cols, at []string) {
	for _, t := range times {
		c := prefix + t
		if frame.Has(df, c) {
			cols = append(cols, c)
			at = append(at, t)
		}
	}
	return cols, at
}

// temporalPanel overlays one density histogram per group level for col, all
// levels sharing the same bin edges.
func temporalPanel(df dataframe.DataFrame, col, group, title string) (*plot.Plot, error) {
	levels, vals, err := frame.GroupFloats(df, col, group)
	if err != nil {
		return nil, err
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = col
	p.Y.Label.Text = "Density"
	lo, hi, ok := finiteRange(vals...)
	if !ok {
		return p, nil
	}
	total := 0
	for _, v := range vals {
		total += len(v)
	}
	bins := figure.AutoBins(total)
	colors := figure.Levels(len(levels))
	for i, lvl := range levels {
		if len(vals[i]) == 0 {
			continue
		}
		h := figure.HistogramRange(vals[i], lo, hi, bins, true, translucent(colors[i], 110))
		p.Add(h)
		p.Legend.Add(fmt.Sprintf("%s=%s", group, lvl), h)
	}
	p.Legend.Top = true
	return p, nil
}

// TemporalHistograms draws prefix+t for every time point as side by side
// panels, each overlaying the group levels; Evolution_<prefix>_by_<group>.png.
// Time points without a column are skipped; with none present nothing is
// written.
func TemporalHistograms(df dataframe.DataFrame, prefix string, times []string, group, dir string, opts ...figure.Option) error {
	cols, at := presentColumns(df, prefix, times)
	if len(cols) == 0 {
		return nil
	}
	if err := frame.Require(df, group); err != nil {
		return err
	}
	row := make([]*plot.Plot, len(cols))
	for i, c := range cols {
		p, err := temporalPanel(df, c, group, fmt.Sprintf("Time %s", at[i]))
		if err != nil {
			return err
		}
		row[i] = p
	}
	name := fmt.Sprintf("Evolution_%s_by_%s.png", prefix, group)
	return figure.SaveGrid(filepath.Join(dir, name), [][]*plot.Plot{row}, figure.Resolve(6*float64(len(cols)), 5, opts...))
}

// TemporalHistograms2 writes one figure per present time point;
// temporal_histogram_<prefix>_time_<t>_by_<group>.png (10x6).
func TemporalHistograms2(df dataframe.DataFrame, prefix string, times []string, group, dir string, opts ...figure.Option) error {
	cols, at := presentColumns(df, prefix, times)
	if len(cols) == 0 {
		return nil
	}
	if err := frame.Require(df, group); err != nil {
		return err
	}
	for i, c := range cols {
		p, err := temporalPanel(df, c, group, fmt.Sprintf("Distribution of %s at time %s by %s", prefix, at[i], group))
		if err != nil {
			return err
		}
		name := fmt.Sprintf("temporal_histogram_%s_time_%s_by_%s.png", prefix, at[i], group)
		if err := figure.Save(filepath.Join(dir, name), p, figure.Resolve(10, 6, opts...)); err != nil {
			return err
		}
	}
	return nil
}

// ScatterComparison plots y against x colored by the levels of hue;
// Comparaison_<x>_<y>.png (10x6).
func ScatterComparison(df dataframe.DataFrame, x, y, hue, dir string, opts ...figure.Option) error {
	if err := frame.Require(df, x, y, hue); err != nil {
		return err
	}
	xs, _ := frame.Floats(df, x)
	ys, _ := frame.Floats(df, y)
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs %s by %s", x, y, hue)
	p.X.Label.Text = x
	p.Y.Label.Text = y
	if err := hueByClass(p, xs, ys, df, hue); err != nil {
		return err
	}
	name := fmt.Sprintf("Comparaison_%s_%s.png", x, y)
	return figure.Save(filepath.Join(dir, name), p, figure.Resolve(10, 6, opts...))
}

// ViolinComparison draws the two variables in vars as violins per level of
// group, side by side; Distributions_<v1>_<v2>_by_<group>.png (14x6).
func ViolinComparison(df dataframe.DataFrame, vars []string, group, dir string, opts ...figure.Option) error {
	if len(vars) != 2 {
		return fmt.Errorf("%w: violin comparison needs exactly two variables, got %d", frame.ErrInvalidArgument, len(vars))
	}
	row := make([]*plot.Plot, len(vars))
	for i, v := range vars {
		levels, vals, err := frame.GroupFloats(df, v, group)
		if err != nil {
			return err
		}
		row[i] = violins(fmt.Sprintf("Distribution of %s by %s", v, group), group, v, levels, vals)
	}
	name := fmt.Sprintf("Distributions_%s_%s_by_%s.png", vars[0], vars[1], group)
	return figure.SaveGrid(filepath.Join(dir, name), [][]*plot.Plot{row}, figure.Resolve(14, 6, opts...))
}

// BoxplotsByDecision draws one panel of box plots per variable, split by the
// levels of decision; Boxplots_by_<decision>.png.
func BoxplotsByDecision(df dataframe.DataFrame, vars []string, decision, dir string, opts ...figure.Option) error {
	if len(vars) == 0 {
		return fmt.Errorf("%w: no variables to plot", frame.ErrInvalidArgument)
	}
	row := make([]*plot.Plot, len(vars))
	for i, v := range vars {
		levels, vals, err := frame.GroupFloats(df, v, decision)
		if err != nil {
			return err
		}
		p, err := boxes(fmt.Sprintf("%s by %s", v, decision), decision, v, levels, vals)
		if err != nil {
			return err
		}
		row[i] = p
	}
	name := fmt.Sprintf("Boxplots_by_%s.png", decision)
	return figure.SaveGrid(filepath.Join(dir, name), [][]*plot.Plot{row}, figure.Resolve(5*float64(len(vars)), 6, opts...))
}

// GroupBoxplot draws num split by the levels of cat;
// boxplot_<num>_by_<cat>.png (10x6).
func GroupBoxplot(df dataframe.DataFrame, num, cat, dir string, opts ...figure.Option) error {
	levels, vals, err := frame.GroupFloats(df, num, cat)
	if err != nil {
		return err
	}
	p, err := boxes(fmt.Sprintf("%s by %s", num, cat), cat, num, levels, vals)
	if err != nil {
		return err
	}
	if len(levels) > 8 {
		figure.RotateXTicks(p)
	}
	name := fmt.Sprintf("boxplot_%s_by_%s.png", num, cat)
	return figure.Save(filepath.Join(dir, name), p, figure.Resolve(10, 6, opts...))
}
