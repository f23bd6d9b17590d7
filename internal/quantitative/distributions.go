package quantitative

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/KaramelBytes/edakit/internal/figure"
	"github.com/KaramelBytes/edakit/internal/frame"
	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// FeatureDistributions writes, per numeric column, a density histogram with
// its kernel density estimate beside a normal QQ-plot; <col>_distribution.png (12x4).
func FeatureDistributions(df dataframe.DataFrame, schema frame.Schema, dir string, opts ...figure.Option) error {
	for _, col := range schema.Numeric() {
		xs, err := frame.Floats(df, col)
		if err != nil {
			return err
		}
		vals := frame.Dropna(xs)
		hist, err := histogramKDE(col, vals)
		if err != nil {
			return err
		}
		qq, err := qqPlot(col, vals)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_distribution.png", col))
		if err := figure.SaveGrid(path, [][]*plot.Plot{{hist, qq}}, figure.Resolve(12, 4, opts...)); err != nil {
			return err
		}
	}
	return nil
}

func histogramKDE(col string, vals []float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Distribution of %s", col)
	p.X.Label.Text = col
	p.Y.Label.Text = "Density"
	if len(vals) == 0 {
		return p, nil
	}
	p.Add(figure.Histogram(vals, figure.AutoBins(len(vals)), true, skyBlue))
	lo, hi := figure.Extent(vals, 0)
	if curve := figure.KDE(vals, lo, hi, 128); curve != nil {
		l, err := plotter.NewLine(curve)
		if err != nil {
			return nil, fmt.Errorf("kde %s: %w", col, err)
		}
		l.LineStyle.Color = skyBlue
		l.LineStyle.Width = vg.Points(2)
		p.Add(l)
	}
	return p, nil
}

// qqPlot compares the ordered sample against standard normal quantiles at
// plotting positions (i+0.5)/n, with a least-squares reference line.
func qqPlot(col string, vals []float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("QQ-Plot of %s", col)
	p.X.Label.Text = "Theoretical quantiles"
	p.Y.Label.Text = "Ordered values"
	n := len(vals)
	if n == 0 {
		return p, nil
	}
	ys := append([]float64(nil), vals...)
	sort.Float64s(ys)
	xs := make([]float64, n)
	pts := make(plotter.XYs, n)
	for i := range ys {
		xs[i] = distuv.UnitNormal.Quantile((float64(i) + 0.5) / float64(n))
		pts[i] = plotter.XY{X: xs[i], Y: ys[i]}
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("qq %s: %w", col, err)
	}
	s.GlyphStyle.Color = slateGray
	p.Add(s)
	if n >= 2 {
		alpha, beta := stat.LinearRegression(xs, ys, nil, false)
		line, err := plotter.NewLine(plotter.XYs{
			{X: xs[0], Y: alpha + beta*xs[0]},
			{X: xs[n-1], Y: alpha + beta*xs[n-1]},
		})
		if err != nil {
			return nil, fmt.Errorf("qq line %s: %w", col, err)
		}
		line.LineStyle.Color = crimson
		p.Add(line)
	}
	return p, nil
}

// Boxplots writes one horizontal box plot per numeric column of X;
// <col>_boxplot.png (10x4).
func Boxplots(X dataframe.DataFrame, schema frame.Schema, dir string, opts ...figure.Option) error {
	for _, col := range schema.Numeric() {
		xs, err := frame.Floats(X, col)
		if err != nil {
			return err
		}
		vals := frame.Dropna(xs)
		p := plot.New()
		p.Title.Text = fmt.Sprintf("Distribution of %s", col)
		p.X.Label.Text = col
		if len(vals) > 0 {
			b, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(vals))
			if err != nil {
				return fmt.Errorf("box plot %s: %w", col, err)
			}
			b.Horizontal = true
			b.FillColor = skyBlue
			p.Add(b)
		}
		p.Y.Tick.Marker = plot.ConstantTicks(nil)
		path := filepath.Join(dir, fmt.Sprintf("%s_boxplot.png", col))
		if err := figure.Save(path, p, figure.Resolve(10, 4, opts...)); err != nil {
			return err
		}
	}
	return nil
}

// Boxenplot draws a horizontal letter-value plot per numeric column of X on
// shared axes; outliers_detection.png (12x6).
func Boxenplot(X dataframe.DataFrame, schema frame.Schema, dir string, opts ...figure.Option) error {
	cols := schema.Numeric()
	if len(cols) == 0 {
		return fmt.Errorf("%w: no numeric columns", frame.ErrInvalidArgument)
	}
	p := plot.New()
	p.Title.Text = "Feature distributions with outlier detection (boxenplot)"
	names := make([]string, len(cols))
	for i, col := range cols {
		xs, err := frame.Floats(X, col)
		if err != nil {
			return err
		}
		// first column on top
		pos := float64(len(cols) - 1 - i)
		names[len(cols)-1-i] = col
		if vals := frame.Dropna(xs); len(vals) > 0 {
			p.Add(figure.NewBoxen(pos, vals, figure.Categorical(i)))
		}
	}
	p.NominalY(names...)
	return figure.Save(filepath.Join(dir, "outliers_detection.png"), p, figure.Resolve(12, 6, opts...))
}
