package quantitative

import (
	"fmt"
	"log/slog"
	"math"
	"path/filepath"

	"github.com/KaramelBytes/edakit/internal/analysis"
	"github.com/KaramelBytes/edakit/internal/figure"
	"github.com/KaramelBytes/edakit/internal/frame"
	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// FeatureTargetRelations plots every numeric feature of X against every
// target column of y. Targets with at most threshold distinct values are
// treated as classes and drawn as violins, others as a scatter with a least
// squares fit and its 95% confidence band. Files are
// relation_<feature>_vs_<target>.png (10x6). A threshold <= 0 uses
// DefaultClassificationThreshold.
func FeatureTargetRelations(X, y dataframe.DataFrame, dir string, thr int, opts ...figure.Option) error {
	if X.Nrow() != y.Nrow() {
		return fmt.Errorf("%w: features have %d rows, targets %d", frame.ErrInvalidArgument, X.Nrow(), y.Nrow())
	}
	thr = threshold(thr)
	features := frame.Classify(X).Numeric()
	for _, target := range y.Names() {
		nu, err := frame.NUnique(y, target)
		if err != nil {
			return err
		}
		for _, feat := range features {
			xs, err := frame.Floats(X, feat)
			if err != nil {
				return err
			}
			var p *plot.Plot
			if nu <= thr {
				labels, missing, err := frame.Labels(y, target)
				if err != nil {
					return err
				}
				levels, vals := groupBy(xs, labels, missing)
				p = violins(fmt.Sprintf("%s by %s", feat, target), target, feat, levels, vals)
			} else {
				ys, err := frame.Floats(y, target)
				if err != nil {
					return err
				}
				p, err = regression(feat, target, xs, ys)
				if err != nil {
					return err
				}
			}
			path := filepath.Join(dir, fmt.Sprintf("relation_%s_vs_%s.png", feat, target))
			if err := figure.Save(path, p, figure.Resolve(10, 6, opts...)); err != nil {
				return err
			}
		}
	}
	return nil
}

// groupBy splits the finite values of xs by label, in Levels order.
func groupBy(xs []float64, labels []string, missing []bool) ([]string, [][]float64) {
	levels := frame.Levels(labels, missing)
	idx := make(map[string]int, len(levels))
	for i, l := range levels {
		idx[l] = i
	}
	out := make([][]float64, len(levels))
	for i, x := range xs {
		if missing[i] || math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		k := idx[labels[i]]
		out[k] = append(out[k], x)
	}
	return levels, out
}

// regression draws ys against xs with the OLS line and a 95% confidence band
// for the mean response.
func regression(feat, target string, xs, ys []float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs %s", feat, target)
	p.X.Label.Text = feat
	p.Y.Label.Text = target
	s, n, err := scatter(xs, ys, translucent(slateGray, 128), vg.Points(2.5))
	if err != nil {
		return nil, fmt.Errorf("scatter %s: %w", feat, err)
	}
	if s == nil {
		return p, nil
	}
	p.Add(s)
	if n < 2 {
		return p, nil
	}
	cx, cy := frame.Complete(xs, ys)
	alpha, beta := stat.LinearRegression(cx, cy, nil, false)
	lo, hi, _ := finiteRange(cx)
	if hi == lo {
		return p, nil
	}
	const points = 50
	grid := make([]float64, points)
	fit := make(plotter.XYs, points)
	for i := range grid {
		grid[i] = lo + (hi-lo)*float64(i)/float64(points-1)
		fit[i] = plotter.XY{X: grid[i], Y: alpha + beta*grid[i]}
	}
	if lower, upper, ok := confidenceBand(cx, cy, alpha, beta, grid); ok {
		band, err := figure.Band(grid, lower, upper, translucent(crimson, 50))
		if err != nil {
			return nil, err
		}
		p.Add(band)
	}
	l, err := plotter.NewLine(fit)
	if err != nil {
		return nil, fmt.Errorf("fit line %s: %w", feat, err)
	}
	l.LineStyle.Color = crimson
	l.LineStyle.Width = vg.Points(2)
	p.Add(l)
	return p, nil
}

// confidenceBand returns the two sided 95% interval of the fitted mean at
// each grid point. It reports false when the fit leaves no residual degrees
// of freedom or x has no spread.
func confidenceBand(xs, ys []float64, alpha, beta float64, grid []float64) (lower, upper []float64, ok bool) {
	n := len(xs)
	if n <= 2 {
		return nil, nil, false
	}
	mean := stat.Mean(xs, nil)
	var sxx, sse float64
	for i := range xs {
		d := xs[i] - mean
		sxx += d * d
		r := ys[i] - (alpha + beta*xs[i])
		sse += r * r
	}
	if sxx == 0 {
		return nil, nil, false
	}
	se := math.Sqrt(sse / float64(n-2))
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}.Quantile(0.975)
	lower = make([]float64, len(grid))
	upper = make([]float64, len(grid))
	for i, x := range grid {
		d := x - mean
		half := t * se * math.Sqrt(1/float64(n)+d*d/sxx)
		y := alpha + beta*x
		lower[i], upper[i] = y-half, y+half
	}
	return lower, upper, true
}

// SelectiveMultivariate draws a pair plot of the target and the three
// features of df most correlated with it; key_relationships.png. It does
// nothing unless y has exactly one column.
func SelectiveMultivariate(df, y dataframe.DataFrame, corr *analysis.CorrMatrix, dir string, opts ...figure.Option) error {
	if y.Ncol() != 1 || corr == nil {
		return nil
	}
	target := y.Names()[0]
	vars := append(topFeatures(df, corr, target, 3), target)
	cols := make([][]float64, len(vars))
	for i, v := range vars {
		src := df
		if i == len(vars)-1 {
			src = y
		}
		xs, err := frame.Floats(src, v)
		if err != nil {
			return err
		}
		cols[i] = xs
	}
	k := len(vars)
	grid := make([][]*plot.Plot, k)
	for r := range grid {
		grid[r] = make([]*plot.Plot, k)
		for c := range grid[r] {
			var (
				p   *plot.Plot
				err error
			)
			if r == c {
				p, err = diagonal(cols[r])
			} else {
				p, err = offDiagonal(cols[c], cols[r])
			}
			if err != nil {
				return fmt.Errorf("pair plot %s/%s: %w", vars[r], vars[c], err)
			}
			if r == k-1 {
				p.X.Label.Text = vars[c]
			}
			if c == 0 {
				p.Y.Label.Text = vars[r]
			}
			grid[r][c] = p
		}
	}
	side := 2.5 * float64(k)
	return figure.SaveGrid(filepath.Join(dir, "key_relationships.png"), grid, figure.Resolve(side, side, opts...))
}

// topFeatures ranks the columns of df by |r| with target, target excluded.
func topFeatures(df dataframe.DataFrame, corr *analysis.CorrMatrix, target string, k int) []string {
	var out []string
	for _, pc := range corr.TopCorrelated(target, -1) {
		if len(out) == k {
			break
		}
		if frame.Has(df, pc.B) && pc.B != target {
			out = append(out, pc.B)
		}
	}
	return out
}

func diagonal(xs []float64) (*plot.Plot, error) {
	p := plot.New()
	vals := frame.Dropna(xs)
	if len(vals) == 0 {
		return p, nil
	}
	lo, hi := figure.Extent(vals, 0.1)
	curve := figure.KDE(vals, lo, hi, 64)
	if curve == nil {
		p.Add(figure.Histogram(vals, figure.AutoBins(len(vals)), true, skyBlue))
		return p, nil
	}
	grid := make([]float64, len(curve))
	zero := make([]float64, len(curve))
	dens := make([]float64, len(curve))
	for i, pt := range curve {
		grid[i], dens[i] = pt.X, pt.Y
	}
	band, err := figure.Band(grid, zero, dens, translucent(skyBlue, 160))
	if err != nil {
		return nil, err
	}
	p.Add(band)
	return p, nil
}

func offDiagonal(xs, ys []float64) (*plot.Plot, error) {
	p := plot.New()
	s, _, err := scatter(xs, ys, translucent(slateGray, 160), vg.Points(1.5))
	if err != nil {
		return nil, err
	}
	if s != nil {
		p.Add(s)
	}
	return p, nil
}

// ScatterByTargets plots, for each target column of y, the two features of
// df most correlated with it, colored by the target; scatter_<target>.png
// (10x6). Targets with at most threshold distinct values, or holding text,
// get a categorical palette and a legend; others a continuous scale. A
// failure for one target is logged and the remaining targets still run.
func ScatterByTargets(log *slog.Logger, df, y dataframe.DataFrame, corr *analysis.CorrMatrix, dir string, thr int, opts ...figure.Option) {
	thr = threshold(thr)
	for _, target := range y.Names() {
		if err := scatterByTarget(df, y, corr, target, dir, thr, opts); err != nil {
			log.Error("scatter by target failed", "target", target, "error", err)
			continue
		}
		log.Debug("scatter by target", "target", target)
	}
}

func scatterByTarget(df, y dataframe.DataFrame, corr *analysis.CorrMatrix, target, dir string, thr int, opts []figure.Option) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scatter %s: %v", target, r)
		}
	}()
	if y.Nrow() != df.Nrow() {
		return fmt.Errorf("%w: target %s has %d rows, features have %d", frame.ErrInvalidArgument, target, y.Nrow(), df.Nrow())
	}
	if corr == nil || corr.Index(target) < 0 {
		return fmt.Errorf("%w: %s has no correlations", frame.ErrColumnNotFound, target)
	}
	feats := topFeatures(df, corr, target, 2)
	if len(feats) < 2 {
		return nil
	}
	xs, err := frame.Floats(df, feats[0])
	if err != nil {
		return err
	}
	ys, err := frame.Floats(df, feats[1])
	if err != nil {
		return err
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs %s by %s", feats[0], feats[1], target)
	p.X.Label.Text = feats[0]
	p.Y.Label.Text = feats[1]

	kind, _ := frame.Classify(y).Kind(target)
	nu, err := frame.NUnique(y, target)
	if err != nil {
		return err
	}
	if nu <= thr || kind != frame.KindNumeric {
		if err := hueByClass(p, xs, ys, y, target); err != nil {
			return err
		}
	} else if err := hueByValue(p, xs, ys, y, target); err != nil {
		return err
	}
	return figure.Save(filepath.Join(dir, fmt.Sprintf("scatter_%s.png", target)), p, figure.Resolve(10, 6, opts...))
}

func hueByClass(p *plot.Plot, xs, ys []float64, y dataframe.DataFrame, target string) error {
	labels, missing, err := frame.Labels(y, target)
	if err != nil {
		return err
	}
	levels := frame.Levels(labels, missing)
	colors := figure.Levels(len(levels))
	for li, lvl := range levels {
		var pts plotter.XYs
		for i := range xs {
			if missing[i] || labels[i] != lvl {
				continue
			}
			if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) || math.IsInf(xs[i], 0) || math.IsInf(ys[i], 0) {
				continue
			}
			pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
		}
		if len(pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		s.GlyphStyle = draw.GlyphStyle{Color: colors[li], Radius: vg.Points(2.5), Shape: draw.CircleGlyph{}}
		p.Add(s)
		p.Legend.Add(lvl, s)
	}
	p.Legend.Top = true
	return nil
}

func hueByValue(p *plot.Plot, xs, ys []float64, y dataframe.DataFrame, target string) error {
	hs, err := frame.Floats(y, target)
	if err != nil {
		return err
	}
	var pts plotter.XYs
	var hue []float64
	for i := range xs {
		if !finite(xs[i], ys[i], hs[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
		hue = append(hue, hs[i])
	}
	if len(pts) == 0 {
		return nil
	}
	lo, hi, _ := finiteRange(hue)
	cm := figure.Sequential()
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{Color: figure.ColorAt(cm, lo, hi, hue[i]), Radius: vg.Points(2.5), Shape: draw.CircleGlyph{}}
	}
	p.Add(s)
	p.Title.Text += fmt.Sprintf(" (%s from %.3g to %.3g)", target, lo, hi)
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
