package figure

import (
	"image/color"
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Histogram bins vals into n equal-width bins. With density set the bar
// areas integrate to one. A constant sample gets a unit-wide single span.
// vals must be finite and non-empty.
func Histogram(vals []float64, n int, density bool, fill color.Color) *plotter.Histogram {
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return HistogramRange(vals, lo, hi, n, density, fill)
}

// HistogramRange is Histogram over the fixed span [lo, hi], so several
// samples can share bin edges. Values outside the span fall in the edge bins.
func HistogramRange(vals []float64, lo, hi float64, n int, density bool, fill color.Color) *plotter.Histogram {
	if n <= 0 {
		n = 10
	}
	if hi <= lo {
		lo, hi = lo-0.5, lo+0.5
	}
	w := (hi - lo) / float64(n)
	bins := make([]plotter.HistogramBin, n)
	for i := range bins {
		bins[i].Min = lo + float64(i)*w
		bins[i].Max = lo + float64(i+1)*w
	}
	for _, v := range vals {
		i := int((v - lo) / w)
		if i >= n {
			i = n - 1
		}
		if i < 0 {
			i = 0
		}
		bins[i].Weight++
	}
	if density && len(vals) > 0 {
		for i := range bins {
			bins[i].Weight /= float64(len(vals)) * w
		}
	}
	h := &plotter.Histogram{
		Bins:      bins,
		Width:     w,
		FillColor: fill,
		LineStyle: plotter.DefaultLineStyle,
	}
	h.LineStyle.Width = vg.Points(0.5)
	return h
}

// AutoBins picks a bin count with the Sturges rule.
func AutoBins(n int) int {
	if n < 2 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

// KDE evaluates a Gaussian kernel density estimate of vals at points evenly
// spread over [lo, hi]. It returns nil when vals has no spread.
func KDE(vals []float64, lo, hi float64, points int) plotter.XYs {
	s := stats.Sample{Xs: vals}
	if len(vals) < 2 || !(s.StdDev() > 0) {
		return nil
	}
	kde := &stats.KDE{Sample: s}
	if points < 2 {
		points = 2
	}
	out := make(plotter.XYs, points)
	step := (hi - lo) / float64(points-1)
	for i := range out {
		x := lo + float64(i)*step
		out[i] = plotter.XY{X: x, Y: kde.PDF(x)}
	}
	return out
}

// Extent returns the min and max of vals widened by pad times the range.
func Extent(vals []float64, pad float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 0) {
		return 0, 1
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return lo - pad*span, hi + pad*span
}

// sorted returns a sorted copy of vals.
func sorted(vals []float64) []float64 {
	cp := append([]float64(nil), vals...)
	sort.Float64s(cp)
	return cp
}
