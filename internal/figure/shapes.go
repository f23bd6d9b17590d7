package figure

import (
	"fmt"
	"image/color"
	"math"

	"github.com/KaramelBytes/edakit/internal/analysis"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Pie draws wedges proportional to Values around the data origin. Hide the
// plot axes when using it.
type Pie struct {
	Values    []float64
	Labels    []string
	Colors    []color.Color
	TextStyle text.Style
}

// Plot implements plot.Plotter.
func (pc *Pie) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	total := 0.0
	for _, v := range pc.Values {
		total += v
	}
	if total <= 0 {
		return
	}
	sty := pc.TextStyle
	if sty.Handler == nil {
		sty = TextStyle(p, vg.Points(10))
	}
	at := func(r, theta float64) vg.Point {
		return vg.Point{X: trX(r * math.Cos(theta)), Y: trY(r * math.Sin(theta))}
	}
	start := math.Pi / 2
	for i, v := range pc.Values {
		sweep := 2 * math.Pi * v / total
		steps := int(math.Max(2, math.Ceil(sweep/(math.Pi/90))))
		pts := []vg.Point{at(0, 0)}
		for k := 0; k <= steps; k++ {
			pts = append(pts, at(1, start-sweep*float64(k)/float64(steps)))
		}
		clr := Categorical(i)
		if i < len(pc.Colors) {
			clr = pc.Colors[i]
		}
		c.FillPolygon(clr, pts)
		mid := start - sweep/2
		pct := sty
		pct.Color = Contrast(clr)
		c.FillText(pct, at(0.6, mid), fmt.Sprintf("%.1f%%", 100*v/total))
		if i < len(pc.Labels) {
			c.FillText(sty, at(1.15, mid), pc.Labels[i])
		}
		start -= sweep
	}
}

// DataRange implements plot.DataRanger.
func (pc *Pie) DataRange() (xmin, xmax, ymin, ymax float64) {
	return -1.35, 1.35, -1.35, 1.35
}

// Violin draws a mirrored kernel density of Values centered at Location,
// with the interquartile range and median marked inside.
type Violin struct {
	Location  float64
	Values    []float64
	HalfWidth float64
	FillColor color.Color
	draw.LineStyle
	Horizontal bool
}

// NewViolin returns a vertical violin for the finite values vals.
func NewViolin(loc float64, vals []float64, fill color.Color) *Violin {
	return &Violin{
		Location:  loc,
		Values:    sorted(vals),
		HalfWidth: 0.4,
		FillColor: fill,
		LineStyle: plotter.DefaultLineStyle,
	}
}

func (v *Violin) outline() plotter.XYs {
	if len(v.Values) == 0 {
		return nil
	}
	lo, hi := v.Values[0], v.Values[len(v.Values)-1]
	curve := KDE(v.Values, lo, hi, 64)
	if curve == nil {
		return plotter.XYs{{X: v.Location - v.HalfWidth, Y: lo}, {X: v.Location + v.HalfWidth, Y: lo}}
	}
	peak := 0.0
	for _, pt := range curve {
		peak = math.Max(peak, pt.Y)
	}
	out := make(plotter.XYs, 0, 2*len(curve))
	for _, pt := range curve {
		out = append(out, plotter.XY{X: v.Location - v.HalfWidth*pt.Y/peak, Y: pt.X})
	}
	for i := len(curve) - 1; i >= 0; i-- {
		out = append(out, plotter.XY{X: v.Location + v.HalfWidth*curve[i].Y/peak, Y: curve[i].X})
	}
	return out
}

func (v *Violin) orient(pt plotter.XY) plotter.XY {
	if v.Horizontal {
		return plotter.XY{X: pt.Y, Y: pt.X}
	}
	return pt
}

// Plot implements plot.Plotter.
func (v *Violin) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	shape := v.outline()
	if len(shape) == 0 {
		return
	}
	pts := make([]vg.Point, len(shape))
	for i, xy := range shape {
		xy = v.orient(xy)
		pts[i] = vg.Point{X: trX(xy.X), Y: trY(xy.Y)}
	}
	if len(pts) > 2 {
		c.FillPolygon(v.FillColor, c.ClipPolygonXY(pts))
		c.StrokeLines(v.LineStyle, c.ClipLinesXY(append(pts, pts[0]))...)
	} else {
		c.StrokeLines(v.LineStyle, c.ClipLinesXY(pts)...)
	}
	q1 := analysis.Quantile(v.Values, 0.25)
	q3 := analysis.Quantile(v.Values, 0.75)
	med := analysis.Quantile(v.Values, 0.5)
	box := v.LineStyle
	box.Width = vg.Points(4)
	box.Color = color.Gray{Y: 40}
	a, b := v.orient(plotter.XY{X: v.Location, Y: q1}), v.orient(plotter.XY{X: v.Location, Y: q3})
	c.StrokeLine2(box, trX(a.X), trY(a.Y), trX(b.X), trY(b.Y))
	m := v.orient(plotter.XY{X: v.Location, Y: med})
	c.DrawGlyph(draw.GlyphStyle{Color: color.White, Radius: vg.Points(2.5), Shape: draw.CircleGlyph{}},
		vg.Point{X: trX(m.X), Y: trY(m.Y)})
}

// DataRange implements plot.DataRanger.
func (v *Violin) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = v.Location-v.HalfWidth, v.Location+v.HalfWidth
	ymin, ymax = 0, 1
	if len(v.Values) > 0 {
		ymin, ymax = v.Values[0], v.Values[len(v.Values)-1]
	}
	if v.Horizontal {
		return ymin, ymax, xmin, xmax
	}
	return xmin, xmax, ymin, ymax
}

// Boxen is a horizontal letter-value plot: nested boxes between the
// quantiles 1/4, 1/8, 1/16 ... with points beyond the outermost box.
type Boxen struct {
	Location  float64
	Values    []float64
	HalfWidth float64
	Color     color.Color
}

// NewBoxen returns a Boxen for the finite values vals.
func NewBoxen(loc float64, vals []float64, clr color.Color) *Boxen {
	return &Boxen{Location: loc, Values: sorted(vals), HalfWidth: 0.4, Color: clr}
}

// depth follows Tukey's rule for the number of letter values.
func (b *Boxen) depth() int {
	n := len(b.Values)
	k := int(math.Floor(math.Log2(float64(n)))) - 3
	if k < 1 {
		k = 1
	}
	return k
}

// Plot implements plot.Plotter.
func (b *Boxen) Plot(c draw.Canvas, p *plot.Plot) {
	if len(b.Values) == 0 {
		return
	}
	trX, trY := p.Transforms(&c)
	k := b.depth()
	r, g, bl, _ := b.Color.RGBA()
	var outerLo, outerHi float64
	for i := k; i >= 1; i-- {
		q := math.Pow(0.5, float64(i+1))
		lo := analysis.Quantile(b.Values, q)
		hi := analysis.Quantile(b.Values, 1-q)
		if i == k {
			outerLo, outerHi = lo, hi
		}
		h := b.HalfWidth * (1 - 0.6*float64(i-1)/float64(k))
		// outer boxes are lighter
		light := 0.6 * float64(i-1) / float64(k)
		clr := color.RGBA{
			R: uint8(float64(r>>8)*(1-light) + 255*light),
			G: uint8(float64(g>>8)*(1-light) + 255*light),
			B: uint8(float64(bl>>8)*(1-light) + 255*light),
			A: 255,
		}
		pts := []vg.Point{
			{X: trX(lo), Y: trY(b.Location - h)},
			{X: trX(hi), Y: trY(b.Location - h)},
			{X: trX(hi), Y: trY(b.Location + h)},
			{X: trX(lo), Y: trY(b.Location + h)},
		}
		c.FillPolygon(clr, c.ClipPolygonXY(pts))
		edge := plotter.DefaultLineStyle
		edge.Color = color.White
		edge.Width = vg.Points(0.5)
		c.StrokeLines(edge, c.ClipLinesXY(append(pts, pts[0]))...)
	}
	med := analysis.Quantile(b.Values, 0.5)
	ml := plotter.DefaultLineStyle
	ml.Width = vg.Points(1.5)
	ml.Color = color.Gray{Y: 40}
	c.StrokeLine2(ml, trX(med), trY(b.Location-b.HalfWidth), trX(med), trY(b.Location+b.HalfWidth))
	gs := draw.GlyphStyle{Color: b.Color, Radius: vg.Points(2), Shape: draw.RingGlyph{}}
	for _, v := range b.Values {
		if v < outerLo || v > outerHi {
			pt := vg.Point{X: trX(v), Y: trY(b.Location)}
			if c.Contains(pt) {
				c.DrawGlyph(gs, pt)
			}
		}
	}
}

// DataRange implements plot.DataRanger.
func (b *Boxen) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = 0, 1
	if len(b.Values) > 0 {
		xmin, xmax = b.Values[0], b.Values[len(b.Values)-1]
	}
	return xmin, xmax, b.Location - b.HalfWidth, b.Location + b.HalfWidth
}

// Tile is one labelled rectangle of a Tiles plotter, in data coordinates.
type Tile struct {
	X0, Y0, X1, Y1 float64
	Color          color.Color
	Label          string
}

// Tiles fills rectangles, annotating each with its label.
type Tiles struct {
	Items     []Tile
	TextStyle text.Style
}

// Plot implements plot.Plotter.
func (t *Tiles) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	sty := t.TextStyle
	if sty.Handler == nil {
		sty = TextStyle(p, vg.Points(8))
	}
	edge := plotter.DefaultLineStyle
	edge.Color = color.White
	for _, it := range t.Items {
		pts := []vg.Point{
			{X: trX(it.X0), Y: trY(it.Y0)},
			{X: trX(it.X1), Y: trY(it.Y0)},
			{X: trX(it.X1), Y: trY(it.Y1)},
			{X: trX(it.X0), Y: trY(it.Y1)},
		}
		c.FillPolygon(it.Color, c.ClipPolygonXY(pts))
		c.StrokeLines(edge, c.ClipLinesXY(append(pts, pts[0]))...)
		if it.Label != "" {
			ts := sty
			ts.Color = Contrast(it.Color)
			c.FillText(ts, vg.Point{X: trX((it.X0 + it.X1) / 2), Y: trY((it.Y0 + it.Y1) / 2)}, it.Label)
		}
	}
}

// DataRange implements plot.DataRanger.
func (t *Tiles) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for _, it := range t.Items {
		xmin = math.Min(xmin, math.Min(it.X0, it.X1))
		xmax = math.Max(xmax, math.Max(it.X0, it.X1))
		ymin = math.Min(ymin, math.Min(it.Y0, it.Y1))
		ymax = math.Max(ymax, math.Max(it.Y0, it.Y1))
	}
	if len(t.Items) == 0 {
		return 0, 1, 0, 1
	}
	return xmin, xmax, ymin, ymax
}

// Band fills the area between lower and upper over xs.
func Band(xs, lower, upper []float64, fill color.Color) (*plotter.Polygon, error) {
	pts := make(plotter.XYs, 0, 2*len(xs))
	for i := range xs {
		pts = append(pts, plotter.XY{X: xs[i], Y: upper[i]})
	}
	for i := len(xs) - 1; i >= 0; i-- {
		pts = append(pts, plotter.XY{X: xs[i], Y: lower[i]})
	}
	poly, err := plotter.NewPolygon(pts)
	if err != nil {
		return nil, fmt.Errorf("confidence band: %w", err)
	}
	poly.Color = fill
	poly.LineStyle.Width = 0
	return poly, nil
}
