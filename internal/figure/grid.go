package figure

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Grid is an annotated heatmap over a row-major matrix. Row 0 is drawn at the
// top. NaN and masked cells are left blank.
type Grid struct {
	Values   [][]float64
	ColorMap palette.ColorMap
	// Min and Max bound the color scale; when equal they are taken from Values.
	Min, Max float64
	// Mask hides cells for which it returns true.
	Mask func(row, col int) bool
	// Format annotates each visible cell when non-empty, e.g. "%.2f".
	Format    string
	TextStyle text.Style
}

// NewGrid returns a Grid with the color scale fitted to values.
func NewGrid(values [][]float64, cm palette.ColorMap) *Grid {
	g := &Grid{Values: values, ColorMap: cm}
	g.Min, g.Max = math.Inf(1), math.Inf(-1)
	for _, row := range values {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			g.Min = math.Min(g.Min, v)
			g.Max = math.Max(g.Max, v)
		}
	}
	if math.IsInf(g.Min, 0) {
		g.Min, g.Max = 0, 1
	}
	return g
}

func (g *Grid) dims() (rows, cols int) {
	rows = len(g.Values)
	for _, r := range g.Values {
		if len(r) > cols {
			cols = len(r)
		}
	}
	return rows, cols
}

// Plot implements plot.Plotter.
func (g *Grid) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	rows, _ := g.dims()
	sty := g.TextStyle
	if sty.Handler == nil {
		sty = TextStyle(p, vg.Points(8))
	}
	for r, row := range g.Values {
		for col, v := range row {
			if math.IsNaN(v) || (g.Mask != nil && g.Mask(r, col)) {
				continue
			}
			yc := float64(rows - 1 - r)
			x0, x1 := trX(float64(col)-0.5), trX(float64(col)+0.5)
			y0, y1 := trY(yc-0.5), trY(yc+0.5)
			clr := ColorAt(g.ColorMap, g.Min, g.Max, v)
			pts := []vg.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
			c.FillPolygon(clr, c.ClipPolygonXY(pts))
			if g.Format != "" {
				ts := sty
				ts.Color = Contrast(clr)
				c.FillText(ts, vg.Point{X: (x0 + x1) / 2, Y: (y0 + y1) / 2}, fmt.Sprintf(g.Format, v))
			}
		}
	}
}

// DataRange implements plot.DataRanger.
func (g *Grid) DataRange() (xmin, xmax, ymin, ymax float64) {
	rows, cols := g.dims()
	return -0.5, float64(cols) - 0.5, -0.5, float64(rows) - 0.5
}

// Heatmap builds a plot showing values with row and column tick labels.
func Heatmap(title string, values [][]float64, rowNames, colNames []string, cm palette.ColorMap) (*plot.Plot, *Grid) {
	p := plot.New()
	p.Title.Text = title
	g := NewGrid(values, cm)
	p.Add(g)
	if len(colNames) > 0 {
		p.NominalX(colNames...)
		RotateXTicks(p)
	}
	if len(rowNames) > 0 {
		rev := make([]string, len(rowNames))
		for i, n := range rowNames {
			rev[len(rowNames)-1-i] = n
		}
		p.NominalY(rev...)
	}
	p.X.Padding, p.Y.Padding = 0, 0
	return p, g
}
