// Package figure renders gonum plots to PNG files. Every figure is drawn on
// its own canvas and written in one call, so no plotting state outlives a
// render.
package figure

import (
	"fmt"
	"os"

	"github.com/KaramelBytes/edakit/internal/utils"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// DefaultDPI is the resolution used when no option overrides it.
const DefaultDPI = 96

// Options controls the size and resolution of a rendered figure.
type Options struct {
	Width  vg.Length
	Height vg.Length
	DPI    int
}

// Option overrides a figure default.
type Option func(*Options)

// WithSize sets the figure size in inches.
func WithSize(width, height float64) Option {
	return func(o *Options) {
		if width > 0 {
			o.Width = vg.Length(width) * vg.Inch
		}
		if height > 0 {
			o.Height = vg.Length(height) * vg.Inch
		}
	}
}

// WithDPI sets the output resolution.
func WithDPI(dpi int) Option {
	return func(o *Options) {
		if dpi > 0 {
			o.DPI = dpi
		}
	}
}

// Resolve applies opts over a default size given in inches.
func Resolve(width, height float64, opts ...Option) Options {
	o := Options{
		Width:  vg.Length(width) * vg.Inch,
		Height: vg.Length(height) * vg.Inch,
		DPI:    DefaultDPI,
	}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// Save renders p as a PNG at path, creating the parent directory.
func Save(path string, p *plot.Plot, o Options) error {
	return write(path, o, func(dc draw.Canvas) { p.Draw(dc) })
}

// SaveGrid renders a row-major grid of subplots as one PNG. Every cell must
// hold a plot; use Blank for unused cells.
func SaveGrid(path string, plots [][]*plot.Plot, o Options) error {
	if len(plots) == 0 || len(plots[0]) == 0 {
		return fmt.Errorf("render %s: empty subplot grid", path)
	}
	rows, cols := len(plots), len(plots[0])
	for _, row := range plots {
		if len(row) != cols {
			return fmt.Errorf("render %s: ragged subplot grid", path)
		}
	}
	return write(path, o, func(dc draw.Canvas) {
		t := draw.Tiles{
			Rows:      rows,
			Cols:      cols,
			PadX:      vg.Millimeter * 4,
			PadY:      vg.Millimeter * 4,
			PadTop:    vg.Millimeter * 2,
			PadBottom: vg.Millimeter * 2,
			PadLeft:   vg.Millimeter * 2,
			PadRight:  vg.Millimeter * 2,
		}
		canvases := plot.Align(plots, t, dc)
		for i := range plots {
			for j := range plots[i] {
				plots[i][j].Draw(canvases[i][j])
			}
		}
	})
}

// Blank returns a plot with hidden axes for unused grid cells.
func Blank() *plot.Plot {
	p := plot.New()
	p.HideAxes()
	return p
}

func write(path string, o Options, render func(draw.Canvas)) (err error) {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("render %s: invalid size %vx%v", path, o.Width, o.Height)
	}
	if o.DPI <= 0 {
		o.DPI = DefaultDPI
	}
	if err := utils.EnsureParent(path); err != nil {
		return err
	}
	img := vgimg.NewWith(vgimg.UseWH(o.Width, o.Height), vgimg.UseDPI(o.DPI))
	dc := draw.New(img)
	if err := drawSafely(render, dc); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create figure: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close figure: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

// drawSafely converts panics raised by plotters into errors.
func drawSafely(render func(draw.Canvas), dc draw.Canvas) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("draw: %v", r)
		}
	}()
	render(dc)
	return nil
}
