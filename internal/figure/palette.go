package figure

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Categorical returns the i-th color of the qualitative palette.
func Categorical(i int) color.Color {
	return plotutil.Color(i)
}

// Levels returns n evenly spaced colors from the perceptual palette used for
// hue groups with few classes.
func Levels(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	cm := unit(moreland.Kindlmann())
	out := make([]color.Color, n)
	for i := range out {
		v := 0.15 + 0.7*float64(i)/math.Max(1, float64(n-1))
		out[i] = ColorAt(cm, 0, 1, v)
	}
	return out
}

// Diverging returns a blue to red map over [-1, 1] for correlations.
func Diverging() palette.ColorMap {
	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	return cm
}

// Sequential returns a continuous map for numeric hues.
func Sequential() palette.ColorMap {
	return unit(moreland.BlackBody())
}

// Heat returns the map used for count heatmaps.
func Heat() palette.ColorMap {
	return unit(moreland.SmoothBlueTan())
}

func unit(cm palette.ColorMap) palette.ColorMap {
	cm.SetMin(0)
	cm.SetMax(1)
	return cm
}

// ColorAt maps v within [lo, hi] onto cm, clamping out of range values.
// A degenerate range maps everything to the middle of the palette.
func ColorAt(cm palette.ColorMap, lo, hi, v float64) color.Color {
	frac := 0.5
	if hi > lo && !math.IsNaN(v) {
		frac = (v - lo) / (hi - lo)
	}
	frac = math.Max(0, math.Min(1, frac))
	// cm is only read; its range must already be set
	cmin, cmax := cm.Min(), cm.Max()
	if !(cmax > cmin) {
		return color.Gray{Y: 128}
	}
	x := cmin + frac*(cmax-cmin)
	c, err := cm.At(x)
	if err != nil {
		return color.Gray{Y: 128}
	}
	return c
}

// Contrast picks black or white text for a background color.
func Contrast(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	lum := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 65535
	if lum > 0.55 {
		return color.Black
	}
	return color.White
}

// TextStyle returns a centered annotation style sharing p's text handler.
func TextStyle(p *plot.Plot, size vg.Length) text.Style {
	sty := p.X.Tick.Label
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YCenter
	sty.Rotation = 0
	if size > 0 {
		sty.Font.Size = size
	}
	return sty
}

// RotateXTicks tilts the x tick labels so long category names stay readable.
func RotateXTicks(p *plot.Plot) {
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}
