package inspect

import (
	"image/color"
	"path/filepath"
	"strconv"

	"github.com/KaramelBytes/edakit/internal/analysis"
	"github.com/KaramelBytes/edakit/internal/figure"
	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/plot"
)

// Missing-value figure names.
const (
	MissingMatrixFile  = "missing_values_matrix.png"
	MissingHeatmapFile = "missing_values_heatmap.png"
)

var (
	presentColor = color.RGBA{R: 64, G: 64, B: 64, A: 255}
	missingColor = color.White
)

// PlotMissingValues writes a row by column presence matrix and a heatmap of
// the correlation between column nullity indicators into outDir.
func PlotMissingValues(df dataframe.DataFrame, outDir string, opts ...figure.Option) error {
	null := analysis.MissingMask(df)
	if err := figure.Save(filepath.Join(outDir, MissingMatrixFile), missingMatrix(null, df.Nrow()),
		figure.Resolve(12, 6, opts...)); err != nil {
		return err
	}
	return figure.Save(filepath.Join(outDir, MissingHeatmapFile), nullityHeatmap(null),
		figure.Resolve(10, 8, opts...))
}

// missingMatrix draws each column as a dark bar with white runs where cells
// are missing. Row 0 is at the top.
func missingMatrix(null analysis.Nullity, rows int) *plot.Plot {
	p := plot.New()
	p.Title.Text = "Missing values matrix"
	p.Y.Label.Text = "row"
	tiles := &figure.Tiles{}
	for j, mask := range null.Missing {
		x0, x1 := float64(j)-0.45, float64(j)+0.45
		tiles.Items = append(tiles.Items, figure.Tile{X0: x0, X1: x1, Y0: 0, Y1: float64(rows), Color: presentColor})
		for i := 0; i < len(mask); {
			if !mask[i] {
				i++
				continue
			}
			start := i
			for i < len(mask) && mask[i] {
				i++
			}
			tiles.Items = append(tiles.Items, figure.Tile{
				X0: x0, X1: x1,
				Y0: float64(rows - i), Y1: float64(rows - start),
				Color: missingColor,
			})
		}
	}
	p.Add(tiles)
	if len(null.Columns) > 0 {
		p.NominalX(null.Columns...)
		figure.RotateXTicks(p)
	}
	p.Y.Min, p.Y.Max = 0, float64(rows)
	p.Y.Tick.Marker = rowTicks{rows: rows}
	return p
}

// rowTicks labels the y axis with row indices counted from the top.
type rowTicks struct{ rows int }

func (t rowTicks) Ticks(min, max float64) []plot.Tick {
	base := plot.DefaultTicks{}.Ticks(min, max)
	out := make([]plot.Tick, 0, len(base))
	for _, tk := range base {
		if tk.Label == "" {
			out = append(out, tk)
			continue
		}
		tk.Label = strconv.Itoa(t.rows - int(tk.Value))
		out = append(out, tk)
	}
	return out
}

func nullityHeatmap(null analysis.Nullity) *plot.Plot {
	m := null.Correlation()
	if m == nil {
		p := figure.Blank()
		p.Title.Text = "Missing values correlation: fewer than two columns with partial missingness"
		return p
	}
	p, g := figure.Heatmap("Missing values correlation", m.Values, m.Columns, m.Columns, figure.Diverging())
	g.Min, g.Max = -1, 1
	g.Format = "%.1f"
	return p
}
