package qualitative

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/edakit/internal/figure"
	"github.com/KaramelBytes/edakit/internal/frame"
	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/plot"
)

var skyBlue = color.RGBA{R: 135, G: 206, B: 235, A: 255}

// mosaicGap is the share of each split spent on spacing between tiles.
const mosaicGap = 0.01

// Mosaic plots the joint distribution of cols as nested rectangles with
// areas proportional to counts. The first column splits the width, the next
// the height, alternating; mosaic_<c1>_<c2>....png, 10x8.
func Mosaic(df dataframe.DataFrame, cols []string, dir string, opts ...figure.Option) error {
	if len(cols) == 0 {
		return fmt.Errorf("%w: mosaic needs at least one column", frame.ErrInvalidArgument)
	}
	labels := make([][]string, len(cols))
	levels := make([][]string, len(cols))
	keep := make([]bool, df.Nrow())
	for i := range keep {
		keep[i] = true
	}
	for j, c := range cols {
		l, m, err := frame.Labels(df, c)
		if err != nil {
			return err
		}
		labels[j] = l
		for i := range m {
			if m[i] {
				keep[i] = false
			}
		}
	}
	var rows []int
	for i, k := range keep {
		if k {
			rows = append(rows, i)
		}
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: no complete rows over %v", frame.ErrInvalidArgument, cols)
	}
	for j := range cols {
		drop := make([]bool, len(labels[j]))
		for i := range drop {
			drop[i] = !keep[i]
		}
		levels[j] = frame.Levels(labels[j], drop)
	}

	m := &mosaic{labels: labels, levels: levels}
	m.split(rows, 0, 0, 0, 1, 1, nil)
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Mosaic plot of %s", strings.Join(cols, ", "))
	p.Add(&figure.Tiles{Items: m.tiles})
	p.X.Label.Text = cols[0]
	if len(cols) > 1 {
		p.Y.Label.Text = cols[1]
	}
	p.X.Tick.Marker = plot.ConstantTicks(m.xticks)
	p.Y.Tick.Marker = plot.ConstantTicks(m.yticks)
	p.X.Min, p.X.Max, p.Y.Min, p.Y.Max = 0, 1, 0, 1
	name := fmt.Sprintf("mosaic_%s.png", strings.Join(cols, "_"))
	return figure.Save(filepath.Join(dir, name), p, figure.Resolve(10, 8, opts...))
}

type mosaic struct {
	labels [][]string
	levels [][]string
	tiles  []figure.Tile
	xticks []plot.Tick
	yticks []plot.Tick
}

// split divides the rectangle among the levels of column depth in
// proportion to their counts within rows.
func (m *mosaic) split(rows []int, depth int, x0, y0, x1, y1 float64, path []string) {
	if depth == len(m.levels) {
		lvl := path[len(path)-1]
		ci := indexIn(m.levels[len(m.levels)-1], lvl)
		label := ""
		if (x1-x0)*(y1-y0) > 0.01 {
			label = strings.Join(path, "\n")
		}
		m.tiles = append(m.tiles, figure.Tile{X0: x0, Y0: y0, X1: x1, Y1: y1, Color: figure.Categorical(ci), Label: label})
		return
	}
	groups := make(map[string][]int)
	for _, r := range rows {
		l := m.labels[depth][r]
		groups[l] = append(groups[l], r)
	}
	var present []string
	for _, l := range m.levels[depth] {
		if len(groups[l]) > 0 {
			present = append(present, l)
		}
	}
	horizontal := depth%2 == 0
	span := y1 - y0
	if horizontal {
		span = x1 - x0
	}
	gap := mosaicGap * span / float64(depth+1)
	usable := span - gap*float64(len(present)-1)
	pos := x0
	if !horizontal {
		pos = y0
	}
	for _, l := range present {
		size := usable * float64(len(groups[l])) / float64(len(rows))
		next := append(append([]string(nil), path...), l)
		if horizontal {
			if depth == 0 {
				m.xticks = append(m.xticks, plot.Tick{Value: pos + size/2, Label: l})
			}
			m.split(groups[l], depth+1, pos, y0, pos+size, y1, next)
		} else {
			if depth == 1 && len(path) == 1 && path[0] == m.firstLevel() {
				m.yticks = append(m.yticks, plot.Tick{Value: pos + size/2, Label: l})
			}
			m.split(groups[l], depth+1, x0, pos, x1, pos+size, next)
		}
		pos += size + gap
	}
}

// firstLevel is the first drawn level of the first column, whose vertical
// splits label the y axis.
func (m *mosaic) firstLevel() string {
	if len(m.xticks) == 0 {
		return ""
	}
	return m.xticks[0].Label
}

func indexIn(levels []string, l string) int {
	for i, v := range levels {
		if v == l {
			return i
		}
	}
	return 0
}
