package analysis

import (
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Nullity is the per-column missing-cell mask of a table.
type Nullity struct {
	Columns []string
	Missing [][]bool // Missing[col][row]
}

// MissingMask computes the nullity of every column of df.
func MissingMask(df dataframe.DataFrame) Nullity {
	names := df.Names()
	out := Nullity{Columns: names, Missing: make([][]bool, len(names))}
	for i, n := range names {
		s := df.Col(n)
		mask := s.IsNaN()
		if s.Type() == series.Float || s.Type() == series.Int {
			for j, v := range s.Float() {
				if math.IsNaN(v) {
					mask[j] = true
				}
			}
		}
		out.Missing[i] = mask
	}
	return out
}

// Counts returns the number of missing cells per column.
func (n Nullity) Counts() []int {
	out := make([]int, len(n.Columns))
	for i, mask := range n.Missing {
		for _, m := range mask {
			if m {
				out[i]++
			}
		}
	}
	return out
}

// Total is the number of missing cells in the table.
func (n Nullity) Total() int {
	t := 0
	for _, c := range n.Counts() {
		t += c
	}
	return t
}

// Correlation returns the Pearson correlation of the nullity indicators of
// the columns that have at least one missing and one present value. It
// returns nil when fewer than two columns qualify.
func (n Nullity) Correlation() *CorrMatrix {
	var names []string
	var cols [][]float64
	for i, mask := range n.Missing {
		miss := 0
		for _, m := range mask {
			if m {
				miss++
			}
		}
		if miss == 0 || miss == len(mask) {
			continue
		}
		ind := make([]float64, len(mask))
		for j, m := range mask {
			if m {
				ind[j] = 1
			}
		}
		names = append(names, n.Columns[i])
		cols = append(cols, ind)
	}
	if len(names) < 2 {
		return nil
	}
	return CorrelateFloats(names, cols)
}
