package frame

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var (
	// ErrColumnNotFound is returned when a referenced column does not exist.
	ErrColumnNotFound = errors.New("column not found")
	// ErrInvalidArgument is returned for malformed parameters.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Has reports whether df has a column called name.
func Has(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Column returns the named series or ErrColumnNotFound.
func Column(df dataframe.DataFrame, name string) (series.Series, error) {
	if !Has(df, name) {
		return series.Series{}, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return df.Col(name), nil
}

// Require checks that every name exists in df.
func Require(df dataframe.DataFrame, names ...string) error {
	for _, n := range names {
		if !Has(df, n) {
			return fmt.Errorf("%w: %q", ErrColumnNotFound, n)
		}
	}
	return nil
}

// Floats returns the column as float64 values aligned with the rows; missing
// or unparsable cells are NaN.
func Floats(df dataframe.DataFrame, name string) ([]float64, error) {
	s, err := Column(df, name)
	if err != nil {
		return nil, err
	}
	return s.Float(), nil
}

// Dropna returns the finite values of xs.
func Dropna(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			out = append(out, x)
		}
	}
	return out
}

// Complete returns the pairs (xs[i], ys[i]) where both are finite.
func Complete(xs, ys []float64) (cx, cy []float64) {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	for i := 0; i < n; i++ {
		if isFinite(xs[i]) && isFinite(ys[i]) {
			cx = append(cx, xs[i])
			cy = append(cy, ys[i])
		}
	}
	return cx, cy
}

func isFinite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

// Labels returns a display label per row and whether the cell is missing.
// Integers print without decimals and floats in shortest form.
func Labels(df dataframe.DataFrame, name string) ([]string, []bool, error) {
	s, err := Column(df, name)
	if err != nil {
		return nil, nil, err
	}
	missing := s.IsNaN()
	out := make([]string, s.Len())
	switch s.Type() {
	case series.Int, series.Float:
		for i, v := range s.Float() {
			if missing[i] || math.IsNaN(v) {
				missing[i] = true
				continue
			}
			out[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
	default:
		recs := s.Records()
		for i := range recs {
			if !missing[i] {
				out[i] = recs[i]
			}
		}
	}
	return out, missing, nil
}

// Levels returns the distinct non-missing labels sorted numerically when all
// of them parse as numbers, lexically otherwise.
func Levels(labels []string, missing []bool) []string {
	seen := map[string]bool{}
	var out []string
	for i, l := range labels {
		if missing != nil && missing[i] {
			continue
		}
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	SortLabels(out)
	return out
}

// SortLabels sorts labels in place, numerically if every label is a number.
func SortLabels(labels []string) {
	nums := make([]float64, len(labels))
	numeric := true
	for i, l := range labels {
		f, err := strconv.ParseFloat(l, 64)
		if err != nil {
			numeric = false
			break
		}
		nums[i] = f
	}
	if numeric {
		idx := make([]int, len(labels))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool { return nums[idx[a]] < nums[idx[b]] })
		cp := append([]string(nil), labels...)
		for i, j := range idx {
			labels[i] = cp[j]
		}
		return
	}
	sort.Strings(labels)
}

// NUnique counts distinct non-missing values of a column.
func NUnique(df dataframe.DataFrame, name string) (int, error) {
	labels, missing, err := Labels(df, name)
	if err != nil {
		return 0, err
	}
	return len(Levels(labels, missing)), nil
}

// Count is one entry of a value-count table.
type Count struct {
	Value string
	Count int
}

// ValueCounts counts non-missing values of a column, most frequent first,
// ties broken by label.
func ValueCounts(df dataframe.DataFrame, name string) ([]Count, error) {
	labels, missing, err := Labels(df, name)
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	for i, l := range labels {
		if missing[i] {
			continue
		}
		counts[l]++
	}
	out := make([]Count, 0, len(counts))
	for k, v := range counts {
		out = append(out, Count{Value: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})
	return out, nil
}

// Crosstab is a contingency table of two columns.
type Crosstab struct {
	Rows   []string // levels of the first column
	Cols   []string // levels of the second column
	Counts [][]int  // Counts[i][j] for Rows[i], Cols[j]
}

// CrossTabulate counts co-occurrences of two columns, ignoring rows where
// either is missing.
func CrossTabulate(df dataframe.DataFrame, row, col string) (*Crosstab, error) {
	rl, rm, err := Labels(df, row)
	if err != nil {
		return nil, err
	}
	cl, cm, err := Labels(df, col)
	if err != nil {
		return nil, err
	}
	keep := make([]bool, len(rl))
	for i := range rl {
		keep[i] = !rm[i] && !cm[i]
	}
	ct := &Crosstab{Rows: levelsWhere(rl, keep), Cols: levelsWhere(cl, keep)}
	ri := indexOf(ct.Rows)
	ci := indexOf(ct.Cols)
	ct.Counts = make([][]int, len(ct.Rows))
	for i := range ct.Counts {
		ct.Counts[i] = make([]int, len(ct.Cols))
	}
	for i := range rl {
		if keep[i] {
			ct.Counts[ri[rl[i]]][ci[cl[i]]]++
		}
	}
	return ct, nil
}

// Normalized returns each row as a percentage of its total.
func (ct *Crosstab) Normalized() [][]float64 {
	out := make([][]float64, len(ct.Counts))
	for i, row := range ct.Counts {
		total := 0
		for _, c := range row {
			total += c
		}
		out[i] = make([]float64, len(row))
		if total == 0 {
			continue
		}
		for j, c := range row {
			out[i][j] = float64(c) * 100 / float64(total)
		}
	}
	return out
}

func levelsWhere(labels []string, keep []bool) []string {
	missing := make([]bool, len(labels))
	for i := range keep {
		missing[i] = !keep[i]
	}
	return Levels(labels, missing)
}

func indexOf(levels []string) map[string]int {
	m := make(map[string]int, len(levels))
	for i, l := range levels {
		m[l] = i
	}
	return m
}

// GroupFloats splits the numeric column value by the labels of group,
// dropping missing cells. Groups are returned in Levels order.
func GroupFloats(df dataframe.DataFrame, value, group string) ([]string, [][]float64, error) {
	vs, err := Floats(df, value)
	if err != nil {
		return nil, nil, err
	}
	gl, gm, err := Labels(df, group)
	if err != nil {
		return nil, nil, err
	}
	levels := Levels(gl, gm)
	idx := indexOf(levels)
	out := make([][]float64, len(levels))
	for i, v := range vs {
		if gm[i] || !isFinite(v) {
			continue
		}
		k := idx[gl[i]]
		out[k] = append(out[k], v)
	}
	return levels, out, nil
}
