package frame

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// AddAggregatedColumn adds newCol holding, for every row, the aggregate of
// aggCol over the rows sharing its groupBy value. fn is one of sum, mean,
// count, min, max, median or std. Rows with a missing group get NaN.
func AddAggregatedColumn(df dataframe.DataFrame, groupBy, aggCol, fn, newCol string) (dataframe.DataFrame, error) {
	keys, missing, err := Labels(df, groupBy)
	if err != nil {
		return df, err
	}
	src, err := Column(df, aggCol)
	if err != nil {
		return df, err
	}
	agg, ok := aggregators[strings.ToLower(fn)]
	if !ok {
		return df, fmt.Errorf("%w: unknown aggregation %q", ErrInvalidArgument, fn)
	}
	vals := src.Float()
	groups := map[string][]float64{}
	for i, k := range keys {
		if missing[i] {
			continue
		}
		if _, ok := groups[k]; !ok {
			groups[k] = []float64{}
		}
		if isFinite(vals[i]) {
			groups[k] = append(groups[k], vals[i])
		}
	}
	result := map[string]float64{}
	for k, g := range groups {
		result[k] = agg(g)
	}
	out := make([]float64, len(keys))
	integral := fn == "count" || (src.Type() == series.Int && (fn == "sum" || fn == "min" || fn == "max"))
	for i, k := range keys {
		if missing[i] {
			out[i] = math.NaN()
			integral = false
			continue
		}
		out[i] = result[k]
		if math.IsNaN(out[i]) {
			integral = false
		}
	}
	var col series.Series
	if integral {
		ints := make([]int, len(out))
		for i, v := range out {
			ints[i] = int(v)
		}
		col = series.New(ints, series.Int, newCol)
	} else {
		col = series.New(out, series.Float, newCol)
	}
	res := df.Mutate(col)
	if res.Err != nil {
		return df, fmt.Errorf("add column %q: %w", newCol, res.Err)
	}
	return res, nil
}

var aggregators = map[string]func([]float64) float64{
	"sum": func(xs []float64) float64 {
		s := 0.0
		for _, x := range xs {
			s += x
		}
		return s
	},
	"mean": func(xs []float64) float64 {
		if len(xs) == 0 {
			return math.NaN()
		}
		s := 0.0
		for _, x := range xs {
			s += x
		}
		return s / float64(len(xs))
	},
	"count": func(xs []float64) float64 { return float64(len(xs)) },
	"min": func(xs []float64) float64 {
		if len(xs) == 0 {
			return math.NaN()
		}
		m := xs[0]
		for _, x := range xs[1:] {
			m = math.Min(m, x)
		}
		return m
	},
	"max": func(xs []float64) float64 {
		if len(xs) == 0 {
			return math.NaN()
		}
		m := xs[0]
		for _, x := range xs[1:] {
			m = math.Max(m, x)
		}
		return m
	},
	"median": func(xs []float64) float64 {
		if len(xs) == 0 {
			return math.NaN()
		}
		cp := append([]float64(nil), xs...)
		sort.Float64s(cp)
		mid := len(cp) / 2
		if len(cp)%2 == 1 {
			return cp[mid]
		}
		return (cp[mid-1] + cp[mid]) / 2
	},
	"std": func(xs []float64) float64 {
		if len(xs) < 2 {
			return math.NaN()
		}
		mean := 0.0
		for _, x := range xs {
			mean += x
		}
		mean /= float64(len(xs))
		ss := 0.0
		for _, x := range xs {
			ss += (x - mean) * (x - mean)
		}
		return math.Sqrt(ss / float64(len(xs)-1))
	},
}

// Row is a read-only view of one table row handed to row predicates.
type Row struct {
	index  int
	names  map[string]int
	floats [][]float64
	labels [][]string
	miss   [][]bool
}

// Index returns the position of the row in the source table.
func (r Row) Index() int { return r.index }

// Float returns the numeric value of col; ok is false when the column is
// missing or the cell is NaN.
func (r Row) Float(col string) (float64, bool) {
	j, ok := r.names[col]
	if !ok {
		return 0, false
	}
	v := r.floats[j][r.index]
	return v, isFinite(v)
}

// String returns the display value of col; ok is false for missing cells.
func (r Row) String(col string) (string, bool) {
	j, ok := r.names[col]
	if !ok || r.miss[j][r.index] {
		return "", false
	}
	return r.labels[j][r.index], true
}

// IsMissing reports whether the cell of col is missing.
func (r Row) IsMissing(col string) bool {
	j, ok := r.names[col]
	return !ok || r.miss[j][r.index]
}

// DropRowsByCondition removes the rows for which drop returns true.
func DropRowsByCondition(df dataframe.DataFrame, drop func(Row) bool) (dataframe.DataFrame, error) {
	names := df.Names()
	r := Row{names: map[string]int{}}
	for j, n := range names {
		r.names[n] = j
		fs, _ := Floats(df, n)
		ls, ms, err := Labels(df, n)
		if err != nil {
			return df, err
		}
		r.floats = append(r.floats, fs)
		r.labels = append(r.labels, ls)
		r.miss = append(r.miss, ms)
	}
	keep := make([]int, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		r.index = i
		if !drop(r) {
			keep = append(keep, i)
		}
	}
	return Subset(df, keep)
}

// Subset returns the rows at idx, in order. An empty idx yields an empty
// table with the same columns.
func Subset(df dataframe.DataFrame, idx []int) (dataframe.DataFrame, error) {
	if len(idx) == df.Nrow() {
		same := true
		for i, v := range idx {
			if v != i {
				same = false
				break
			}
		}
		if same {
			return df, nil
		}
	}
	if len(idx) == 0 {
		cols := make([]series.Series, 0, df.Ncol())
		for i, n := range df.Names() {
			cols = append(cols, series.New([]string{}, df.Types()[i], n))
		}
		return dataframe.New(cols...), nil
	}
	res := df.Subset(idx)
	if res.Err != nil {
		return df, fmt.Errorf("subset: %w", res.Err)
	}
	return res, nil
}

// Bins selects how CategorizeColumn splits a numeric column: either Count
// equal-width intervals over the observed range or explicit Edges.
type Bins struct {
	Count int
	Edges []float64
}

// CategorizeColumn adds a categorical column binning col into right-closed
// intervals. With no labels, intervals are named "(a, b]". newCol defaults
// to "<col>_cat". Values outside every interval are missing.
func CategorizeColumn(df dataframe.DataFrame, col string, bins Bins, labels []string, newCol string) (dataframe.DataFrame, error) {
	vals, err := Floats(df, col)
	if err != nil {
		return df, err
	}
	if newCol == "" {
		newCol = col + "_cat"
	}
	edges, err := binEdges(vals, bins)
	if err != nil {
		return df, err
	}
	n := len(edges) - 1
	if labels == nil {
		labels = make([]string, n)
		for i := 0; i < n; i++ {
			labels[i] = fmt.Sprintf("(%s, %s]", fmtEdge(edges[i]), fmtEdge(edges[i+1]))
		}
	}
	if len(labels) != n {
		return df, fmt.Errorf("%w: %d labels for %d bins", ErrInvalidArgument, len(labels), n)
	}
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = "NaN"
		if !isFinite(v) {
			continue
		}
		for b := 0; b < n; b++ {
			if v > edges[b] && v <= edges[b+1] {
				out[i] = labels[b]
				break
			}
		}
	}
	res := df.Mutate(series.New(out, series.String, newCol))
	if res.Err != nil {
		return df, fmt.Errorf("add column %q: %w", newCol, res.Err)
	}
	return res, nil
}

func binEdges(vals []float64, bins Bins) ([]float64, error) {
	if len(bins.Edges) > 0 {
		if len(bins.Edges) < 2 {
			return nil, fmt.Errorf("%w: need at least two bin edges", ErrInvalidArgument)
		}
		for i := 1; i < len(bins.Edges); i++ {
			if bins.Edges[i] <= bins.Edges[i-1] {
				return nil, fmt.Errorf("%w: bin edges must increase monotonically", ErrInvalidArgument)
			}
		}
		return bins.Edges, nil
	}
	if bins.Count < 1 {
		return nil, fmt.Errorf("%w: bin count must be positive", ErrInvalidArgument)
	}
	finite := Dropna(vals)
	if len(finite) == 0 {
		return nil, fmt.Errorf("%w: no finite values to bin", ErrInvalidArgument)
	}
	lo, hi := finite[0], finite[0]
	for _, v := range finite {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		pad := 0.001
		if lo != 0 {
			pad = 0.001 * math.Abs(lo)
		}
		lo -= pad
		hi += pad
	}
	edges := make([]float64, bins.Count+1)
	step := (hi - lo) / float64(bins.Count)
	for i := range edges {
		edges[i] = lo + step*float64(i)
	}
	edges[bins.Count] = hi
	// widen the first interval so the minimum falls inside (a, b]
	edges[0] -= (hi - lo) * 0.001
	return edges, nil
}

func fmtEdge(v float64) string { return strconv.FormatFloat(v, 'g', 6, 64) }

// Merge joins a and b on key. how is inner, left, right or outer; cells with
// no match are missing.
func Merge(a, b dataframe.DataFrame, key, how string) (dataframe.DataFrame, error) {
	if err := Require(a, key); err != nil {
		return a, fmt.Errorf("left table: %w", err)
	}
	if err := Require(b, key); err != nil {
		return a, fmt.Errorf("right table: %w", err)
	}
	var res dataframe.DataFrame
	switch strings.ToLower(how) {
	case "", "inner":
		res = a.InnerJoin(b, key)
	case "left":
		res = a.LeftJoin(b, key)
	case "right":
		res = a.RightJoin(b, key)
	case "outer":
		res = a.OuterJoin(b, key)
	default:
		return a, fmt.Errorf("%w: unknown join %q (use inner|left|right|outer)", ErrInvalidArgument, how)
	}
	if res.Err != nil {
		return a, fmt.Errorf("merge on %q: %w", key, res.Err)
	}
	return res, nil
}

// RenameColumns renames columns using an old->new mapping.
func RenameColumns(df dataframe.DataFrame, mapping map[string]string) (dataframe.DataFrame, error) {
	olds := make([]string, 0, len(mapping))
	for o := range mapping {
		olds = append(olds, o)
	}
	sort.Strings(olds)
	res := df
	for _, o := range olds {
		if !Has(res, o) {
			return df, fmt.Errorf("rename: %w: %q", ErrColumnNotFound, o)
		}
		res = res.Rename(mapping[o], o)
		if res.Err != nil {
			return df, fmt.Errorf("rename %q: %w", o, res.Err)
		}
	}
	return res, nil
}

// SelectColumns keeps only cols, in the given order.
func SelectColumns(df dataframe.DataFrame, cols []string) (dataframe.DataFrame, error) {
	if err := Require(df, cols...); err != nil {
		return df, fmt.Errorf("select: %w", err)
	}
	res := df.Select(cols)
	if res.Err != nil {
		return df, fmt.Errorf("select: %w", res.Err)
	}
	return res, nil
}

// ConvertTypes casts columns to int, float, string, bool or category
// (stored as string). Float to int truncates toward zero.
func ConvertTypes(df dataframe.DataFrame, types map[string]string) (dataframe.DataFrame, error) {
	cols := make([]string, 0, len(types))
	for c := range types {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	res := df
	for _, c := range cols {
		s, err := Column(res, c)
		if err != nil {
			return df, fmt.Errorf("convert: %w", err)
		}
		var conv series.Series
		switch strings.ToLower(types[c]) {
		case "int", "int64", "int32":
			conv = series.New(s.Float(), series.Int, c)
		case "float", "float64", "float32":
			conv = series.New(s.Float(), series.Float, c)
		case "string", "str", "object", "category":
			labels, missing, _ := Labels(res, c)
			for i := range labels {
				if missing[i] {
					labels[i] = "NaN"
				}
			}
			conv = series.New(labels, series.String, c)
		case "bool":
			conv = series.New(boolRecords(s), series.Bool, c)
		default:
			return df, fmt.Errorf("%w: unknown type %q for %q", ErrInvalidArgument, types[c], c)
		}
		res = res.Mutate(conv)
		if res.Err != nil {
			return df, fmt.Errorf("convert %q: %w", c, res.Err)
		}
	}
	return res, nil
}

func boolRecords(s series.Series) []string {
	out := make([]string, s.Len())
	missing := s.IsNaN()
	switch s.Type() {
	case series.Int, series.Float:
		for i, v := range s.Float() {
			switch {
			case missing[i] || math.IsNaN(v):
				out[i] = "NaN"
			case v != 0:
				out[i] = "true"
			default:
				out[i] = "false"
			}
		}
	default:
		for i, r := range s.Records() {
			if missing[i] {
				out[i] = "NaN"
				continue
			}
			out[i] = r
		}
	}
	return out
}
