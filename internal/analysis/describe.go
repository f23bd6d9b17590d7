package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/edakit/internal/frame"
	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"
)

// NumSummary holds the describe() statistics of a numeric column.
type NumSummary struct {
	Name  string
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// CatSummary holds the describe() statistics of a categorical column.
type CatSummary struct {
	Name   string
	Count  int
	Unique int
	Top    string
	Freq   int
}

// DescribeNumeric summarizes the named numeric columns, ignoring missing cells.
// Columns without values report Count 0 and NaN statistics.
func DescribeNumeric(df dataframe.DataFrame, cols []string) ([]NumSummary, error) {
	out := make([]NumSummary, 0, len(cols))
	for _, c := range cols {
		xs, err := frame.Floats(df, c)
		if err != nil {
			return nil, err
		}
		out = append(out, Summarize1D(c, xs))
	}
	return out, nil
}

// Summarize1D computes NumSummary for one sample.
func Summarize1D(name string, xs []float64) NumSummary {
	vals := frame.Dropna(xs)
	s := NumSummary{Name: name, Count: len(vals)}
	if len(vals) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}
	sort.Float64s(vals)
	s.Mean = stat.Mean(vals, nil)
	s.Std = math.NaN()
	if len(vals) > 1 {
		s.Std = stat.StdDev(vals, nil)
	}
	s.Min = vals[0]
	s.Max = vals[len(vals)-1]
	s.Q25 = quantile(vals, 0.25)
	s.Q50 = quantile(vals, 0.5)
	s.Q75 = quantile(vals, 0.75)
	return s
}

// DescribeCategorical summarizes the named columns by their labels.
func DescribeCategorical(df dataframe.DataFrame, cols []string) ([]CatSummary, error) {
	out := make([]CatSummary, 0, len(cols))
	for _, c := range cols {
		counts, err := frame.ValueCounts(df, c)
		if err != nil {
			return nil, err
		}
		s := CatSummary{Name: c, Unique: len(counts)}
		for _, kv := range counts {
			s.Count += kv.Count
		}
		if len(counts) > 0 {
			s.Top = counts[0].Value
			s.Freq = counts[0].Count
		}
		out = append(out, s)
	}
	return out, nil
}

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}

// quantile interpolates linearly between closest ranks of sorted values.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// Quantile exposes the interpolated quantile used by DescribeNumeric.
func Quantile(sorted []float64, q float64) float64 { return quantile(sorted, q) }
