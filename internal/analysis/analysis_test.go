package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/edakit/internal/frame"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

func corrDF() dataframe.DataFrame {
	return dataframe.New(
		series.New([]float64{1, 2, 3, 4, 5}, series.Float, "A"),
		series.New([]float64{2, 4, 6, 8, 10}, series.Float, "B"),
		series.New([]float64{5, 4, 3, 2, 1}, series.Float, "C"),
		series.New([]float64{7, 7, 7, 7, 7}, series.Float, "K"),
		series.New([]string{"x", "y", "x", "y", "x"}, series.String, "G"),
	)
}

func TestCorrelate(t *testing.T) {
	m, err := Correlate(corrDF(), []string{"A", "B", "C", "K"})
	if err != nil {
		t.Fatalf("correlate: %v", err)
	}
	if r, _ := m.At("A", "B"); math.Abs(r-1) > 1e-12 {
		t.Fatalf("r(A,B) = %v", r)
	}
	if r, _ := m.At("A", "C"); math.Abs(r+1) > 1e-12 {
		t.Fatalf("r(A,C) = %v", r)
	}
	if r, _ := m.At("A", "K"); !math.IsNaN(r) {
		t.Fatalf("constant column should give NaN, got %v", r)
	}
	if r, _ := m.At("K", "K"); !math.IsNaN(r) {
		t.Fatalf("constant diagonal should be NaN, got %v", r)
	}
	if r, _ := m.At("B", "B"); r != 1 {
		t.Fatalf("diagonal = %v", r)
	}
	if _, err := Correlate(corrDF(), []string{"A", "missing"}); err == nil {
		t.Fatalf("expected error for missing column")
	}
}

func TestCorrelatePairwiseComplete(t *testing.T) {
	nan := math.NaN()
	m := CorrelateFloats([]string{"x", "y"}, [][]float64{
		{1, 2, nan, 4, 5},
		{2, 4, 100, nan, 10},
	})
	if r := m.Values[0][1]; math.Abs(r-1) > 1e-12 {
		t.Fatalf("pairwise r = %v", r)
	}
}

func TestTopCorrelated(t *testing.T) {
	nan := math.NaN()
	m := &CorrMatrix{
		Columns: []string{"t", "a", "b", "c", "d"},
		Values: [][]float64{
			{1, 0.2, -0.9, nan, 0.5},
			{0.2, 1, 0, 0, 0},
			{-0.9, 0, 1, 0, 0},
			{nan, 0, 0, 1, 0},
			{0.5, 0, 0, 0, 1},
		},
	}
	top := m.TopCorrelated("t", 3)
	if len(top) != 3 {
		t.Fatalf("len = %d", len(top))
	}
	if top[0].B != "b" || top[1].B != "d" || top[2].B != "a" {
		t.Fatalf("order = %v", top)
	}
	all := m.TopCorrelated("t", -1)
	if all[len(all)-1].B != "c" {
		t.Fatalf("NaN should sort last: %v", all)
	}
	if m.TopCorrelated("ghost", 2) != nil {
		t.Fatalf("unknown target should return nil")
	}
}

func TestSummarize1D(t *testing.T) {
	s := Summarize1D("v", []float64{4, 1, math.NaN(), 3, 2})
	if s.Count != 4 || s.Min != 1 || s.Max != 4 || s.Mean != 2.5 {
		t.Fatalf("summary = %+v", s)
	}
	if s.Q25 != 1.75 || s.Q50 != 2.5 || s.Q75 != 3.25 {
		t.Fatalf("quartiles = %v %v %v", s.Q25, s.Q50, s.Q75)
	}
	if math.Abs(s.Std-math.Sqrt(5.0/3.0)) > 1e-12 {
		t.Fatalf("std = %v", s.Std)
	}
	empty := Summarize1D("e", []float64{math.NaN()})
	if empty.Count != 0 || !math.IsNaN(empty.Mean) {
		t.Fatalf("empty = %+v", empty)
	}
}

func TestDescribeCategorical(t *testing.T) {
	cs, err := DescribeCategorical(corrDF(), []string{"G"})
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if cs[0].Count != 5 || cs[0].Unique != 2 || cs[0].Top != "x" || cs[0].Freq != 3 {
		t.Fatalf("summary = %+v", cs[0])
	}
}

func TestNullity(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"a", "b", "c"},
		{"1", "", "x"},
		{"", "2", "y"},
		{"3", "", "z"},
		{"4", "5", "w"},
	})
	n := MissingMask(df)
	counts := n.Counts()
	if counts[0] != 1 || counts[1] != 2 || counts[2] != 0 {
		t.Fatalf("counts = %v", counts)
	}
	if n.Total() != 3 {
		t.Fatalf("total = %d", n.Total())
	}
	m := n.Correlation()
	if m == nil || len(m.Columns) != 2 {
		t.Fatalf("nullity correlation = %+v", m)
	}
}

func TestBuildAndMarkdown(t *testing.T) {
	df := corrDF()
	rep, err := Build("sample.csv", df, frame.Classify(df), Options{
		SampleRows:   2,
		GroupBy:      []string{"G"},
		Correlations: true,
		CorrPerGroup: true,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if rep.Rows != 5 || len(rep.Cols) != 5 || len(rep.Samples) != 2 {
		t.Fatalf("report = %+v", rep)
	}
	if len(rep.Groups) != 2 || rep.Groups[0].Key != "G=x" || rep.Groups[0].Size != 3 {
		t.Fatalf("groups = %+v", rep.Groups)
	}
	md := rep.Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"File: sample.csv",
		"[SCHEMA]",
		"- A: numeric (non-null 5, missing 0.0%)",
		"- G: categorical",
		"x(3)",
		"[CORRELATIONS]",
		"A ~ B: r=1.000",
		"[GROUP-BY SUMMARY]",
		"[HEAD AND SAMPLE ROWS]",
		"| A | B | C | K | G |",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestRobustOutliers(t *testing.T) {
	vals := []float64{10, 11, 9.5, 10.5, 9.8, 10.2, 8.8, 9.7, 50}
	cnt, maxZ := robustOutliers(vals, 3.5)
	if cnt != 1 || maxZ < 3.5 {
		t.Fatalf("outliers = %d, max |z| = %v", cnt, maxZ)
	}
}
