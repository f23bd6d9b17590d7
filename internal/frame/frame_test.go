package frame

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

func sampleDF() dataframe.DataFrame {
	return dataframe.LoadRecords([][]string{
		{"iid", "match", "age"},
		{"1", "1", "25"},
		{"1", "0", "30"},
		{"2", "1", "35"},
		{"2", "1", "40"},
		{"3", "0", "45"},
	})
}

func TestClassify(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"A", "C", "D", "E"},
		{"1", "1.1", "a", "true"},
		{"2", "2.2", "b", "false"},
	})
	s := Classify(df)
	if got := s.Numeric(); len(got) != 2 || got[0] != "A" || got[1] != "C" {
		t.Fatalf("numeric = %v", got)
	}
	if got := s.Categorical(); len(got) != 1 || got[0] != "D" {
		t.Fatalf("categorical = %v", got)
	}
	if k, ok := s.Kind("E"); !ok || k != KindBoolean {
		t.Fatalf("kind(E) = %v %v", k, ok)
	}
}

func TestAddAggregatedColumnSum(t *testing.T) {
	df, err := AddAggregatedColumn(sampleDF(), "iid", "match", "sum", "total_matches")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	got, err := df.Col("total_matches").Int()
	if err != nil {
		t.Fatalf("ints: %v", err)
	}
	want := []int{1, 1, 2, 2, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("total_matches = %v, want %v", got, want)
		}
	}
}

func TestAddAggregatedColumnMeanAndUnknown(t *testing.T) {
	df, err := AddAggregatedColumn(sampleDF(), "iid", "age", "mean", "age_mean")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	got := df.Col("age_mean").Float()
	want := []float64{27.5, 27.5, 37.5, 37.5, 45}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("age_mean = %v, want %v", got, want)
		}
	}
	if _, err := AddAggregatedColumn(sampleDF(), "iid", "age", "mode", "x"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := AddAggregatedColumn(sampleDF(), "nope", "age", "sum", "x"); !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("expected ErrColumnNotFound, got %v", err)
	}
}

func TestDropRowsByCondition(t *testing.T) {
	df, err := DropRowsByCondition(sampleDF(), func(r Row) bool {
		age, ok := r.Float("age")
		return ok && age > 35
	})
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if df.Nrow() != 3 {
		t.Fatalf("rows = %d, want 3", df.Nrow())
	}
	all, err := DropRowsByCondition(sampleDF(), func(Row) bool { return true })
	if err != nil {
		t.Fatalf("drop all: %v", err)
	}
	if all.Nrow() != 0 || all.Ncol() != 3 {
		t.Fatalf("dims = %dx%d", all.Nrow(), all.Ncol())
	}
}

func TestCategorizeColumn(t *testing.T) {
	df, err := CategorizeColumn(sampleDF(), "age", Bins{Count: 2}, []string{"young", "old"}, "")
	if err != nil {
		t.Fatalf("categorize: %v", err)
	}
	got := df.Col("age_cat").Records()
	want := []string{"young", "young", "young", "old", "old"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("age_cat = %v, want %v", got, want)
		}
	}
	if _, err := CategorizeColumn(sampleDF(), "age", Bins{Count: 3}, []string{"a"}, ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestCategorizeColumnEdges(t *testing.T) {
	df, err := CategorizeColumn(sampleDF(), "age", Bins{Edges: []float64{20, 30, 40}}, nil, "band")
	if err != nil {
		t.Fatalf("categorize: %v", err)
	}
	labels, missing, err := Labels(df, "band")
	if err != nil {
		t.Fatalf("labels: %v", err)
	}
	if labels[0] != "(20, 30]" || labels[1] != "(20, 30]" || labels[2] != "(30, 40]" {
		t.Fatalf("labels = %v", labels)
	}
	if !missing[4] {
		t.Fatalf("45 should fall outside the edges")
	}
}

func TestMerge(t *testing.T) {
	a := dataframe.New(
		series.New([]int{1, 2, 3}, series.Int, "id"),
		series.New([]int{10, 20, 30}, series.Int, "value1"),
	)
	b := dataframe.New(
		series.New([]int{2, 3, 4}, series.Int, "id"),
		series.New([]int{200, 300, 400}, series.Int, "value2"),
	)
	inner, err := Merge(a, b, "id", "inner")
	if err != nil {
		t.Fatalf("inner: %v", err)
	}
	if inner.Nrow() != 2 {
		t.Fatalf("inner rows = %d", inner.Nrow())
	}
	names := inner.Names()
	if len(names) != 3 || names[0] != "id" || names[1] != "value1" || names[2] != "value2" {
		t.Fatalf("inner columns = %v", names)
	}
	left, err := Merge(a, b, "id", "left")
	if err != nil {
		t.Fatalf("left: %v", err)
	}
	if left.Nrow() != 3 {
		t.Fatalf("left rows = %d", left.Nrow())
	}
	nan := 0
	for _, m := range left.Col("value2").IsNaN() {
		if m {
			nan++
		}
	}
	if nan != 1 {
		t.Fatalf("missing value2 = %d, want 1", nan)
	}
	if _, err := Merge(a, b, "id", "cross"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestRenameSelectConvert(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"old_name", "col2", "num", "cat"},
		{"1", "3", "1.0", "a"},
		{"2", "4", "2.0", "b"},
	})
	renamed, err := RenameColumns(df, map[string]string{"old_name": "new_name"})
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if !Has(renamed, "new_name") || Has(renamed, "old_name") {
		t.Fatalf("columns = %v", renamed.Names())
	}
	sel, err := SelectColumns(renamed, []string{"new_name", "cat"})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if names := sel.Names(); len(names) != 2 || names[0] != "new_name" || names[1] != "cat" {
		t.Fatalf("selected = %v", names)
	}
	if _, err := SelectColumns(df, []string{"ghost"}); !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("expected ErrColumnNotFound, got %v", err)
	}
	conv, err := ConvertTypes(df, map[string]string{"num": "int", "cat": "category"})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if conv.Col("num").Type() != series.Int {
		t.Fatalf("num type = %v", conv.Col("num").Type())
	}
	if conv.Col("cat").Type() != series.String {
		t.Fatalf("cat type = %v", conv.Col("cat").Type())
	}
}

func TestValueCountsAndCrosstab(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"Cat", "Group"},
		{"A", "X"},
		{"B", "Y"},
		{"A", "X"},
		{"C", "Y"},
	})
	vc, err := ValueCounts(df, "Cat")
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if vc[0].Value != "A" || vc[0].Count != 2 || len(vc) != 3 {
		t.Fatalf("value counts = %#v", vc)
	}
	ct, err := CrossTabulate(df, "Cat", "Group")
	if err != nil {
		t.Fatalf("crosstab: %v", err)
	}
	if ct.Counts[0][0] != 2 || ct.Counts[1][1] != 1 || ct.Counts[2][0] != 0 {
		t.Fatalf("counts = %v", ct.Counts)
	}
	norm := ct.Normalized()
	if norm[0][0] != 100 {
		t.Fatalf("normalized = %v", norm)
	}
}

func TestLevelsNumericOrder(t *testing.T) {
	got := Levels([]string{"10", "2", "1", "2"}, nil)
	want := []string{"1", "2", "10"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("levels = %v, want %v", got, want)
		}
	}
}
