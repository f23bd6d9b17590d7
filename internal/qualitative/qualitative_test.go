package qualitative

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/edakit/internal/figure"
	"github.com/KaramelBytes/edakit/internal/frame"
	"github.com/go-gota/gota/dataframe"
)

func sample() dataframe.DataFrame {
	return dataframe.LoadRecords([][]string{
		{"Cat", "Group"},
		{"A", "X"},
		{"B", "Y"},
		{"A", "X"},
		{"C", "Y"},
	})
}

var small = []figure.Option{figure.WithSize(3, 2), figure.WithDPI(40)}

func exists(t *testing.T, dir, name string) {
	t.Helper()
	if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
		t.Fatalf("expected %s: %v", name, err)
	}
}

func TestPlots(t *testing.T) {
	dir := t.TempDir()
	df := sample()
	tests := []struct {
		name string
		file string
		run  func() error
	}{
		{"bar", "bar_Cat.png", func() error { return BarChart(df, "Cat", dir, small...) }},
		{"pie", "pie_Cat.png", func() error { return PieChart(df, "Cat", dir, small...) }},
		{"heatmap", "heatmap_Cat_vs_Group.png", func() error { return ContingencyHeatmap(df, "Cat", "Group", dir, small...) }},
		{"stacked", "stacked_bar_Cat_vs_Group.png", func() error { return StackedBar(df, "Cat", "Group", dir, small...) }},
		{"countplot", "countplot_Cat_by_Group.png", func() error { return CountPlotWithHue(df, "Cat", "Group", dir, small...) }},
		{"mosaic", "mosaic_Cat_Group.png", func() error { return Mosaic(df, []string{"Cat", "Group"}, dir, small...) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.run(); err != nil {
				t.Fatalf("%s: %v", tc.name, err)
			}
			exists(t, dir, tc.file)
		})
	}
}

func TestDefaultSizeCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "new", "figures")
	if err := BarChart(sample(), "Group", dir); err != nil {
		t.Fatalf("bar: %v", err)
	}
	exists(t, dir, "bar_Group.png")
}

func TestErrors(t *testing.T) {
	dir := t.TempDir()
	if err := BarChart(sample(), "Missing", dir); !errors.Is(err, frame.ErrColumnNotFound) {
		t.Fatalf("expected ErrColumnNotFound, got %v", err)
	}
	if err := Mosaic(sample(), nil, dir); !errors.Is(err, frame.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	empty := dataframe.LoadRecords([][]string{{"Cat"}, {"NaN"}})
	if err := PieChart(empty, "Cat", dir); !errors.Is(err, frame.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestMosaicSingleColumn(t *testing.T) {
	dir := t.TempDir()
	if err := Mosaic(sample(), []string{"Cat"}, dir, small...); err != nil {
		t.Fatalf("mosaic: %v", err)
	}
	exists(t, dir, "mosaic_Cat.png")
}
