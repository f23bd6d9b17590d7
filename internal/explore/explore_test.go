package explore

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/edakit/internal/figure"
	"github.com/KaramelBytes/edakit/internal/frame"
	"github.com/go-gota/gota/dataframe"
)

var lowRes = []figure.Option{figure.WithDPI(30)}

func mixedDF() dataframe.DataFrame {
	return dataframe.LoadRecords([][]string{
		{"age", "score", "city", "tier"},
		{"21", "3.5", "Paris", "gold"},
		{"34", "4.1", "Lyon", "silver"},
		{"28", "2.9", "Paris", "silver"},
		{"45", "3.8", "Nice", "gold"},
	})
}

func exists(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
}

func TestQuantitative(t *testing.T) {
	dir := t.TempDir()
	df := mixedDF()
	var buf bytes.Buffer
	if err := Quantitative(&buf, df, frame.Classify(df), dir, lowRes...); err != nil {
		t.Fatalf("quantitative: %v", err)
	}
	exists(t, dir, "correlation_matrix.png", "age_distribution.png", "score_boxplot.png")
	if !strings.Contains(buf.String(), "✓ Quantitative figures for 2 column(s)") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestQualitative(t *testing.T) {
	dir := t.TempDir()
	df := mixedDF()
	var buf bytes.Buffer
	if err := Qualitative(&buf, df, frame.Classify(df), dir, lowRes...); err != nil {
		t.Fatalf("qualitative: %v", err)
	}
	exists(t, dir, "bar_city.png", "pie_city.png", "bar_tier.png", "pie_tier.png", "heatmap_city_vs_tier.png")
}

func TestMixed(t *testing.T) {
	dir := t.TempDir()
	df := mixedDF()
	var buf bytes.Buffer
	if err := Mixed(&buf, df, frame.Classify(df), dir, lowRes...); err != nil {
		t.Fatalf("mixed: %v", err)
	}
	exists(t, dir, "boxplot_age_by_city.png", "boxplot_age_by_tier.png", "boxplot_score_by_city.png", "boxplot_score_by_tier.png")
	if !strings.Contains(buf.String(), "4 mixed box plot(s)") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestEmptyPasses(t *testing.T) {
	nums := dataframe.LoadRecords([][]string{{"x"}, {"1"}, {"2"}})
	cats := dataframe.LoadRecords([][]string{{"c"}, {"a"}, {"b"}})
	tests := []struct {
		name string
		run  func(*bytes.Buffer, string) error
		want string
	}{
		{"quantitative", func(b *bytes.Buffer, d string) error { return Quantitative(b, cats, frame.Classify(cats), d) }, "No quantitative data to explore."},
		{"qualitative", func(b *bytes.Buffer, d string) error { return Qualitative(b, nums, frame.Classify(nums), d) }, "No qualitative data to explore."},
		{"mixed", func(b *bytes.Buffer, d string) error { return Mixed(b, nums, frame.Classify(nums), d) }, "No mixed data to explore."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			var buf bytes.Buffer
			if err := tc.run(&buf, dir); err != nil {
				t.Fatalf("%s: %v", tc.name, err)
			}
			if strings.TrimSpace(buf.String()) != tc.want {
				t.Fatalf("got %q, want %q", buf.String(), tc.want)
			}
			entries, _ := os.ReadDir(dir)
			if len(entries) != 0 {
				t.Fatalf("expected no files, got %d", len(entries))
			}
		})
	}
}

func TestSummaryReport(t *testing.T) {
	dir := t.TempDir()
	df := mixedDF()
	var buf bytes.Buffer
	if err := SummaryReport(&buf, df, frame.Classify(df), dir, lowRes...); err != nil {
		t.Fatalf("summary report: %v", err)
	}
	out := buf.String()
	desc := strings.Index(out, "Descriptive statistics:")
	info := strings.Index(out, "Structural information:")
	if desc < 0 || info < 0 || desc > info {
		t.Fatalf("sections missing or out of order: %q", out)
	}
	exists(t, dir, "correlation_matrix.png", "bar_city.png", "pie_tier.png")
}
