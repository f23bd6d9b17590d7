package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSummarizeBatch_AvoidsOverwrite(t *testing.T) {
	home := t.TempDir()
	// two CSV files with the same basename in different directories
	d1 := filepath.Join(home, "d1")
	d2 := filepath.Join(home, "d2")
	for _, d := range []string{d1, d2} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
		if err := os.WriteFile(filepath.Join(d, "metrics.csv"), []byte("col1,col2\nA,1\nB,2\nC,3\n"), 0o644); err != nil {
			t.Fatalf("write csv: %v", err)
		}
	}
	outDir := filepath.Join(home, "summaries")
	out := executeCmd(t, "summarize-batch", filepath.Join(home, "d*", "metrics.csv"), "--out-dir", outDir)
	if !strings.Contains(out, "[2/2] Processing metrics.csv...") {
		t.Fatalf("missing progress: %q", out)
	}
	b1 := filepath.Join(outDir, "metrics.summary.md")
	b2 := filepath.Join(outDir, "metrics__2.summary.md")
	for _, p := range []string{b1, b2} {
		body, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("missing summary: %v", err)
		}
		if !strings.Contains(string(body), "Rows: 3") {
			t.Fatalf("unexpected summary %s: %s", p, body)
		}
	}
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	if err := os.WriteFile(a, []byte("x\n1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got := expandInputs([]string{a, filepath.Join(dir, "*.csv"), filepath.Join(dir, "missing.csv")})
	if len(got) != 1 || got[0] != a {
		t.Fatalf("expandInputs = %v", got)
	}
}
