package manifest_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/edakit/internal/manifest"
)

func TestScanSaveLoad(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.png", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("data"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	run, err := manifest.Scan(dir, "data/raw.csv")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(run.Figures) != 2 {
		t.Fatalf("expected 2 figures, got %d", len(run.Figures))
	}
	if run.Figures[0].Name != "a.png" || run.Figures[1].Name != "b.png" {
		t.Fatalf("figures not sorted: %s, %s", run.Figures[0].Name, run.Figures[1].Name)
	}
	if run.ID == "" || run.Figures[0].ID == run.Figures[1].ID {
		t.Fatalf("expected distinct ids")
	}
	if run.TotalBytes() != 8 {
		t.Fatalf("total bytes = %d", run.TotalBytes())
	}
	if err := run.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	back, err := manifest.Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if back.ID != run.ID || back.Data != "data/raw.csv" || len(back.Figures) != 2 {
		t.Fatalf("loaded manifest differs: %+v", back)
	}
	if back.Dir() != dir {
		t.Fatalf("dir = %q", back.Dir())
	}
}

func TestScanEmptyDir(t *testing.T) {
	run, err := manifest.Scan(t.TempDir(), "")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(run.Figures) != 0 {
		t.Fatalf("expected no figures")
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := manifest.Load(t.TempDir()); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
	if _, err := manifest.Scan(filepath.Join(t.TempDir(), "nope"), ""); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
