package utils

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDirIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	created, err := EnsureDir(dir)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if !created {
		t.Fatalf("expected directory to be created")
	}
	created, err = EnsureDir(dir)
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if created {
		t.Fatalf("second call should not report creation")
	}
}

func TestEnsureDirRejectsFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := EnsureDir(p); err == nil {
		t.Fatalf("expected error for regular file")
	}
}

func TestSafeWriteFileAndPrettyJSON(t *testing.T) {
	p := filepath.Join(t.TempDir(), "m.json")
	b, err := PrettyJSON(map[string]float64{"acc": 0.9}, "    ")
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if err := SafeWriteFile(p, b); err != nil {
		t.Fatalf("write: %v", err)
	}
	raw, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got map[string]float64
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["acc"] != 0.9 {
		t.Fatalf("acc = %v", got["acc"])
	}
	if _, err := os.Stat(p + ".tmp"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestFindUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "x", "y")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	cfg := filepath.Join(root, "config.yaml")
	if err := os.WriteFile(cfg, []byte("a: 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := FindUp(nested, "config.yaml")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != cfg {
		t.Fatalf("got %s, want %s", got, cfg)
	}
	if _, err := FindUp(nested, "missing.yaml"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
