package dataio_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/edakit/internal/dataio"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

func sample() dataframe.DataFrame {
	return dataframe.New(
		series.New([]int{1, 2, 3}, series.Int, "id"),
		series.New([]string{"a", "b", "c"}, series.String, "name"),
		series.New([]float64{1.5, 2.5, 3.5}, series.Float, "value"),
	)
}

func checkSample(t *testing.T, df dataframe.DataFrame) {
	t.Helper()
	if df.Nrow() != 3 || df.Ncol() != 3 {
		t.Fatalf("dims = %dx%d", df.Nrow(), df.Ncol())
	}
	names := df.Names()
	if names[0] != "id" || names[1] != "name" || names[2] != "value" {
		t.Fatalf("names = %v", names)
	}
	if df.Col("id").Type() != series.Int {
		t.Fatalf("id type = %v", df.Col("id").Type())
	}
	if got := df.Col("value").Float(); got[1] != 2.5 {
		t.Fatalf("value = %v", got)
	}
	if got := df.Col("name").Records(); got[2] != "c" {
		t.Fatalf("name = %v", got)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(p, []byte("data:\n  raw_path: data.csv\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := dataio.LoadConfig(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	data, ok := cfg["data"].(map[string]any)
	if !ok || data["raw_path"] != "data.csv" {
		t.Fatalf("config = %#v", cfg)
	}
	if _, err := dataio.LoadConfig(filepath.Join(dir, "missing.yaml")); !errors.Is(err, dataio.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	for _, name := range []string{"out.csv", "out.tsv"} {
		t.Run(name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), "nested", name)
			if err := dataio.SaveData(sample(), p); err != nil {
				t.Fatalf("save: %v", err)
			}
			df, err := dataio.LoadData(p, "utf-8")
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			checkSample(t, df)
		})
	}
}

func TestSaveTSVUsesTabs(t *testing.T) {
	p := filepath.Join(t.TempDir(), "t.tsv")
	df := dataframe.LoadRecords([][]string{{"a", "b"}, {"1", "x"}, {"2", "y"}})
	if err := dataio.SaveData(df, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := string(b); got != "a\tb\n1\tx\n2\ty\n" {
		t.Fatalf("unexpected tsv: %q", got)
	}
	back, err := dataio.LoadData(p, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if back.Ncol() != 2 || back.Nrow() != 2 {
		t.Fatalf("got %dx%d", back.Nrow(), back.Ncol())
	}
}

func TestExcelRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.xlsx")
	if err := dataio.SaveData(sample(), p); err != nil {
		t.Fatalf("save: %v", err)
	}
	df, err := dataio.LoadData(p, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	checkSample(t, df)
}

func TestLoadDataMissingAndUnsupported(t *testing.T) {
	dir := t.TempDir()
	if _, err := dataio.LoadData(filepath.Join(dir, "none.csv"), ""); !errors.Is(err, dataio.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	p := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := dataio.LoadData(p, ""); !errors.Is(err, dataio.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadDataLatin1(t *testing.T) {
	p := filepath.Join(t.TempDir(), "latin.csv")
	content := []byte("city,n\ncaf\xe9,1\nbar,2\n")
	if err := os.WriteFile(p, content, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	df, err := dataio.LoadData(p, "ISO-8859-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := df.Col("city").Records()[0]; got != "café" {
		t.Fatalf("city = %q", got)
	}
	if _, err := dataio.LoadData(p, "klingon"); !errors.Is(err, dataio.ErrUnknownEncoding) {
		t.Fatalf("expected ErrUnknownEncoding, got %v", err)
	}
}

func TestSaveDataUnknownExtensionFallsBackToCSV(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.dat")
	if dataio.Supported(p) {
		t.Fatalf(".dat should not be a registered format")
	}
	if err := dataio.SaveData(sample(), p); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(b) == 0 || string(b[:13]) != "id,name,value" {
		t.Fatalf("unexpected content: %q", b)
	}
}

func TestModelRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "models", "model.gob")
	if err := dataio.SaveModel(map[string]bool{"test": true}, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	var got map[string]bool
	if err := dataio.LoadModel(p, &got); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got["test"] {
		t.Fatalf("model = %v", got)
	}
	if err := dataio.LoadModel(filepath.Join(t.TempDir(), "none.gob"), &got); !errors.Is(err, dataio.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveMetrics(t *testing.T) {
	p := filepath.Join(t.TempDir(), "metrics.json")
	if err := dataio.SaveMetrics(map[string]any{"accuracy": 0.95}, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got map[string]float64
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["accuracy"] != 0.95 {
		t.Fatalf("metrics = %v", got)
	}
	if string(b) != "{\n    \"accuracy\": 0.95\n}" {
		t.Fatalf("indent = %q", b)
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	created, err := dataio.EnsureDir(dir)
	if err != nil || !created {
		t.Fatalf("first call = %v %v", created, err)
	}
	created, err = dataio.EnsureDir(dir)
	if err != nil || created {
		t.Fatalf("second call = %v %v", created, err)
	}
}
