package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cfgpkg "github.com/KaramelBytes/edakit/internal/config"
	"github.com/KaramelBytes/edakit/internal/dataio"
	"github.com/KaramelBytes/edakit/internal/frame"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// executeCmd runs the root command with args and fails the test on error.
func executeCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := executeCmdErr(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v\n%s", args, err, out)
	}
	return out
}

// executeCmdErr runs the root command with args from fresh flag values and
// returns its combined output.
func executeCmdErr(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag of c and its subcommands to its default,
// since cobra keeps parsed values between executions.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// writeTable writes a small speed dating style table and isolates the
// config from the working directory.
func writeTable(t *testing.T) (data, figs string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("EDAKIT_VISUALIZATION_DPI", "30")
	data = filepath.Join(dir, "dating.csv")
	csv := "gender,attr1_1,attr1_2,attr,sinc,dec,race\n" +
		"0,20,22,6,7,0,asian\n" +
		"1,30,32,7,6,1,white\n" +
		"0,25,27,5,8,0,white\n" +
		"1,35,37,8,5,1,black\n"
	if err := os.WriteFile(data, []byte(csv), 0o644); err != nil {
		t.Fatalf("write table: %v", err)
	}
	return data, filepath.Join(dir, "figures")
}

func exists(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if _, err := os.Stat(filepath.Join(dir, n)); err != nil {
			t.Fatalf("expected %s: %v", n, err)
		}
	}
}

func TestCLI_RunWritesFiguresAndManifest(t *testing.T) {
	data, figs := writeTable(t)
	out := executeCmd(t, "--data", data, "--out", figs, "run")
	if !strings.Contains(out, "RangeIndex: 4 entries, 0 to 3") {
		t.Fatalf("missing info output: %q", out)
	}
	exists(t, figs,
		"missing_values_matrix.png",
		"missing_values_heatmap.png",
		"temporal_histogram_attr1__time_1_by_gender.png",
		"temporal_histogram_attr1__time_2_by_gender.png",
		"manifest.json",
	)
	listed := executeCmd(t, "list", figs)
	if !strings.Contains(listed, "- missing_values_matrix.png") {
		t.Fatalf("list output: %q", listed)
	}
}

func TestCLI_MissingConfigFails(t *testing.T) {
	data, figs := writeTable(t)
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	_, err := executeCmdErr(t, "--config", missing, "--data", data, "--out", figs, "run")
	if !errors.Is(err, cfgpkg.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := os.Stat(figs); !os.IsNotExist(err) {
		t.Fatalf("no figures should be written, stat err = %v", err)
	}

	// without --config the built-in defaults apply again
	executeCmd(t, "--data", data, "--out", figs, "run")
	if cfg == nil || cfg.Analysis.Temporal.Prefix != "attr1_" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	exists(t, figs, "temporal_histogram_attr1__time_1_by_gender.png")
}

func TestCLI_ConfigShowRaw(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte("data:\n  raw_path: d.csv\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out := executeCmd(t, "--config", p, "config", "show", "--raw")
	if !strings.Contains(out, "raw_path: d.csv") || strings.Contains(out, "dpi") {
		t.Fatalf("raw output: %q", out)
	}
}

func TestCLI_InitRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	executeCmd(t, "init", dir, "--raw-path", "data/speed.csv")
	c, err := cfgpkg.Load(filepath.Join(dir, cfgpkg.DefaultFile))
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if c.Data.RawPath != "data/speed.csv" || c.Analysis.Temporal.Prefix != "attr1_" {
		t.Fatalf("unexpected config: %+v", c)
	}
	exists(t, dir, "figures")

	if _, err := executeCmdErr(t, "init", dir); err == nil {
		t.Fatal("expected init to refuse an existing config")
	}
}

func TestCLI_ExploreAndCompare(t *testing.T) {
	data, figs := writeTable(t)
	executeCmd(t, "--data", data, "--out", figs, "explore", "mixed")
	exists(t, figs, "boxplot_attr_by_race.png", "manifest.json")
	executeCmd(t, "--data", data, "--out", figs, "compare", "violin", "attr", "sinc")
	exists(t, figs, "Distributions_attr_sinc_by_gender.png")

	if _, err := executeCmdErr(t, "--data", data, "--out", figs, "compare", "violin", "attr"); err == nil {
		t.Fatal("expected an argument error for a single variable")
	}
}

func TestCLI_Targets(t *testing.T) {
	data, figs := writeTable(t)
	executeCmd(t, "--data", data, "--out", figs, "targets", "--target", "dec")
	exists(t, figs, "relation_attr_vs_dec.png", "key_relationships.png", "scatter_dec.png", "outliers_detection.png")
}

func TestCLI_PrepareAndSummarize(t *testing.T) {
	data, _ := writeTable(t)
	dir := filepath.Dir(data)
	outCSV := filepath.Join(dir, "prepared", "out.csv")
	metrics := filepath.Join(dir, "metrics.json")
	schema := filepath.Join(dir, "schema.gob")
	executeCmd(t, "--data", data, "prepare",
		"--aggregate", "gender:attr:sum:attr_total",
		"--rename", "sinc=sincerity",
		"--select", "gender,attr_total,sincerity",
		"-o", outCSV, "--metrics", metrics, "--schema", schema)

	df, err := dataio.LoadData(outCSV, "")
	if err != nil {
		t.Fatalf("load prepared: %v", err)
	}
	if got := strings.Join(df.Names(), ","); got != "gender,attr_total,sincerity" {
		t.Fatalf("columns = %s", got)
	}
	totals, _ := frame.Floats(df, "attr_total")
	if totals[0] != 11 || totals[1] != 15 {
		t.Fatalf("attr_total = %v", totals)
	}
	var s frame.Schema
	if err := dataio.LoadModel(schema, &s); err != nil {
		t.Fatalf("load schema: %v", err)
	}
	if len(s.Columns) != 3 {
		t.Fatalf("schema columns = %d", len(s.Columns))
	}
	exists(t, dir, "metrics.json")
	mb, err := os.ReadFile(metrics)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(mb, &m); err != nil {
		t.Fatalf("decode metrics: %v", err)
	}
	for k, v := range m {
		if _, ok := v.(float64); !ok {
			t.Fatalf("metric %s is not a number: %#v", k, v)
		}
	}
	if m["rows_out"] != float64(4) || m["cols_out"] != float64(3) {
		t.Fatalf("metrics = %v", m)
	}

	md := filepath.Join(dir, "summary.md")
	executeCmd(t, "--data", data, "summarize", "-o", md)
	b, err := os.ReadFile(md)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if !strings.Contains(string(b), "[DATASET SUMMARY]") || !strings.Contains(string(b), "Rows: 4") {
		t.Fatalf("unexpected summary: %s", b)
	}
}

func TestConfigSetValue(t *testing.T) {
	c := &cfgpkg.Global{}
	if err := setConfigValue(c, "analysis.temporal.times", "1, 2 ,3"); err != nil {
		t.Fatalf("set times: %v", err)
	}
	if strings.Join(c.Analysis.Temporal.Times, "|") != "1|2|3" {
		t.Fatalf("times = %v", c.Analysis.Temporal.Times)
	}
	if err := setConfigValue(c, "visualization.dpi", "-4"); err == nil {
		t.Fatal("expected error for negative dpi")
	}
	if err := setConfigValue(c, "nope", "x"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestWithout(t *testing.T) {
	got := without([]string{"a", "b", "c", "d"}, []string{"d", "b"})
	if strings.Join(got, ",") != "a,c" {
		t.Fatalf("without = %v", got)
	}
}

func TestParseCategorize(t *testing.T) {
	col, bins, newCol, err := parseCategorize("age:0/18/65:band")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if col != "age" || newCol != "band" || len(bins.Edges) != 3 || bins.Edges[1] != 18 {
		t.Fatalf("got %s %v %s", col, bins, newCol)
	}
	if _, bins, _, err := parseCategorize("age:4"); err != nil || bins.Count != 4 {
		t.Fatalf("count bins: %v %v", bins, err)
	}
	if _, _, _, err := parseCategorize("age"); err == nil {
		t.Fatal("expected error without bins")
	}
}
