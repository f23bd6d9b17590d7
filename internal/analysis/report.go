// Package analysis computes descriptive statistics over tables: correlation
// matrices, describe() summaries, nullity and a Markdown dataset report.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/edakit/internal/frame"
	"github.com/go-gota/gota/dataframe"
)

// Options controls the dataset report.
type Options struct {
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
	// GroupBy computes per-group summaries for the given column names.
	GroupBy []string
	// Correlations computes Pearson correlations among numeric columns.
	Correlations bool
	// CorrPerGroup computes correlations per group key.
	CorrPerGroup bool
	// Outlier detection via robust Z-score (MAD). If Outliers is true, counts |z|>threshold.
	Outliers         bool
	OutlierThreshold float64
}

// DefaultOptions returns reasonable defaults for dataset analysis.
func DefaultOptions() Options {
	return Options{
		SampleRows:       5,
		Correlations:     true,
		Outliers:         true,
		OutlierThreshold: 3.5,
	}
}

// Report is a markdown-friendly analysis of a tabular dataset.
type Report struct {
	Name     string
	Rows     int
	Cols     []ColumnSummary
	Samples  [][]string
	Warnings []string
	Groups   []GroupResult
	Corr     *CorrMatrix
}

// ColumnSummary captures the kind and statistics of one column.
type ColumnSummary struct {
	Name    string
	Kind    frame.Kind
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Outliers (robust Z via MAD)
	OutliersCount    int
	OutliersMaxAbsZ  float64
	OutlierThreshold float64
	// Categorical top values
	TopValues []frame.Count
}

// GroupResult captures aggregated metrics per group key.
type GroupResult struct {
	Key       string
	Size      int
	Metrics   map[string]NumSummary // by column name
	CorrPairs []PairCorr            // top correlation pairs (by |r|)
}

// Build analyzes df using its schema and returns a Report.
func Build(name string, df dataframe.DataFrame, schema frame.Schema, opt Options) (*Report, error) {
	rep := &Report{Name: name, Rows: df.Nrow()}
	if df.Ncol() == 0 {
		return rep, nil
	}
	sampleRows := opt.SampleRows
	if sampleRows <= 0 {
		sampleRows = 5
	}
	thr := opt.OutlierThreshold
	if thr <= 0 {
		thr = 3.5
	}

	labels := map[string][]string{}
	missing := map[string][]bool{}
	for _, c := range schema.Columns {
		l, m, err := frame.Labels(df, c.Name)
		if err != nil {
			return nil, err
		}
		labels[c.Name], missing[c.Name] = l, m
	}

	numCols := schema.Numeric()
	for _, c := range schema.Columns {
		s := ColumnSummary{Name: c.Name, Kind: c.Kind}
		for _, m := range missing[c.Name] {
			if m {
				s.Missing++
			} else {
				s.NonNull++
			}
		}
		switch c.Kind {
		case frame.KindNumeric:
			xs, err := frame.Floats(df, c.Name)
			if err != nil {
				return nil, err
			}
			ns := Summarize1D(c.Name, xs)
			s.Min, s.Max, s.Mean, s.Std = ns.Min, ns.Max, ns.Mean, ns.Std
			if opt.Outliers {
				vals := frame.Dropna(xs)
				if len(vals) >= 8 {
					s.OutliersCount, s.OutliersMaxAbsZ = robustOutliers(vals, thr)
					s.OutlierThreshold = thr
				}
			}
		default:
			counts, err := frame.ValueCounts(df, c.Name)
			if err != nil {
				return nil, err
			}
			s.Unique = len(counts)
			if len(counts) > 8 {
				counts = counts[:8]
			}
			s.TopValues = counts
		}
		if s.NonNull == 0 && rep.Rows > 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("column %s has no values", c.Name))
		}
		rep.Cols = append(rep.Cols, s)
	}

	for i := 0; i < df.Nrow() && i < sampleRows; i++ {
		row := make([]string, len(schema.Columns))
		for j, c := range schema.Columns {
			if !missing[c.Name][i] {
				row[j] = labels[c.Name][i]
			}
		}
		rep.Samples = append(rep.Samples, row)
	}

	if opt.Correlations && len(numCols) >= 2 {
		m, err := Correlate(df, numCols)
		if err != nil {
			return nil, err
		}
		rep.Corr = m
	}

	if len(opt.GroupBy) > 0 {
		groups, err := groupResults(df, schema, opt, labels, missing)
		if err != nil {
			return nil, err
		}
		rep.Groups = groups
	}
	return rep, nil
}

// robustOutliers counts values whose robust Z-score exceeds thr.
func robustOutliers(vals []float64, thr float64) (int, float64) {
	median, mad := medianMAD(vals)
	if mad <= 0 {
		return 0, 0
	}
	var cnt int
	maxAbsZ := 0.0
	for _, v := range vals {
		az := math.Abs(0.6745 * (v - median) / mad)
		if az > thr {
			cnt++
		}
		if az > maxAbsZ {
			maxAbsZ = az
		}
	}
	return cnt, maxAbsZ
}

func groupResults(df dataframe.DataFrame, schema frame.Schema, opt Options, labels map[string][]string, missing map[string][]bool) ([]GroupResult, error) {
	var keyCols []string
	for _, name := range opt.GroupBy {
		name = strings.TrimSpace(name)
		for _, c := range schema.Columns {
			if strings.EqualFold(c.Name, name) {
				keyCols = append(keyCols, c.Name)
				break
			}
		}
	}
	if len(keyCols) == 0 {
		return nil, fmt.Errorf("%w: group-by %v", frame.ErrColumnNotFound, opt.GroupBy)
	}
	rows := map[string][]int{}
	for i := 0; i < df.Nrow(); i++ {
		parts := make([]string, 0, len(keyCols))
		for _, k := range keyCols {
			v := labels[k][i]
			if missing[k][i] {
				v = "NaN"
			}
			parts = append(parts, fmt.Sprintf("%s=%s", k, safeVal(v)))
		}
		key := strings.Join(parts, " | ")
		rows[key] = append(rows[key], i)
	}
	numCols := schema.Numeric()
	colVals := make([][]float64, len(numCols))
	for j, c := range numCols {
		xs, err := frame.Floats(df, c)
		if err != nil {
			return nil, err
		}
		colVals[j] = xs
	}
	out := make([]GroupResult, 0, len(rows))
	for key, idx := range rows {
		gr := GroupResult{Key: key, Size: len(idx), Metrics: map[string]NumSummary{}}
		sub := make([][]float64, len(numCols))
		for j, c := range numCols {
			vs := make([]float64, len(idx))
			for k, i := range idx {
				vs[k] = colVals[j][i]
			}
			sub[j] = vs
			if ns := Summarize1D(c, vs); ns.Count > 0 {
				gr.Metrics[c] = ns
			}
		}
		if opt.CorrPerGroup && len(numCols) >= 2 {
			var pairs []PairCorr
			for _, p := range CorrelateFloats(numCols, sub).Pairs() {
				if !math.IsNaN(p.R) {
					pairs = append(pairs, p)
				}
			}
			if len(pairs) > 10 {
				pairs = pairs[:10]
			}
			gr.CorrPairs = pairs
		}
		out = append(out, gr)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Size == out[j].Size {
			return out[i].Key < out[j].Key
		}
		return out[i].Size > out[j].Size
	})
	if len(out) > 20 {
		out = out[:20]
	}
	return out, nil
}

// Markdown renders a compact report suitable for standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case frame.KindNumeric:
			if c.NonNull > 0 {
				b.WriteString(fmt.Sprintf(": min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
			}
			if c.OutlierThreshold > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", c.OutliersCount, c.OutlierThreshold))
				if c.OutliersMaxAbsZ > 0 {
					b.WriteString(fmt.Sprintf(" (max |z|≈%.2f)", c.OutliersMaxAbsZ))
				}
			}
		default:
			if len(c.TopValues) > 0 {
				b.WriteString(": top ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		}
		b.WriteString("\n")
	}
	if len(r.Groups) > 0 {
		b.WriteString("\n[GROUP-BY SUMMARY]\n")
		for _, g := range r.Groups {
			b.WriteString(fmt.Sprintf("- %s (n=%d)\n", g.Key, g.Size))
			keys := make([]string, 0, len(g.Metrics))
			for k := range g.Metrics {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			if len(keys) > 6 {
				keys = keys[:6]
			}
			for _, k := range keys {
				m := g.Metrics[k]
				b.WriteString(fmt.Sprintf("  • %s: mean %.4g (min %.4g, max %.4g)\n", k, m.Mean, m.Min, m.Max))
			}
		}
	}
	hasGCorr := false
	for _, g := range r.Groups {
		if len(g.CorrPairs) > 0 {
			hasGCorr = true
			break
		}
	}
	if hasGCorr {
		b.WriteString("\n[PER-GROUP CORRELATIONS]\n")
		for _, g := range r.Groups {
			if len(g.CorrPairs) == 0 {
				continue
			}
			b.WriteString(fmt.Sprintf("- %s:\n", g.Key))
			lim := len(g.CorrPairs)
			if lim > 8 {
				lim = 8
			}
			for _, p := range g.CorrPairs[:lim] {
				b.WriteString(fmt.Sprintf("  • %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
			}
		}
	}
	if r.Corr != nil && len(r.Corr.Columns) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		pairs := r.Corr.Pairs()
		if len(pairs) > 10 {
			pairs = pairs[:10]
		}
		for _, p := range pairs {
			if math.IsNaN(p.R) {
				b.WriteString(fmt.Sprintf("- %s ~ %s: r=n/a\n", p.A, p.B))
				continue
			}
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
		}
	}
	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		b.WriteString("| ")
		for i, c := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n| ")
		for i := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			for i := range r.Cols {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := ""
				if i < len(row) {
					val = row[i]
				}
				if len(val) > 80 {
					val = val[:77] + "..."
				}
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
