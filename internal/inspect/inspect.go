// Package inspect prints first-look summaries of a table and plots its
// missing values.
package inspect

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/KaramelBytes/edakit/internal/analysis"
	"github.com/KaramelBytes/edakit/internal/frame"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// DefaultHeadRows is the number of rows DisplayHead prints when n <= 0.
const DefaultHeadRows = 5

// DisplayHead writes the first n rows of df as an aligned table.
func DisplayHead(w io.Writer, df dataframe.DataFrame, n int) error {
	if n <= 0 {
		n = DefaultHeadRows
	}
	if n > df.Nrow() {
		n = df.Nrow()
	}
	names := df.Names()
	cells := make([][]string, len(names))
	for j, name := range names {
		labels, missing, err := frame.Labels(df, name)
		if err != nil {
			return err
		}
		col := make([]string, n)
		for i := 0; i < n; i++ {
			col[i] = labels[i]
			if missing[i] {
				col[i] = "NaN"
			}
		}
		cells[j] = col
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\t%s\t\n", strings.Join(names, "\t"))
	for i := 0; i < n; i++ {
		row := make([]string, len(names))
		for j := range names {
			row[j] = cells[j][i]
		}
		fmt.Fprintf(tw, "%d\t%s\t\n", i, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// DisplayInfo writes the structural summary of df: row range, per-column
// non-null counts and types, and the type tally.
func DisplayInfo(w io.Writer, df dataframe.DataFrame) error {
	names := df.Names()
	rows := df.Nrow()
	null := analysis.MissingMask(df).Counts()
	fmt.Fprintln(w, "<class 'DataFrame'>")
	if rows == 0 {
		fmt.Fprintln(w, "RangeIndex: 0 entries")
	} else {
		fmt.Fprintf(w, "RangeIndex: %d entries, 0 to %d\n", rows, rows-1)
	}
	fmt.Fprintf(w, "Data columns (total %d columns):\n", len(names))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, " #\tColumn\tNon-Null Count\tDtype\t")
	fmt.Fprintln(tw, "---\t------\t--------------\t-----\t")
	tally := map[string]int{}
	var order []string
	for i, name := range names {
		dt := dtype(df.Col(name).Type())
		if _, ok := tally[dt]; !ok {
			order = append(order, dt)
		}
		tally[dt]++
		fmt.Fprintf(tw, " %d\t%s\t%d non-null\t%s\t\n", i, name, rows-null[i], dt)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	parts := make([]string, len(order))
	for i, dt := range order {
		parts[i] = fmt.Sprintf("%s(%d)", dt, tally[dt])
	}
	fmt.Fprintf(w, "dtypes: %s\n", strings.Join(parts, ", "))
	return nil
}

// DisplayDescription writes count, mean, std, min, quartiles and max of every
// numeric column.
func DisplayDescription(w io.Writer, df dataframe.DataFrame) error {
	cols := frame.Classify(df).Numeric()
	if len(cols) == 0 {
		_, err := fmt.Fprintln(w, "No numeric columns to describe.")
		return err
	}
	stats, err := analysis.DescribeNumeric(df, cols)
	if err != nil {
		return err
	}
	return writeStats(w, cols, numericRows(stats))
}

// DisplayFullDescription is DisplayDescription over every column, adding
// count, unique, top and freq for non-numeric ones.
func DisplayFullDescription(w io.Writer, df dataframe.DataFrame, schema frame.Schema) error {
	names := schema.Names()
	if len(names) == 0 {
		_, err := fmt.Fprintln(w, "Empty table.")
		return err
	}
	rows := []statRow{
		{label: "count"}, {label: "unique"}, {label: "top"}, {label: "freq"},
		{label: "mean"}, {label: "std"}, {label: "min"}, {label: "25%"},
		{label: "50%"}, {label: "75%"}, {label: "max"},
	}
	for _, c := range schema.Columns {
		if c.Kind == frame.KindNumeric {
			st, err := analysis.DescribeNumeric(df, []string{c.Name})
			if err != nil {
				return err
			}
			s := st[0]
			vals := []string{
				num(float64(s.Count)), "NaN", "NaN", "NaN",
				num(s.Mean), num(s.Std), num(s.Min), num(s.Q25), num(s.Q50), num(s.Q75), num(s.Max),
			}
			for i := range rows {
				rows[i].cells = append(rows[i].cells, vals[i])
			}
			continue
		}
		st, err := analysis.DescribeCategorical(df, []string{c.Name})
		if err != nil {
			return err
		}
		s := st[0]
		top := s.Top
		freq := strconv.Itoa(s.Freq)
		if s.Count == 0 {
			top, freq = "NaN", "NaN"
		}
		vals := []string{strconv.Itoa(s.Count), strconv.Itoa(s.Unique), top, freq}
		for i := range rows {
			if i < len(vals) {
				rows[i].cells = append(rows[i].cells, vals[i])
			} else {
				rows[i].cells = append(rows[i].cells, "NaN")
			}
		}
	}
	return writeStats(w, names, rows)
}

type statRow struct {
	label string
	cells []string
}

func numericRows(stats []analysis.NumSummary) []statRow {
	rows := []statRow{
		{label: "count"}, {label: "mean"}, {label: "std"}, {label: "min"},
		{label: "25%"}, {label: "50%"}, {label: "75%"}, {label: "max"},
	}
	for _, s := range stats {
		vals := []float64{float64(s.Count), s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max}
		for i, v := range vals {
			rows[i].cells = append(rows[i].cells, num(v))
		}
	}
	return rows
}

func writeStats(w io.Writer, cols []string, rows []statRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\t%s\t\n", strings.Join(cols, "\t"))
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t\n", r.label, strings.Join(r.cells, "\t"))
	}
	return tw.Flush()
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func dtype(t series.Type) string {
	switch t {
	case series.Int:
		return "int64"
	case series.Float:
		return "float64"
	case series.Bool:
		return "bool"
	default:
		return "object"
	}
}
