// Package explore runs the standard exploration passes over a table and
// prints a short trail of what was written.
package explore

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/edakit/internal/figure"
	"github.com/KaramelBytes/edakit/internal/frame"
	"github.com/KaramelBytes/edakit/internal/inspect"
	"github.com/KaramelBytes/edakit/internal/qualitative"
	"github.com/KaramelBytes/edakit/internal/quantitative"
	"github.com/go-gota/gota/dataframe"
)

// Quantitative plots the correlation matrix, the distributions and the box
// plots of the numeric columns.
func Quantitative(w io.Writer, df dataframe.DataFrame, schema frame.Schema, dir string, opts ...figure.Option) error {
	cols := schema.Numeric()
	if len(cols) == 0 {
		fmt.Fprintln(w, "No quantitative data to explore.")
		return nil
	}
	if _, err := quantitative.CorrelationMatrix(df, schema, dir, opts...); err != nil {
		return fmt.Errorf("correlation matrix: %w", err)
	}
	if err := quantitative.FeatureDistributions(df, schema, dir, opts...); err != nil {
		return fmt.Errorf("distributions: %w", err)
	}
	if err := quantitative.Boxplots(df, schema, dir, opts...); err != nil {
		return fmt.Errorf("boxplots: %w", err)
	}
	fmt.Fprintf(w, "✓ Quantitative figures for %d column(s) in %s\n", len(cols), dir)
	return nil
}

// Qualitative draws a bar and a pie chart per categorical column and the
// contingency heatmap of the first two.
func Qualitative(w io.Writer, df dataframe.DataFrame, schema frame.Schema, dir string, opts ...figure.Option) error {
	cols := schema.Categorical()
	if len(cols) == 0 {
		fmt.Fprintln(w, "No qualitative data to explore.")
		return nil
	}
	if err := barsAndPies(df, cols, dir, opts); err != nil {
		return err
	}
	if len(cols) >= 2 {
		if err := qualitative.ContingencyHeatmap(df, cols[0], cols[1], dir, opts...); err != nil {
			return fmt.Errorf("contingency heatmap: %w", err)
		}
	}
	fmt.Fprintf(w, "✓ Qualitative figures for %d column(s) in %s\n", len(cols), dir)
	return nil
}

func barsAndPies(df dataframe.DataFrame, cols []string, dir string, opts []figure.Option) error {
	for _, c := range cols {
		if err := qualitative.BarChart(df, c, dir, opts...); err != nil {
			return fmt.Errorf("bar chart %s: %w", c, err)
		}
		if err := qualitative.PieChart(df, c, dir, opts...); err != nil {
			return fmt.Errorf("pie chart %s: %w", c, err)
		}
	}
	return nil
}

// Mixed draws box plots of every numeric column split by every categorical
// column; boxplot_<num>_by_<cat>.png (10x6).
func Mixed(w io.Writer, df dataframe.DataFrame, schema frame.Schema, dir string, opts ...figure.Option) error {
	nums, cats := schema.Numeric(), schema.Categorical()
	if len(nums) == 0 || len(cats) == 0 {
		fmt.Fprintln(w, "No mixed data to explore.")
		return nil
	}
	n := 0
	for _, num := range nums {
		for _, cat := range cats {
			if err := quantitative.GroupBoxplot(df, num, cat, dir, opts...); err != nil {
				return fmt.Errorf("box plot %s by %s: %w", num, cat, err)
			}
			n++
		}
	}
	fmt.Fprintf(w, "✓ %d mixed box plot(s) in %s\n", n, dir)
	return nil
}

// SummaryReport prints the full description and the structural summary of
// df, then writes the correlation matrix and the bar and pie charts.
func SummaryReport(w io.Writer, df dataframe.DataFrame, schema frame.Schema, dir string, opts ...figure.Option) error {
	fmt.Fprintln(w, "Descriptive statistics:")
	if err := inspect.DisplayFullDescription(w, df, schema); err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Structural information:")
	if err := inspect.DisplayInfo(w, df); err != nil {
		return err
	}
	if len(schema.Numeric()) > 0 {
		if _, err := quantitative.CorrelationMatrix(df, schema, dir, opts...); err != nil {
			return fmt.Errorf("correlation matrix: %w", err)
		}
	}
	if err := barsAndPies(df, schema.Categorical(), dir, opts); err != nil {
		return err
	}
	fmt.Fprintf(w, "✓ Summary figures written to %s\n", dir)
	return nil
}
