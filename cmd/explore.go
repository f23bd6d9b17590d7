package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/edakit/internal/explore"
	"github.com/KaramelBytes/edakit/internal/qualitative"
	"github.com/spf13/cobra"
)

var exploreCmd = &cobra.Command{
	Use:       "explore [quantitative|qualitative|mixed|all]",
	Short:     "Write the exploration figures for one kind of column (default all)",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"quantitative", "qualitative", "mixed", "all"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := "all"
		if len(args) == 1 {
			kind = strings.ToLower(args[0])
		}
		df, schema, err := loadTable()
		if err != nil {
			return err
		}
		out, dir, opts := cmd.OutOrStdout(), figureDir(), figureOpts()
		if kind == "quantitative" || kind == "all" {
			if err := explore.Quantitative(out, df, schema, dir, opts...); err != nil {
				return err
			}
		}
		if kind == "qualitative" || kind == "all" {
			if err := explore.Qualitative(out, df, schema, dir, opts...); err != nil {
				return err
			}
		}
		if kind == "mixed" || kind == "all" {
			if err := explore.Mixed(out, df, schema, dir, opts...); err != nil {
				return err
			}
		}
		return writeManifest(cmd, dir)
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print descriptive and structural summaries and write the overview figures",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		df, schema, err := loadTable()
		if err != nil {
			return err
		}
		dir := figureDir()
		if err := explore.SummaryReport(cmd.OutOrStdout(), df, schema, dir, figureOpts()...); err != nil {
			return err
		}
		return writeManifest(cmd, dir)
	},
}

var crosstabCmd = &cobra.Command{
	Use:   "crosstab <col1> <col2> [more...]",
	Short: "Plot the joint distribution of categorical columns",
	Long: `crosstab writes the contingency heatmap, stacked bar chart and count plot
of the first two columns, and a mosaic plot over all given columns.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		df, _, err := loadTable()
		if err != nil {
			return err
		}
		dir, opts := figureDir(), figureOpts()
		a, b := args[0], args[1]
		if err := qualitative.ContingencyHeatmap(df, a, b, dir, opts...); err != nil {
			return fmt.Errorf("contingency heatmap: %w", err)
		}
		if err := qualitative.StackedBar(df, a, b, dir, opts...); err != nil {
			return fmt.Errorf("stacked bar: %w", err)
		}
		if err := qualitative.CountPlotWithHue(df, a, b, dir, opts...); err != nil {
			return fmt.Errorf("count plot: %w", err)
		}
		if err := qualitative.Mosaic(df, args, dir, opts...); err != nil {
			return fmt.Errorf("mosaic: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Cross-tabulation figures for %s in %s\n", strings.Join(args, ", "), dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(crosstabCmd)
}
