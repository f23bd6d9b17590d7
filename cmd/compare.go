package cmd

import (
	"fmt"

	"github.com/KaramelBytes/edakit/internal/figure"
	"github.com/KaramelBytes/edakit/internal/quantitative"
	"github.com/go-gota/gota/dataframe"
	"github.com/spf13/cobra"
)

var (
	cmpHue      string
	cmpGroup    string
	cmpDecision string
)

type compareCtx struct {
	df   dataframe.DataFrame
	dir  string
	opts []figure.Option
}

// withTable loads the configured table and hands it to draw.
func withTable(cmd *cobra.Command, draw func(compareCtx) error) error {
	df, _, err := loadTable()
	if err != nil {
		return err
	}
	c := compareCtx{df: df, dir: figureDir(), opts: figureOpts()}
	if err := draw(c); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name(), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s comparison written to %s\n", cmd.Name(), c.dir)
	return nil
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Comparison figures between survey variables",
}

var compareScatterCmd = &cobra.Command{
	Use:   "scatter <x> <y>",
	Short: "Scatter y against x colored by --hue",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTable(cmd, func(c compareCtx) error {
			return quantitative.ScatterComparison(c.df, args[0], args[1], cmpHue, c.dir, c.opts...)
		})
	},
}

var compareViolinCmd = &cobra.Command{
	Use:   "violin <var1> <var2>",
	Short: "Violin plots of two variables per level of --group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTable(cmd, func(c compareCtx) error {
			return quantitative.ViolinComparison(c.df, args, cmpGroup, c.dir, c.opts...)
		})
	},
}

var compareBoxplotsCmd = &cobra.Command{
	Use:   "boxplots <var>...",
	Short: "Box plots of each variable split by --decision",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTable(cmd, func(c compareCtx) error {
			return quantitative.BoxplotsByDecision(c.df, args, cmpDecision, c.dir, c.opts...)
		})
	},
}

var compareHeatmapCmd = &cobra.Command{
	Use:   "heatmap <var>...",
	Short: "Annotated correlation matrix among the given variables",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTable(cmd, func(c compareCtx) error {
			return quantitative.CorrelationHeatmap(c.df, args, c.dir, c.opts...)
		})
	},
}

var compareTemporalCmd = &cobra.Command{
	Use:   "temporal",
	Short: "All time points of the configured temporal variable in one figure",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTable(cmd, func(c compareCtx) error {
			t := cfg.Analysis.Temporal
			return quantitative.TemporalHistograms(c.df, t.Prefix, t.Times, t.Group, c.dir, c.opts...)
		})
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.AddCommand(compareScatterCmd, compareViolinCmd, compareBoxplotsCmd, compareHeatmapCmd, compareTemporalCmd)
	compareScatterCmd.Flags().StringVar(&cmpHue, "hue", "gender", "column coloring the points")
	compareViolinCmd.Flags().StringVar(&cmpGroup, "group", "gender", "column splitting the violins")
	compareBoxplotsCmd.Flags().StringVar(&cmpDecision, "decision", "dec", "column splitting the boxes")
}
