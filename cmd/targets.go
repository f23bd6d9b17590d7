package cmd

import (
	"fmt"

	"github.com/KaramelBytes/edakit/internal/analysis"
	"github.com/KaramelBytes/edakit/internal/frame"
	"github.com/KaramelBytes/edakit/internal/quantitative"
	"github.com/spf13/cobra"
)

var (
	tgtColumns   []string
	tgtThreshold int
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Relate every feature to the target columns",
	Long: `targets splits the table into features and the --target columns (default
analysis.targets from the config) and writes feature/target relation plots,
the pair plot of the strongest relations, scatter plots colored by each
target and the letter-value plot of the features.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		targets := tgtColumns
		if len(targets) == 0 {
			targets = cfg.Analysis.Targets
		}
		if len(targets) == 0 {
			return fmt.Errorf("no target columns: pass --target or set analysis.targets")
		}
		thr := classificationThreshold()
		if cmd.Flags().Changed("threshold") {
			thr = tgtThreshold
		}

		df, schema, err := loadTable()
		if err != nil {
			return err
		}
		y, err := frame.SelectColumns(df, targets)
		if err != nil {
			return err
		}
		X, err := frame.SelectColumns(df, without(df.Names(), targets))
		if err != nil {
			return err
		}
		corr, err := analysis.Correlate(df, schema.Numeric())
		if err != nil {
			return err
		}
		dir, opts := figureDir(), figureOpts()

		if err := quantitative.FeatureTargetRelations(X, y, dir, thr, opts...); err != nil {
			return fmt.Errorf("feature/target relations: %w", err)
		}
		if err := quantitative.SelectiveMultivariate(X, y, corr, dir, opts...); err != nil {
			return fmt.Errorf("selective multivariate: %w", err)
		}
		quantitative.ScatterByTargets(logger, X, y, corr, dir, thr, opts...)
		if xs := frame.Classify(X); len(xs.Numeric()) > 0 {
			if err := quantitative.Boxenplot(X, xs, dir, opts...); err != nil {
				return fmt.Errorf("boxenplot: %w", err)
			}
		}
		return writeManifest(cmd, dir)
	},
}

// without returns names minus drop, order kept.
func without(names, drop []string) []string {
	skip := make(map[string]bool, len(drop))
	for _, d := range drop {
		skip[d] = true
	}
	var out []string
	for _, n := range names {
		if !skip[n] {
			out = append(out, n)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(targetsCmd)
	targetsCmd.Flags().StringSliceVarP(&tgtColumns, "target", "t", nil, "target column (repeatable)")
	targetsCmd.Flags().IntVar(&tgtThreshold, "threshold", quantitative.DefaultClassificationThreshold, "max distinct target values treated as classes")
}
