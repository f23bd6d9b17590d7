package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/edakit/internal/analysis"
	"github.com/KaramelBytes/edakit/internal/utils"
	"github.com/spf13/cobra"
)

var (
	sumOutputPath string
	sumSampleRows int
	sumGroupBy    []string
	sumCorr       bool
	sumCorrGroups bool
	sumOutliers   bool
	sumOutlierThr float64
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Produce a concise Markdown summary of a table",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			cfg.Data.RawPath = args[0]
		}
		opt := analysis.DefaultOptions()
		if sumSampleRows > 0 {
			opt.SampleRows = sumSampleRows
		}
		opt.GroupBy = sumGroupBy
		opt.Correlations = sumCorr
		opt.CorrPerGroup = sumCorrGroups
		if cmd.Flags().Changed("outliers") {
			opt.Outliers = sumOutliers
		} else {
			opt.Outliers = true
		}
		if sumOutlierThr > 0 {
			opt.OutlierThreshold = sumOutlierThr
		}

		df, schema, err := loadTable()
		if err != nil {
			return err
		}
		rep, err := analysis.Build(filepath.Base(cfg.Data.RawPath), df, schema, opt)
		if err != nil {
			return err
		}
		md := rep.Markdown()
		if sumOutputPath == "" {
			fmt.Fprintln(cmd.OutOrStdout(), md)
			return nil
		}
		if err := utils.EnsureParent(sumOutputPath); err != nil {
			return err
		}
		if err := utils.SafeWriteFile(sumOutputPath, []byte(md)); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote summary to %s\n", sumOutputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	summarizeCmd.Flags().StringVarP(&sumOutputPath, "output", "o", "", "optional path to write the summary (Markdown)")
	summarizeCmd.Flags().IntVar(&sumSampleRows, "sample-rows", 5, "number of sample rows to include")
	summarizeCmd.Flags().StringSliceVar(&sumGroupBy, "group-by", nil, "comma-separated column names to group by (repeatable)")
	summarizeCmd.Flags().BoolVar(&sumCorr, "correlations", false, "compute Pearson correlations among numeric columns")
	summarizeCmd.Flags().BoolVar(&sumCorrGroups, "corr-per-group", false, "compute correlation pairs within each group (may be slower)")
	summarizeCmd.Flags().BoolVar(&sumOutliers, "outliers", true, "compute robust outlier counts (MAD)")
	summarizeCmd.Flags().Float64Var(&sumOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based)")
}
