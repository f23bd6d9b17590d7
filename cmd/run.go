package cmd

import (
	"fmt"

	"github.com/KaramelBytes/edakit/internal/inspect"
	"github.com/KaramelBytes/edakit/internal/manifest"
	"github.com/KaramelBytes/edakit/internal/quantitative"
	"github.com/spf13/cobra"
)

var (
	runHeadRows  int
	runEvolution bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Inspect the configured table and write the missing-value and temporal figures",
	Long: `run loads the configured table, prints its head, structure and numeric
description, plots missing values and the per-time histograms of the
configured temporal variable, then records the figures in manifest.json.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		df, _, err := loadTable()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		dir := figureDir()
		opts := figureOpts()

		if err := inspect.DisplayHead(out, df, runHeadRows); err != nil {
			return err
		}
		fmt.Fprintln(out)
		if err := inspect.DisplayInfo(out, df); err != nil {
			return err
		}
		fmt.Fprintln(out)
		if err := inspect.DisplayDescription(out, df); err != nil {
			return err
		}
		if err := inspect.PlotMissingValues(df, dir, opts...); err != nil {
			return fmt.Errorf("missing values: %w", err)
		}
		logger.Info("missing value figures written", "dir", dir)

		t := cfg.Analysis.Temporal
		if t.Prefix != "" && t.Group != "" {
			if err := quantitative.TemporalHistograms2(df, t.Prefix, t.Times, t.Group, dir, opts...); err != nil {
				return fmt.Errorf("temporal histograms: %w", err)
			}
			if runEvolution {
				if err := quantitative.TemporalHistograms(df, t.Prefix, t.Times, t.Group, dir, opts...); err != nil {
					return fmt.Errorf("temporal histograms: %w", err)
				}
			}
			logger.Info("temporal histograms written", "prefix", t.Prefix, "group", t.Group)
		}
		return writeManifest(cmd, dir)
	},
}

// writeManifest records every figure in dir for the current input.
func writeManifest(cmd *cobra.Command, dir string) error {
	run, err := manifest.Scan(dir, cfg.Data.RawPath)
	if err != nil {
		return err
	}
	if err := run.Save(); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %d figure(s) in %s (manifest %s)\n", len(run.Figures), dir, run.ID)
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().IntVar(&runHeadRows, "head", inspect.DefaultHeadRows, "rows shown by the head preview")
	runCmd.Flags().BoolVar(&runEvolution, "evolution", false, "also draw all time points in one figure")
}
