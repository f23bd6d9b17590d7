package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/edakit/internal/analysis"
	"github.com/KaramelBytes/edakit/internal/dataio"
	"github.com/KaramelBytes/edakit/internal/frame"
	"github.com/KaramelBytes/edakit/internal/utils"
	"github.com/spf13/cobra"
)

var (
	sbOutDir     string
	sbSampleRows int
	sbCorr       bool
	sbSheet      string
	sbQuiet      bool
)

var summarizeBatchCmd = &cobra.Command{
	Use:   "summarize-batch <files...>",
	Short: "Summarize several CSV/TSV/XLSX tables with progress",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		opt := analysis.DefaultOptions()
		if sbSampleRows > 0 {
			opt.SampleRows = sbSampleRows
		}
		opt.Correlations = sbCorr
		out := cmd.OutOrStdout()

		total := len(files)
		for i, path := range files {
			if !sbQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			df, err := dataio.LoadDataWith(path, dataio.LoadOptions{Encoding: cfg.Data.Encoding, Sheet: sbSheet})
			if err != nil {
				return err
			}
			rep, err := analysis.Build(filepath.Base(path), df, frame.Classify(df), opt)
			if err != nil {
				return err
			}
			md := rep.Markdown()
			if sbOutDir == "" {
				if !sbQuiet {
					fmt.Fprintln(out, md)
				}
				continue
			}
			if _, err := utils.EnsureDir(sbOutDir); err != nil {
				return err
			}
			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			outFile := uniquePath(sbOutDir, base, ".summary.md")
			if !sbQuiet && filepath.Base(outFile) != base+".summary.md" {
				fmt.Fprintf(out, "⚠ Detected existing summary, writing to %s to avoid overwrite.\n", filepath.Base(outFile))
			}
			if err := os.WriteFile(outFile, []byte(md), 0o644); err != nil {
				return fmt.Errorf("write summary: %w", err)
			}
			if !sbQuiet {
				fmt.Fprintf(out, "✓ Wrote %s\n", outFile)
			}
		}
		return nil
	},
}

// expandInputs resolves globs and literal paths, deduplicated and sorted.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// uniquePath returns dir/base+ext, or dir/base__N+ext for the first free N.
func uniquePath(dir, base, ext string) string {
	p := filepath.Join(dir, base+ext)
	if _, err := os.Stat(p); os.IsNotExist(err) {
		return p
	}
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d%s", base, idx, ext))
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			return cand
		}
	}
}

func init() {
	rootCmd.AddCommand(summarizeBatchCmd)
	summarizeBatchCmd.Flags().StringVar(&sbOutDir, "out-dir", "", "directory for <name>.summary.md files (stdout if empty)")
	summarizeBatchCmd.Flags().IntVar(&sbSampleRows, "sample-rows", 5, "number of sample rows to include")
	summarizeBatchCmd.Flags().BoolVar(&sbCorr, "correlations", false, "compute Pearson correlations among numeric columns")
	summarizeBatchCmd.Flags().StringVar(&sbSheet, "sheet", "", "XLSX: sheet name (first sheet if empty)")
	summarizeBatchCmd.Flags().BoolVar(&sbQuiet, "quiet", false, "suppress progress and non-essential output")
}
