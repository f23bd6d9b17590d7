package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/KaramelBytes/edakit/internal/manifest"
	"github.com/spf13/cobra"
)

var listScan bool

var listCmd = &cobra.Command{
	Use:   "list [dir]",
	Short: "List the figures recorded in a figures directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := figureDir()
		if len(args) == 1 {
			dir = args[0]
		}
		out := cmd.OutOrStdout()
		run, err := manifest.Load(dir)
		if errors.Is(err, fs.ErrNotExist) && listScan {
			run, err = manifest.Scan(dir, "")
		}
		if err != nil {
			return err
		}
		if len(run.Figures) == 0 {
			fmt.Fprintln(out, "(no figures)")
			return nil
		}
		if run.Data != "" {
			fmt.Fprintf(out, "run %s over %s\n", run.ID, run.Data)
		}
		for _, f := range run.Figures {
			fmt.Fprintf(out, "- %s (%d bytes)\n", f.Name, f.Bytes)
		}
		fmt.Fprintf(out, "%d figure(s), %d bytes\n", len(run.Figures), run.TotalBytes())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listScan, "scan", false, "scan the directory when it has no manifest.json")
}
