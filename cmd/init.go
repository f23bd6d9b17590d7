package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	cfgpkg "github.com/KaramelBytes/edakit/internal/config"
	"github.com/KaramelBytes/edakit/internal/utils"
	"github.com/spf13/cobra"
)

var (
	initData  string
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a starter config.yaml and create the figures directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		path := filepath.Join(dir, cfgpkg.DefaultFile)
		// Refuse to overwrite an existing config.
		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		} else if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("stat config: %w", err)
		}
		c := starterConfig()
		if initData != "" {
			c.Data.RawPath = initData
		}
		if err := cfgpkg.Save(c, path); err != nil {
			return err
		}
		figs := filepath.Join(dir, c.Visualization.SavePath)
		if _, err := utils.EnsureDir(figs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Config written: %s\n", path)
		return nil
	},
}

// starterConfig mirrors the defaults applied by config.Load.
func starterConfig() *cfgpkg.Global {
	c := &cfgpkg.Global{}
	c.Data.RawPath = "data/raw/speed_dating.csv"
	c.Data.Encoding = "ISO-8859-1"
	c.Visualization.SavePath = "figures"
	c.Visualization.DPI = 96
	c.Analysis.ClassificationThreshold = 10
	c.Analysis.Temporal = cfgpkg.Temporal{Prefix: "attr1_", Times: []string{"1", "2", "3"}, Group: "gender"}
	c.Log.Level = "info"
	return c
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initData, "raw-path", "", "input table recorded as data.raw_path")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config.yaml")
}
