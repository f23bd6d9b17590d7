package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/edakit/internal/config"
	"github.com/KaramelBytes/edakit/internal/dataio"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set edakit configuration",
}

var configShowRaw bool

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if configShowRaw {
			return showRawConfig(cmd)
		}
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		if cfg.File != "" {
			fmt.Printf("# file: %s\n", cfg.File)
		}
		fmt.Printf("data.raw_path: %s\n", cfg.Data.RawPath)
		fmt.Printf("data.encoding: %s\n", cfg.Data.Encoding)
		if cfg.Data.Sheet != "" {
			fmt.Printf("data.sheet: %s\n", cfg.Data.Sheet)
		}
		fmt.Printf("visualization.save_path: %s\n", cfg.Visualization.SavePath)
		fmt.Printf("visualization.dpi: %d\n", cfg.Visualization.DPI)
		fmt.Printf("analysis.classification_threshold: %d\n", cfg.Analysis.ClassificationThreshold)
		if len(cfg.Analysis.Targets) > 0 {
			fmt.Printf("analysis.targets: %s\n", strings.Join(cfg.Analysis.Targets, ","))
		}
		t := cfg.Analysis.Temporal
		fmt.Printf("analysis.temporal: prefix=%s times=%s group=%s\n", t.Prefix, strings.Join(t.Times, ","), t.Group)
		fmt.Printf("log.level: %s\n", cfg.Log.Level)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := setConfigValue(c, key, val); err != nil {
			return err
		}
		path := cfgFile
		if path == "" {
			path = cfgpkg.DefaultFile
		}
		if err := cfgpkg.Save(c, path); err != nil {
			return err
		}
		cfg = c
		fmt.Printf("✓ Saved %s to %s\n", key, path)
		return nil
	},
}

// showRawConfig prints the config file as written, without defaults or env.
func showRawConfig(cmd *cobra.Command) error {
	path := cfgFile
	if path == "" && cfg != nil {
		path = cfg.File
	}
	if path == "" {
		return fmt.Errorf("no config file: pass --config or create %s", cfgpkg.DefaultFile)
	}
	raw, err := dataio.LoadConfig(path)
	if err != nil {
		return err
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "# file: %s\n%s", path, b)
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configShowCmd.Flags().BoolVar(&configShowRaw, "raw", false, "print the config file as written, without defaults")
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "data.raw_path":
		c.Data.RawPath = val
	case "data.encoding":
		c.Data.Encoding = val
	case "data.sheet":
		c.Data.Sheet = val
	case "visualization.save_path":
		c.Visualization.SavePath = val
	case "visualization.dpi":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid int for visualization.dpi: %v", val)
		}
		c.Visualization.DPI = i
	case "analysis.classification_threshold":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid int for analysis.classification_threshold: %v", val)
		}
		c.Analysis.ClassificationThreshold = i
	case "analysis.targets":
		c.Analysis.Targets = splitList(val)
	case "analysis.temporal.prefix":
		c.Analysis.Temporal.Prefix = val
	case "analysis.temporal.times":
		c.Analysis.Temporal.Times = splitList(val)
	case "analysis.temporal.group":
		c.Analysis.Temporal.Group = val
	case "log.level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "warning", "error":
			c.Log.Level = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log.level: %s (use debug, info, warn or error)", val)
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// splitList splits a comma separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
