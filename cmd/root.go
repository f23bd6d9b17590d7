package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	cfgpkg "github.com/KaramelBytes/edakit/internal/config"
	"github.com/KaramelBytes/edakit/internal/dataio"
	"github.com/KaramelBytes/edakit/internal/figure"
	"github.com/KaramelBytes/edakit/internal/frame"
	"github.com/go-gota/gota/dataframe"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile  string
	debug    bool
	flagData string
	flagOut  string

	// Loaded configuration
	cfg *cfgpkg.Global
	// Set when the config could not be loaded; fails the command
	cfgErr error
	// Diagnostic logger, rebuilt after the config is read
	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

var rootCmd = &cobra.Command{
	Use:   "edakit",
	Short: "edakit: exploratory data analysis figures and summaries for tabular data",
	Long: `edakit loads a CSV or Excel table and writes the usual exploratory figures
(distributions, correlations, categorical breakdowns, feature/target relations)
and text summaries to a figures directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return cfgErr
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "input table (overrides data.raw_path)")
	rootCmd.PersistentFlags().StringVar(&flagOut, "out", "", "figures directory (overrides visualization.save_path)")
}

func loadConfig() {
	cfg, cfgErr = nil, nil
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// reported by PersistentPreRunE before any command runs
		cfgErr = fmt.Errorf("load config: %w", err)
		if c, err = cfgpkg.Defaults(); err != nil {
			return
		}
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("data") && flagData != "" {
		cfg.Data.RawPath = flagData
	}
	if f.Changed("out") && flagOut != "" {
		cfg.Visualization.SavePath = flagOut
	}
	if cfg.Visualization.SavePath == "" {
		cfg.Visualization.SavePath = "figures"
	}
	logger = newLogger(os.Stderr, cfg.Log.Level, debug)
	logger.Debug("config loaded", "file", cfg.File, "data", cfg.Data.RawPath, "figures", cfg.Visualization.SavePath)
}

// newLogger builds a text logger at level; debug forces the debug level.
func newLogger(w io.Writer, level string, debug bool) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	if debug {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// loadTable reads the configured input table and classifies its columns.
func loadTable() (dataframe.DataFrame, frame.Schema, error) {
	if cfg == nil || cfg.Data.RawPath == "" {
		return dataframe.DataFrame{}, frame.Schema{}, fmt.Errorf("no input table: set data.raw_path in the config or pass --data")
	}
	df, err := dataio.LoadDataWith(cfg.Data.RawPath, dataio.LoadOptions{
		Encoding: cfg.Data.Encoding,
		Sheet:    cfg.Data.Sheet,
	})
	if err != nil {
		return df, frame.Schema{}, err
	}
	schema := frame.Classify(df)
	logger.Debug("table loaded", "path", cfg.Data.RawPath, "rows", df.Nrow(), "cols", df.Ncol(),
		"numeric", len(schema.Numeric()), "categorical", len(schema.Categorical()))
	return df, schema, nil
}

// figureDir returns the configured figures directory.
func figureDir() string {
	if cfg == nil || cfg.Visualization.SavePath == "" {
		return "figures"
	}
	return cfg.Visualization.SavePath
}

// figureOpts applies the configured output resolution.
func figureOpts() []figure.Option {
	if cfg == nil {
		return nil
	}
	return []figure.Option{figure.WithDPI(cfg.Visualization.DPI)}
}

func classificationThreshold() int {
	if cfg == nil {
		return 0
	}
	return cfg.Analysis.ClassificationThreshold
}
