package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up when no path is given.
const DefaultFile = "config.yaml"

// ErrNotFound is returned when an explicitly requested config file does not exist.
var ErrNotFound = errors.New("config file not found")

// Global configuration structure.
type Global struct {
	Data          Data          `mapstructure:"data" yaml:"data"`
	Visualization Visualization `mapstructure:"visualization" yaml:"visualization"`
	Analysis      Analysis      `mapstructure:"analysis" yaml:"analysis"`
	Log           Log           `mapstructure:"log" yaml:"log"`

	// Not serialized: the file the values were read from, if any.
	File string `mapstructure:"-" yaml:"-"`
}

// Data locates the input table.
type Data struct {
	RawPath  string `mapstructure:"raw_path" yaml:"raw_path"`
	Encoding string `mapstructure:"encoding" yaml:"encoding"`
	Sheet    string `mapstructure:"sheet" yaml:"sheet"`
}

// Visualization controls where and how figures are written.
type Visualization struct {
	SavePath string `mapstructure:"save_path" yaml:"save_path"`
	DPI      int    `mapstructure:"dpi" yaml:"dpi"`
}

// Analysis holds defaults for the feature/target helpers.
type Analysis struct {
	ClassificationThreshold int      `mapstructure:"classification_threshold" yaml:"classification_threshold"`
	Targets                 []string `mapstructure:"targets" yaml:"targets"`
	Temporal                Temporal `mapstructure:"temporal" yaml:"temporal"`
}

// Temporal describes a variable measured at several time points (prefix+time).
type Temporal struct {
	Prefix string   `mapstructure:"prefix" yaml:"prefix"`
	Times  []string `mapstructure:"times" yaml:"times"`
	Group  string   `mapstructure:"group" yaml:"group"`
}

// Log configures the diagnostic logger.
type Log struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Save writes the given configuration to path as YAML, creating the directory if necessary.
func Save(c *Global, path string) error {
	if path == "" {
		path = DefaultFile
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Defaults returns the built-in configuration with environment overrides
// applied and no file read.
func Defaults() (*Global, error) {
	v := newViper()
	return decode(v, "")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("EDAKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.raw_path", "")
	v.SetDefault("data.encoding", "utf-8")
	v.SetDefault("data.sheet", "")
	v.SetDefault("visualization.save_path", "figures")
	v.SetDefault("visualization.dpi", 96)
	v.SetDefault("analysis.classification_threshold", 10)
	v.SetDefault("analysis.targets", []string{})
	v.SetDefault("analysis.temporal.prefix", "attr1_")
	v.SetDefault("analysis.temporal.times", []string{"1", "2", "3"})
	v.SetDefault("analysis.temporal.group", "gender")
	v.SetDefault("log.level", "info")
	return v
}

// Load loads configuration from file, env, and defaults.
// Precedence: env (EDAKIT_DATA_RAW_PATH, ...) > config file > defaults.
// An explicit cfgFile must exist; with an empty cfgFile, config.yaml in the
// working directory is read when present.
func Load(cfgFile string) (*Global, error) {
	v := newViper()

	used := ""
	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, cfgFile)
			}
			return nil, fmt.Errorf("stat config: %w", err)
		}
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		used = cfgFile
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(strings.TrimSuffix(DefaultFile, filepath.Ext(DefaultFile)))
		v.SetConfigType("yaml")
		// optional read
		if err := v.ReadInConfig(); err == nil {
			used = v.ConfigFileUsed()
		}
	}
	return decode(v, used)
}

func decode(v *viper.Viper, used string) (*Global, error) {
	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.File = used
	if c.Visualization.SavePath == "" {
		c.Visualization.SavePath = "figures"
	}
	if c.Analysis.ClassificationThreshold <= 0 {
		c.Analysis.ClassificationThreshold = 10
	}
	return &c, nil
}
