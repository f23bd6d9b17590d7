// Package dataio loads and saves tables, configuration maps, fitted models
// and metric dictionaries.
package dataio

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/KaramelBytes/edakit/internal/utils"
	"github.com/go-gota/gota/dataframe"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned when an input file does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrUnsupportedFormat is returned when a table file has an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrUnknownEncoding is returned for text encodings that cannot be resolved.
	ErrUnknownEncoding = errors.New("unknown encoding")
)

// LoadConfig reads a YAML document into a string-keyed map.
func LoadConfig(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: configuration file %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	out := map[string]any{}
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return out, nil
}

// LoadData reads a .csv or spreadsheet file into a table. encoding applies to
// delimited text only.
func LoadData(path, encoding string) (dataframe.DataFrame, error) {
	return LoadDataWith(path, LoadOptions{Encoding: encoding})
}

// LoadDataWith is LoadData with full options.
func LoadDataWith(path string, opt LoadOptions) (dataframe.DataFrame, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return dataframe.DataFrame{}, fmt.Errorf("%w: data file %s", ErrNotFound, path)
		}
		return dataframe.DataFrame{}, fmt.Errorf("stat data: %w", err)
	}
	f, ok := FormatFor(path)
	if !ok {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return f.Load(path, opt)
}

// SaveData writes df to path, creating parent directories. Paths without a
// registered extension are written as CSV; use Supported to detect that case.
func SaveData(df dataframe.DataFrame, path string) error {
	if err := utils.EnsureParent(path); err != nil {
		return err
	}
	f, ok := FormatFor(path)
	if !ok {
		f = csvFormat{}
	}
	return f.Save(df, path)
}

// SaveModel serializes v with encoding/gob. Interface-typed fields need their
// concrete types registered with gob.Register beforehand.
func SaveModel(v any, path string) error {
	if err := utils.EnsureParent(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create model file: %w", err)
	}
	if err := gob.NewEncoder(f).Encode(v); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("encode model: %w", err)
	}
	return f.Close()
}

// LoadModel decodes a model written by SaveModel into out, which must be a pointer.
func LoadModel(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: model file %s", ErrNotFound, path)
		}
		return fmt.Errorf("open model: %w", err)
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(out); err != nil {
		return fmt.Errorf("decode model: %w", err)
	}
	return nil
}

// SaveMetrics writes metrics as JSON indented by four spaces.
func SaveMetrics(metrics map[string]any, path string) error {
	if err := utils.EnsureParent(path); err != nil {
		return err
	}
	b, err := utils.PrettyJSON(metrics, "    ")
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	return utils.SafeWriteFile(path, b)
}

// EnsureDir creates dir when missing and reports whether it was created.
func EnsureDir(dir string) (bool, error) {
	return utils.EnsureDir(dir)
}
