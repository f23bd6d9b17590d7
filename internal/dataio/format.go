package dataio

import (
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
)

// LoadOptions tunes how a table file is decoded.
type LoadOptions struct {
	// Encoding of delimited text files, e.g. "utf-8" or "ISO-8859-1". Empty means utf-8.
	Encoding string
	// Sheet selects a spreadsheet sheet by name; empty means the first sheet.
	Sheet string
}

// Format reads and writes one family of table files.
type Format interface {
	Name() string
	CanHandle(path string) bool
	Load(path string, opt LoadOptions) (dataframe.DataFrame, error)
	Save(df dataframe.DataFrame, path string) error
}

var registry []Format

// Register adds a format implementation to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

// FormatFor returns the registered format handling path's extension.
func FormatFor(path string) (Format, bool) {
	for _, f := range registry {
		if f.CanHandle(path) {
			return f, true
		}
	}
	return nil, false
}

// Supported reports whether path has an extension with a registered format.
func Supported(path string) bool {
	_, ok := FormatFor(path)
	return ok
}

func hasExt(path string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func init() {
	// Register default formats
	Register(csvFormat{})
	Register(excelFormat{})
}
