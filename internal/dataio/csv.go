package dataio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// missingTokens are read as missing cells in every column type.
var missingTokens = []string{"", "NA", "NaN", "nan", "<nil>", "null"}

type csvFormat struct{}

func (csvFormat) Name() string { return "csv" }

func (csvFormat) CanHandle(path string) bool { return hasExt(path, ".csv", ".tsv") }

func (csvFormat) Load(path string, opt LoadOptions) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	r, err := decodeReader(f, opt.Encoding)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	delim := ','
	if hasExt(path, ".tsv") {
		delim = '\t'
	}
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(missingTokens),
		dataframe.WithDelimiter(delim),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("parse csv: %w", df.Err)
	}
	return df, nil
}

func (csvFormat) Save(df dataframe.DataFrame, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	bw := bufio.NewWriter(f)
	w := csv.NewWriter(bw)
	if hasExt(path, ".tsv") {
		w.Comma = '\t'
	}
	if err := w.WriteAll(df.Records()); err != nil {
		_ = f.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	return f.Close()
}

// decodeReader wraps r so that it yields UTF-8 from the named encoding.
func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	name := strings.TrimSpace(strings.ToLower(encoding))
	if name == "" || name == "utf-8" || name == "utf8" {
		return r, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, encoding)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
