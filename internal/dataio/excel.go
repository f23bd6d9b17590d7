package dataio

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

type excelFormat struct{}

func (excelFormat) Name() string { return "excel" }

func (excelFormat) CanHandle(path string) bool { return hasExt(path, ".xlsx", ".xls") }

func (excelFormat) Load(path string, opt LoadOptions) (dataframe.DataFrame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("spreadsheet %s has no sheets", path)
	}
	sheet := sheets[0]
	if opt.Sheet != "" {
		sheet = ""
		for _, s := range sheets {
			if strings.EqualFold(s, opt.Sheet) {
				sheet = s
				break
			}
		}
		if sheet == "" {
			return dataframe.DataFrame{}, fmt.Errorf("sheet '%s' not found.\nAvailable sheets: %s",
				opt.Sheet, strings.Join(sheets, ", "))
		}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("sheet %q is empty", sheet)
	}
	// GetRows trims trailing empty cells; pad every row to the header width
	ncol := len(rows[0])
	for i, row := range rows {
		if len(row) < ncol {
			tmp := make([]string, ncol)
			copy(tmp, row)
			rows[i] = tmp
		} else if len(row) > ncol {
			rows[i] = row[:ncol]
		}
	}
	df := dataframe.LoadRecords(rows,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(missingTokens),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("parse sheet %q: %w", sheet, df.Err)
	}
	return df, nil
}

func (excelFormat) Save(df dataframe.DataFrame, path string) error {
	f := excelize.NewFile()
	defer f.Close()
	names := df.Names()
	header := make([]interface{}, len(names))
	for i, n := range names {
		header[i] = n
	}
	if err := f.SetSheetRow(defaultSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	cols := make([]func(int) interface{}, len(names))
	for j, n := range names {
		cols[j] = cellValues(df.Col(n))
	}
	for i := 0; i < df.Nrow(); i++ {
		row := make([]interface{}, len(names))
		for j := range names {
			row[j] = cols[j](i)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(defaultSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save spreadsheet: %w", err)
	}
	return nil
}

// cellValues returns an accessor producing typed cell values for s; missing
// cells become nil so the spreadsheet cell stays empty.
func cellValues(s series.Series) func(int) interface{} {
	missing := s.IsNaN()
	switch s.Type() {
	case series.Int:
		vals := s.Float()
		return func(i int) interface{} {
			if missing[i] || math.IsNaN(vals[i]) {
				return nil
			}
			return int64(vals[i])
		}
	case series.Float:
		vals := s.Float()
		return func(i int) interface{} {
			if missing[i] || math.IsNaN(vals[i]) {
				return nil
			}
			return vals[i]
		}
	case series.Bool:
		recs := s.Records()
		return func(i int) interface{} {
			if missing[i] {
				return nil
			}
			return recs[i] == "true"
		}
	default:
		recs := s.Records()
		return func(i int) interface{} {
			if missing[i] {
				return nil
			}
			return recs[i]
		}
	}
}
