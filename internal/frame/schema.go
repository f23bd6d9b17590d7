// Package frame holds the table model used across edakit: go-gota data
// frames, a once-computed column classification, typed column accessors and
// the dataset transformations applied before plotting.
package frame

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Kind is the semantic type of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
	KindBoolean     Kind = "boolean"
)

// ColumnInfo describes one classified column.
type ColumnInfo struct {
	Name string
	Kind Kind
	Type series.Type
}

// Schema is the ordered column classification of a table.
type Schema struct {
	Columns []ColumnInfo
}

// Classify inspects the column types of df once. Int and float columns are
// numeric, string columns categorical and bool columns boolean (neither
// numeric nor categorical for exploration purposes).
func Classify(df dataframe.DataFrame) Schema {
	names := df.Names()
	types := df.Types()
	s := Schema{Columns: make([]ColumnInfo, 0, len(names))}
	for i, name := range names {
		ci := ColumnInfo{Name: name, Type: types[i]}
		switch types[i] {
		case series.Int, series.Float:
			ci.Kind = KindNumeric
		case series.Bool:
			ci.Kind = KindBoolean
		default:
			ci.Kind = KindCategorical
		}
		s.Columns = append(s.Columns, ci)
	}
	return s
}

// Numeric returns numeric column names in table order.
func (s Schema) Numeric() []string { return s.names(KindNumeric) }

// Categorical returns categorical column names in table order.
func (s Schema) Categorical() []string { return s.names(KindCategorical) }

// Kind returns the kind of the named column.
func (s Schema) Kind(name string) (Kind, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c.Kind, true
		}
	}
	return "", false
}

// Names returns every column name in table order.
func (s Schema) Names() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Name
	}
	return out
}

func (s Schema) names(k Kind) []string {
	var out []string
	for _, c := range s.Columns {
		if c.Kind == k {
			out = append(out, c.Name)
		}
	}
	return out
}
