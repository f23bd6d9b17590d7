package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/edakit/internal/dataio"
	"github.com/KaramelBytes/edakit/internal/frame"
	"github.com/go-gota/gota/dataframe"
	"github.com/spf13/cobra"
)

var (
	prepMerge       string
	prepMergeOn     string
	prepMergeHow    string
	prepAggregate   []string
	prepCategorize  []string
	prepDropMissing []string
	prepConvert     []string
	prepRename      []string
	prepSelect      []string
	prepOutput      string
	prepMetrics     string
	prepSchema      string
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Transform the configured table and save the result",
	Long: `prepare applies, in order: --merge, --aggregate, --categorize,
--drop-missing, --convert, --rename and --select, then writes the table to
--output (CSV or XLSX by extension). --metrics records the row and column
counts before and after as JSON and --schema stores the column
classification as a gob blob.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if prepOutput == "" {
			return fmt.Errorf("--output is required")
		}
		df, _, err := loadTable()
		if err != nil {
			return err
		}
		rowsIn, colsIn := df.Nrow(), df.Ncol()
		if df, err = applyPrepare(df); err != nil {
			return err
		}
		if !dataio.Supported(prepOutput) {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: unknown extension for %s, writing CSV\n", prepOutput)
		}
		if err := dataio.SaveData(df, prepOutput); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d rows x %d columns to %s\n", df.Nrow(), df.Ncol(), prepOutput)

		if prepMetrics != "" {
			m := map[string]any{
				"rows_in":  rowsIn,
				"cols_in":  colsIn,
				"rows_out": df.Nrow(),
				"cols_out": df.Ncol(),
			}
			if err := dataio.SaveMetrics(m, prepMetrics); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Metrics saved to %s\n", prepMetrics)
		}
		if prepSchema != "" {
			if err := dataio.SaveModel(frame.Classify(df), prepSchema); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Schema saved to %s\n", prepSchema)
		}
		return nil
	},
}

func applyPrepare(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	var err error
	if prepMerge != "" {
		other, err := dataio.LoadDataWith(prepMerge, dataio.LoadOptions{Encoding: cfg.Data.Encoding})
		if err != nil {
			return df, err
		}
		if df, err = frame.Merge(df, other, prepMergeOn, prepMergeHow); err != nil {
			return df, err
		}
	}
	for _, item := range prepAggregate {
		parts := strings.Split(item, ":")
		if len(parts) != 4 {
			return df, fmt.Errorf("%w: --aggregate %q (want group:column:fn:new)", frame.ErrInvalidArgument, item)
		}
		if df, err = frame.AddAggregatedColumn(df, parts[0], parts[1], parts[2], parts[3]); err != nil {
			return df, err
		}
	}
	for _, item := range prepCategorize {
		col, bins, newCol, err := parseCategorize(item)
		if err != nil {
			return df, err
		}
		if df, err = frame.CategorizeColumn(df, col, bins, nil, newCol); err != nil {
			return df, err
		}
	}
	if len(prepDropMissing) > 0 {
		if err := frame.Require(df, prepDropMissing...); err != nil {
			return df, err
		}
		df, err = frame.DropRowsByCondition(df, func(r frame.Row) bool {
			for _, c := range prepDropMissing {
				if r.IsMissing(c) {
					return true
				}
			}
			return false
		})
		if err != nil {
			return df, err
		}
	}
	if len(prepConvert) > 0 {
		types, err := parsePairs("--convert", prepConvert)
		if err != nil {
			return df, err
		}
		if df, err = frame.ConvertTypes(df, types); err != nil {
			return df, err
		}
	}
	if len(prepRename) > 0 {
		mapping, err := parsePairs("--rename", prepRename)
		if err != nil {
			return df, err
		}
		if df, err = frame.RenameColumns(df, mapping); err != nil {
			return df, err
		}
	}
	if len(prepSelect) > 0 {
		if df, err = frame.SelectColumns(df, prepSelect); err != nil {
			return df, err
		}
	}
	return df, nil
}

// parsePairs reads key=value items.
func parsePairs(flag string, items []string) (map[string]string, error) {
	out := make(map[string]string, len(items))
	for _, it := range items {
		k, v, ok := strings.Cut(it, "=")
		if !ok || strings.TrimSpace(k) == "" || strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("%w: %s %q (want key=value)", frame.ErrInvalidArgument, flag, it)
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out, nil
}

// parseCategorize reads col:bins[:new], bins being a count or edges joined
// by '/' (e.g. age:0/18/65/120:age_band).
func parseCategorize(item string) (string, frame.Bins, string, error) {
	parts := strings.Split(item, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return "", frame.Bins{}, "", fmt.Errorf("%w: --categorize %q (want column:bins[:new])", frame.ErrInvalidArgument, item)
	}
	newCol := ""
	if len(parts) == 3 {
		newCol = parts[2]
	}
	if !strings.Contains(parts[1], "/") {
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			return "", frame.Bins{}, "", fmt.Errorf("%w: bin count %q", frame.ErrInvalidArgument, parts[1])
		}
		return parts[0], frame.Bins{Count: n}, newCol, nil
	}
	var edges []float64
	for _, e := range strings.Split(parts[1], "/") {
		v, err := strconv.ParseFloat(e, 64)
		if err != nil {
			return "", frame.Bins{}, "", fmt.Errorf("%w: bin edge %q", frame.ErrInvalidArgument, e)
		}
		edges = append(edges, v)
	}
	return parts[0], frame.Bins{Edges: edges}, newCol, nil
}

func init() {
	rootCmd.AddCommand(prepareCmd)
	f := prepareCmd.Flags()
	f.StringVar(&prepMerge, "merge", "", "second table to join with")
	f.StringVar(&prepMergeOn, "on", "", "join key for --merge")
	f.StringVar(&prepMergeHow, "how", "inner", "join type: inner|left|right|outer")
	f.StringArrayVar(&prepAggregate, "aggregate", nil, "group:column:fn:new with fn sum|mean|count|min|max|median|std (repeatable)")
	f.StringArrayVar(&prepCategorize, "categorize", nil, "column:bins[:new], bins a count or edges like 0/18/65 (repeatable)")
	f.StringSliceVar(&prepDropMissing, "drop-missing", nil, "drop rows missing any of these columns")
	f.StringSliceVar(&prepConvert, "convert", nil, "column=type with type int|float|string|bool|category")
	f.StringSliceVar(&prepRename, "rename", nil, "old=new column renames")
	f.StringSliceVar(&prepSelect, "select", nil, "columns to keep, in order")
	f.StringVarP(&prepOutput, "output", "o", "", "output table (.csv, .tsv or .xlsx)")
	f.StringVar(&prepMetrics, "metrics", "", "optional JSON file with row and column counts")
	f.StringVar(&prepSchema, "schema", "", "optional gob file with the column classification")
}
