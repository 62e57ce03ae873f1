package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/autoimmunedb/internal/core"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
)

func newSearchCmd() *cobra.Command {
	var (
		format  string
		columns []string
	)

	cmd := &cobra.Command{
		Use:   "search FILE QUERY",
		Short: "Print rows of FILE containing QUERY",
		Long: `
Search every column of the dataset for QUERY, ignoring case, and print the
matching rows projected onto the display columns.

Examples:
  hlasearch search alleles.csv B27
  hlasearch search alleles.csv "celiac" --format json
  hlasearch search alleles.csv DR4 -c "HLA Allele,Disease"
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validFormat(format) {
				return fmt.Errorf("unknown format %q: use table, json or csv", format)
			}
			ds, err := loadFile(args[0])
			if err != nil {
				return userError(err)
			}
			res, err := core.Search(ds, args[1], core.SearchOptions{Columns: columns})
			if err != nil {
				return userError(err)
			}
			if res.Status == core.StatusNoMatch && format == formatTable {
				fmt.Fprintln(cmd.ErrOrStderr(), core.NoMatchMessage().Format())
				return nil
			}
			return writeResult(cmd.OutOrStdout(), res, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table|json|csv")
	addColumnsFlag(cmd.Flags(), &columns)
	return cmd
}

func validFormat(f string) bool {
	switch f {
	case formatTable, formatJSON, formatCSV:
		return true
	}
	return false
}

// writeResult prints a search result in the requested format.
func writeResult(w io.Writer, res *core.SearchResult, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Query   string              `json:"query"`
			Status  core.SearchStatus   `json:"status"`
			Count   int                 `json:"count"`
			Columns []string            `json:"columns"`
			Rows    []map[string]string `json:"rows"`
		}{res.Query, res.Status, res.Count(), res.Columns, res.Records()})
	case formatCSV:
		return core.WriteCSV(w, res)
	}

	if err := writeTable(w, res.Columns, res.Rows); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d matching rows\n", res.Count())
	return err
}

// writeTable aligns rows under their column names.
func writeTable(w io.Writer, columns []string, rows []core.Row) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(columns, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(sanitize(row.Values()), "\t"))
	}
	return tw.Flush()
}

// sanitize keeps embedded tabs and newlines from breaking the columns.
func sanitize(values []string) []string {
	r := strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")
	for i, v := range values {
		values[i] = r.Replace(v)
	}
	return values
}
