package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/autoimmunedb/internal/core"
)

func newExportCmd() *cobra.Command {
	var (
		out     string
		columns []string
	)

	cmd := &cobra.Command{
		Use:   "export FILE QUERY",
		Short: "Write rows of FILE containing QUERY to a CSV or Excel file",
		Long: `
Run a search and save the matching rows. The output format follows the
extension of --out: .csv or .xlsx.

Examples:
  hlasearch export alleles.csv B27 --out b27.xlsx
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			write, err := exportWriter(out)
			if err != nil {
				return err
			}
			ds, err := loadFile(args[0])
			if err != nil {
				return userError(err)
			}
			res, err := core.Search(ds, args[1], core.SearchOptions{Columns: columns})
			if err != nil {
				return userError(err)
			}
			if res.Status == core.StatusNoMatch {
				fmt.Fprintln(cmd.ErrOrStderr(), core.NoMatchMessage().Format())
			}

			var buf bytes.Buffer
			if err := write(&buf, res); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", res.Count(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file ending in .csv or .xlsx (required)")
	_ = cmd.MarkFlagRequired("out")
	addColumnsFlag(cmd.Flags(), &columns)
	return cmd
}

// exportWriter picks the encoder for the output file's extension.
func exportWriter(path string) (func(io.Writer, *core.SearchResult) error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return core.WriteCSV, nil
	case ".xlsx":
		return core.WriteXLSX, nil
	}
	return nil, fmt.Errorf("unsupported output %q: use a .csv or .xlsx file", path)
}
