package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/JonMunkholm/autoimmunedb/internal/core"
	"github.com/JonMunkholm/autoimmunedb/internal/logging"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "hlasearch",
		Short: "Search an autoimmune disease HLA allele dataset",
		Long: `
hlasearch loads a CSV dataset with a header row and finds rows containing
a search term in any column, ignoring case. Matches are shown with the
HLA Allele, Allele Classification, Disease and Clinical Significance columns.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), logLevel, "text"))
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug|info|warn|error")

	root.AddCommand(newSearchCmd())
	root.AddCommand(newPreviewCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newReplCmd())

	// Errors go to stderr as user messages; cobra's own output is silenced
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w\n\n%s", err, cmd.UsageString())
	})
	return root
}

// addColumnsFlag registers --columns, the projection used for results.
func addColumnsFlag(fs *pflag.FlagSet, dst *[]string) {
	fs.StringSliceVarP(dst, "columns", "c", core.DefaultDisplayColumns,
		"Columns to show for matching rows (comma-separated)")
}

// loadFile parses the dataset at path.
func loadFile(path string) (*core.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := core.Load(f)
	if err != nil {
		return nil, err
	}
	slog.Debug("dataset loaded", "path", path, "rows", ds.Len(), "columns", len(ds.Header))
	return ds, nil
}

// userError swaps a core error for its user message. The technical error
// is logged at debug and stays reachable through errors.As.
func userError(err error) error {
	if !core.IsUserFacing(err) {
		return err
	}
	slog.Debug("command failed", "error", err)
	return core.NewUserError(err)
}
