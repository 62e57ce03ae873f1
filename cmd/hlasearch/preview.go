package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/autoimmunedb/internal/core"
)

func newPreviewCmd() *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Print the header and first rows of FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadFile(args[0])
			if err != nil {
				return userError(err)
			}
			out := cmd.OutOrStdout()
			if err := writeTable(out, ds.Header, ds.Head(rows)); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "\n%d rows, %d columns\n", ds.Len(), len(ds.Header))
			return err
		},
	}

	cmd.Flags().IntVarP(&rows, "rows", "n", core.DefaultPreviewRows, "Number of rows to show")
	return cmd
}
