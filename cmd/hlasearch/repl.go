package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/autoimmunedb/internal/core"
)

const replHelp = `Type a gene or HLA allele to search. Commands:
  :preview   show the first rows
  :reload    re-read the file (unchanged files are not parsed again)
  :help      show this help
  :quit      exit`

func newReplCmd() *cobra.Command {
	var columns []string

	cmd := &cobra.Command{
		Use:   "repl FILE",
		Short: "Search FILE interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := &repl{
				path:   args[0],
				loader: core.NewLoader(),
				opts:   core.SearchOptions{Columns: columns},
				out:    cmd.OutOrStdout(),
				errOut: cmd.ErrOrStderr(),
			}
			if _, err := r.reload(); err != nil {
				return userError(err)
			}
			return r.run(cmd.InOrStdin())
		},
	}

	addColumnsFlag(cmd.Flags(), &columns)
	return cmd
}

type repl struct {
	path   string
	loader *core.Loader
	opts   core.SearchOptions
	out    io.Writer
	errOut io.Writer
}

// reload reads the file into the loader and reports the outcome.
func (r *repl) reload() (cached bool, err error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return false, fmt.Errorf("open dataset: %w", err)
	}
	ds, cached, err := r.loader.Load(data)
	if err != nil {
		return false, err
	}
	if cached {
		fmt.Fprintf(r.out, "%s unchanged (%d rows)\n", r.path, ds.Len())
	} else {
		fmt.Fprintf(r.out, "Loaded %s: %d rows, %d columns\n", r.path, ds.Len(), len(ds.Header))
	}
	return cached, nil
}

func (r *repl) run(in io.Reader) error {
	fmt.Fprintln(r.out, replHelp)
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}
		line := scanner.Text()

		// Commands tolerate padding; search terms are used verbatim
		switch strings.TrimSpace(line) {
		case ":quit", ":q", ":exit":
			return nil
		case ":help", ":h":
			fmt.Fprintln(r.out, replHelp)
			continue
		case ":reload":
			if _, err := r.reload(); err != nil {
				// A bad file keeps the last good dataset loaded
				fmt.Fprintln(r.errOut, userError(err))
			}
			continue
		case ":preview":
			ds := r.loader.Current()
			if err := writeTable(r.out, ds.Header, ds.Head(core.DefaultPreviewRows)); err != nil {
				return err
			}
			continue
		}

		r.search(line)
	}
}

func (r *repl) search(query string) {
	res, err := core.Search(r.loader.Current(), query, r.opts)
	if err != nil {
		fmt.Fprintln(r.errOut, userError(err))
		return
	}
	if res.Status == core.StatusNoMatch {
		fmt.Fprintln(r.out, core.NoMatchMessage().Format())
		return
	}
	if err := writeResult(r.out, res, formatTable); err != nil {
		fmt.Fprintln(r.errOut, err)
	}
}
