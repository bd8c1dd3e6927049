package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"filmlog/internal/archive"
)

type listEntry struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Day           int    `json:"day"`
	Month         int    `json:"month"`
	Year          int    `json:"year"`
	SeenInTheater bool   `json:"seen_in_theater"`
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the records in the archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := ctx.codec()
			if err != nil {
				return err
			}
			path, err := ctx.archivePath()
			if err != nil {
				return err
			}
			a, err := codec.LoadFile(path)
			if err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
				a = archive.New()
			}

			entries := a.All()
			if jsonOutput {
				out := make([]listEntry, 0, len(entries))
				for _, entry := range entries {
					out = append(out, listEntry{
						ID:            entry.ID,
						Title:         entry.Record.Title,
						Day:           entry.Record.Day,
						Month:         entry.Record.Month,
						Year:          entry.Record.Year,
						SeenInTheater: entry.Record.SeenInTheater,
					})
				}
				return writeJSON(cmd, out)
			}

			if len(entries) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No records in %s\n", path)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderArchive(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print records as JSON")
	return cmd
}
