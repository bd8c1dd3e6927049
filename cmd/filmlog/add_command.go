package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"filmlog/internal/session"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var (
		fields session.Fields
		date   string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Verify a film and append it to the archive",
		Example: `  filmlog add --title Alien --date 05/06/1979 --theater
  filmlog add --title "Blade Runner" --day 25 --month 6 --year 1982`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(date) != "" {
				day, month, year, err := splitDate(date)
				if err != nil {
					return err
				}
				fields.Day, fields.Month, fields.Year = day, month, year
			}

			out := cmd.OutOrStdout()
			view := newPresenter(out)
			ctrl, err := ctx.newController(view)
			if err != nil {
				return err
			}
			path, err := ctx.archivePath()
			if err != nil {
				return err
			}
			if _, err := loadExisting(ctrl, path); err != nil {
				return err
			}

			ctrl.Stage(fields)
			if _, err := ctrl.Verify(cmd.Context()); err != nil {
				return err
			}
			if _, err := ctrl.Commit(); err != nil {
				return err
			}
			written, err := ctrl.SaveArchive(cmd.Context(), path)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved %d records to %s\n", ctrl.Archive().Size(), written)
			return nil
		},
	}

	cmd.Flags().StringVarP(&fields.Title, "title", "t", "", "Film title")
	cmd.Flags().StringVar(&fields.Day, "day", "", "Day watched (1-31)")
	cmd.Flags().StringVar(&fields.Month, "month", "", "Month watched (1-12)")
	cmd.Flags().StringVar(&fields.Year, "year", "", "Year watched")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Date watched as DD/MM/YYYY (overrides --day, --month, --year)")
	cmd.Flags().BoolVar(&fields.SeenInTheater, "theater", false, "Seen in a theater")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

// splitDate splits DD/MM/YYYY (or with '-' or '.') into its parts. Range
// checks are left to the validator.
func splitDate(value string) (string, string, string, error) {
	parts := strings.FieldsFunc(strings.TrimSpace(value), func(r rune) bool {
		return r == '/' || r == '-' || r == '.' || r == ' '
	})
	if len(parts) != 3 {
		return "", "", "", errors.New("date must look like DD/MM/YYYY")
	}
	return parts[0], parts[1], parts[2], nil
}
