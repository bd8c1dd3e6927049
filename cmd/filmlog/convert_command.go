package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"filmlog/internal/archive"
	"filmlog/internal/config"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "convert SRC DST",
		Short: "Rewrite an archive, choosing the format from DST's extension",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := ctx.codec()
			if err != nil {
				return err
			}
			src, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			dst, err := config.ExpandPath(args[1])
			if err != nil {
				return err
			}

			a, err := codec.LoadFile(src)
			if err != nil {
				return err
			}
			written, err := codec.SaveFile(cmd.Context(), a, dst)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Converted %d records to %s (%s)\n",
				a.Size(), written, archive.FormatForPath(written))
			return nil
		},
	}
}
