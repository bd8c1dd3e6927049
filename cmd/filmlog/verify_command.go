package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"filmlog/internal/verification"
)

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "verify TITLE",
		Short: "Look a title up without recording it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			lookup, err := ctx.lookup()
			if err != nil {
				return err
			}
			title := strings.Join(args, " ")
			gate := verification.NewGate(lookup, cfg.Verification.StrictTitleMatch, logger)
			snap, err := gate.RequestVerification(cmd.Context(), title)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, snap)
			}
			view := newPresenter(cmd.OutOrStdout())
			view.VerificationChanged(gate.State(), &snap)
			if overview := strings.TrimSpace(snap.Overview); overview != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", overview)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the matched metadata as JSON")
	return cmd
}
