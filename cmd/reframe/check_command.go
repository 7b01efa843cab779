package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reframe/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify ffmpeg, ffprobe, the configured encoder and the temp directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			results := preflight.RunAll(cmd.Context(), ctx.config)
			report := newCheckReport(results, shouldColorize(out))
			fmt.Fprintln(out, report.render("Preflight", results))

			if preflight.Failed(results) {
				return fmt.Errorf("preflight failed")
			}
			return nil
		},
	}
}
