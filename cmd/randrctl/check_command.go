package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			fmt.Fprintf(out, "Monitors: %d\n", len(cfg.Monitors))
			fmt.Fprintf(out, "Layouts: %d\n", len(cfg.Layouts))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
