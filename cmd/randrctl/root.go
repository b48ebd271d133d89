package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var displayFlag string

	ctx := newCommandContext(&configFlag, &displayFlag)

	rootCmd := &cobra.Command{
		Use:           "randrctl",
		Short:         "Inspect and configure randrd monitor layouts",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&displayFlag, "display", "", "X display to query (defaults to $DISPLAY)")

	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newEdidsCommand(ctx))
	rootCmd.AddCommand(newOutputsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}
