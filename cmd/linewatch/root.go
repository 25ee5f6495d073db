package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var linesFlag string

	ctx := newCommandContext(&linesFlag)

	rootCmd := &cobra.Command{
		Use:           "linewatch",
		Short:         "Watch train line status pages and mail when a line is delayed",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&linesFlag, "lines", "", "YAML line definitions (overrides LINES_FILE)")

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newLinesCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))

	return rootCmd
}
