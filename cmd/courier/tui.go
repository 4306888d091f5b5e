package main

import (
	"github.com/spf13/cobra"

	"github.com/five82/courier/internal/app"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the terminal UI (default)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command) error {
	return app.Run(cmd.Context(), appOptions())
}
