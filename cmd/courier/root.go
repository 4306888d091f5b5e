package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/courier/internal/app"
)

var (
	version = "dev"
	commit  = "none"
)

var (
	configPath string
	prefsPath  string
)

var rootCmd = &cobra.Command{
	Use:   "courier",
	Short: "Send catalogued requests to an HTTP endpoint",
	Long: `courier offers the formats and patterns listed in two JSON catalog files
and sends the matching request to the configured endpoint.

Without a subcommand it starts the terminal UI.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (%s)", version, commit)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.toml (default ~/.config/courier/config.toml)")
	rootCmd.PersistentFlags().StringVar(&prefsPath, "prefs", "", "Path to prefs.toml (default ~/.config/courier/prefs.toml)")
}

func appOptions() app.Options {
	return app.Options{ConfigPath: configPath, PrefsPath: prefsPath}
}
