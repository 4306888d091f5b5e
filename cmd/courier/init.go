package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/five82/courier/internal/app"
	"github.com/five82/courier/internal/catalog"
	"github.com/five82/courier/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write an empty format file",
	Long: `Write {"format": [], "pattern": []} to the configured format file.

An existing non-empty file is only replaced with --force; the previous
version is kept next to it with a .bak suffix.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := appOptions()
		opts.LogToStderr = true
		opts.Stderr = cmd.ErrOrStderr()
		return runInit(opts, initForce, cmd.OutOrStdout())
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Replace an existing format file")
	rootCmd.AddCommand(initCmd)
}

var errFormatFileExists = errors.New("format file already exists (use --force to replace it)")

func runInit(opts app.Options, force bool, stdout io.Writer) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	existed := !catalog.NeedsReset(cfg.FormatFile)
	if existed && !force {
		return fmt.Errorf("%s: %w", cfg.FormatFile, errFormatFileExists)
	}

	// Bootstrap recreates a missing format file on its own.
	env, err := app.Bootstrap(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	path := env.Catalog.FormatPath()
	if existed || catalog.NeedsReset(path) {
		if err := env.Catalog.ResetDefault(); err != nil {
			return err
		}
	}
	if existed {
		fmt.Fprintf(stdout, "wrote %s (previous version in %s.bak)\n", path, path)
		return nil
	}
	fmt.Fprintf(stdout, "wrote %s\n", path)
	return nil
}
