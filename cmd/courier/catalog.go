package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/courier/internal/app"
	"github.com/five82/courier/internal/catalog"
)

var catalogJSON bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the formats and patterns courier can send",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := appOptions()
		opts.LogToStderr = true
		opts.Stderr = cmd.ErrOrStderr()
		return runCatalog(opts, catalogJSON, cmd.OutOrStdout())
	},
}

func init() {
	catalogCmd.Flags().BoolVar(&catalogJSON, "json", false, "Print the catalog as JSON, including pattern parameters")
	rootCmd.AddCommand(catalogCmd)
}

type catalogView struct {
	Loaded     bool                      `json:"loaded"`
	FormatFile string                    `json:"format_file"`
	ParamsFile string                    `json:"params_file"`
	Formats    []string                  `json:"formats"`
	Patterns   []string                  `json:"patterns"`
	Params     map[string]catalog.Params `json:"params"`
}

func runCatalog(opts app.Options, asJSON bool, stdout io.Writer) error {
	env, err := app.Bootstrap(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	c := env.Catalog
	view := catalogView{
		Loaded:     c.Loaded(),
		FormatFile: c.FormatPath(),
		ParamsFile: c.ParamsPath(),
		Formats:    c.Formats(),
		Patterns:   c.Patterns(),
		Params:     make(map[string]catalog.Params),
	}
	for _, p := range view.Patterns {
		if params, ok := c.Params(p); ok {
			view.Params[p] = params
		}
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(view)
	}

	if !view.Loaded {
		fmt.Fprintf(stdout, "catalog not loaded (format file %s, params file %s)\n", view.FormatFile, view.ParamsFile)
		return nil
	}
	fmt.Fprintf(stdout, "formats:  %s\n", listOrNone(view.Formats))
	fmt.Fprintf(stdout, "patterns: %s\n", listOrNone(view.Patterns))
	return nil
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
