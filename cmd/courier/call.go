package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/five82/courier/internal/app"
	"github.com/five82/courier/internal/dispatch"
	"github.com/five82/courier/internal/prefs"
	"github.com/five82/courier/internal/render"
)

var (
	callOutput  string
	callVerbose bool
	callFail    bool
)

var callCmd = &cobra.Command{
	Use:   "call <format> <pattern>",
	Short: "Send one request and print the response",
	Long: `Send the request for a catalog pattern using the given format and print the
outcome. Logs go to stderr.

The exit status is non-zero when the request is rejected or no response
arrives. With --fail a non-2xx response is an error too.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		output := callOutput
		if output == "" {
			output = prefs.Load(prefsPath).Output
		}
		mode, err := render.ParseMode(output)
		if err != nil {
			return err
		}
		opts := appOptions()
		opts.LogToStderr = true
		opts.Stderr = cmd.ErrOrStderr()
		return runCall(cmd.Context(), opts, args[0], args[1], callSettings{
			mode:    mode,
			verbose: callVerbose,
			fail:    callFail,
		}, cmd.OutOrStdout())
	},
}

func init() {
	callCmd.Flags().StringVarP(&callOutput, "output", "o", "", "Body format: json, yaml or raw (default from prefs)")
	callCmd.Flags().BoolVarP(&callVerbose, "verbose", "v", false, "Print the final URL and response headers")
	callCmd.Flags().BoolVar(&callFail, "fail", false, "Exit non-zero on a non-2xx response")
	rootCmd.AddCommand(callCmd)
}

type callSettings struct {
	mode    render.Mode
	verbose bool
	fail    bool
}

func runCall(ctx context.Context, opts app.Options, format, pattern string, s callSettings, stdout io.Writer) error {
	env, err := app.Bootstrap(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	outcome := env.Dispatcher.Dispatch(ctx, format, pattern)
	text, err := render.Outcome(outcome, s.mode, s.verbose)
	if err != nil {
		return fmt.Errorf("render outcome: %w", err)
	}
	fmt.Fprint(stdout, text)

	switch {
	case outcome.State != dispatch.StateSucceeded && outcome.Err != nil:
		return outcome.Err
	case outcome.State != dispatch.StateSucceeded:
		return fmt.Errorf("request %s", outcome.State)
	case s.fail && !outcome.OK():
		return fmt.Errorf("endpoint returned %s", outcome.Status)
	}
	return nil
}
