package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tinyserve/internal/version"
)

// newRootCmd builds the tiny-serve command. Flag parsing is left to
// config.Resolve because every token that is not -p, -f or -c is content,
// including ones that look like flags.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tiny-serve [-p <port>] [-f] [-c <config-path>] <content|filename>...",
		Short: "Serve text, HTML or files over HTTP",
		Long: `tiny-serve answers every HTTP request from a fixed description of content:
literal text given on the command line, a list of files (-f), or the routes of a
YAML, JSON or TOML config document (-c). The port defaults to 3000 (-p).

Runtime settings such as logging, gzip and Basic auth are read from
TINY_SERVE_* environment variables.`,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		Args:               cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && args[0] == "--version" {
				_, err := fmt.Fprintln(stdout, version.Full())
				return err
			}
			return runServe(cmd.Context(), args, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}
