package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set by goreleaser at build time.
var version = "dev"

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	addr       string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "syntax-highlighter",
		Short: "Highlight source code and extract symbols over HTTP",
		Long: `syntax-highlighter serves syntax highlighting and symbol extraction.

With no subcommand it serves HTTP:
  POST /         HTML highlighting
  POST /lsif     SCIP highlighting (older request shape)
  POST /scip     SCIP highlighting
  POST /symbols  global symbol extraction
  GET  /health   liveness`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is ./syntax-highlighter.yaml)")
	root.PersistentFlags().StringVar(&opts.addr, "addr", "", "listen address, overrides the config file")

	root.AddCommand(
		newServeCmd(opts),
		newMCPCmd(opts),
		newFeaturesCmd(),
		newVersionCmd(),
	)
	return root
}
