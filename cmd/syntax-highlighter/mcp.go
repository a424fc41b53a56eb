package main

import (
	"github.com/spf13/cobra"

	"github.com/dusk-indust/syntax-highlighter/internal/languages"
	"github.com/dusk-indust/syntax-highlighter/internal/mcptools"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the highlight_code and extract_symbols tools over stdio",
		Long: `Run a Model Context Protocol server on stdin/stdout.

The tools go through the same crash boundary and timeout as the HTTP API.
To expose them over HTTP instead, set mcp.enabled and they are mounted at /mcp.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			logger, sync := initLogging()
			defer sync()

			if err := languages.Warm(cmd.Context(), cfg.WarmParsers()...); err != nil {
				return err
			}

			svc := newService(logger, cfg)
			return mcptools.RunStdio(cmd.Context(), mcptools.NewMCPServer(mcptools.NewHighlightService(svc)))
		},
	}
}
