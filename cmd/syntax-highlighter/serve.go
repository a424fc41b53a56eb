package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sourcegraph/log"
	"github.com/spf13/cobra"

	"github.com/dusk-indust/syntax-highlighter/internal/config"
	"github.com/dusk-indust/syntax-highlighter/internal/dispatch"
	"github.com/dusk-indust/syntax-highlighter/internal/features"
	"github.com/dusk-indust/syntax-highlighter/internal/highlight"
	"github.com/dusk-indust/syntax-highlighter/internal/languages"
	"github.com/dusk-indust/syntax-highlighter/internal/mcptools"
	"github.com/dusk-indust/syntax-highlighter/internal/server"
	"github.com/dusk-indust/syntax-highlighter/internal/symbols"
)

const (
	sanityCheckMessage = "Sanity check passed, exiting without error"
	shutdownTimeout    = 10 * time.Second
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API (the default command)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.addr != "" {
		cfg.Addr = opts.addr
	}
	return cfg, nil
}

// initLogging initializes the global logger. The returned func flushes it.
func initLogging() (log.Logger, func()) {
	liblog := log.Init(log.Resource{
		Name:    "syntax-highlighter",
		Version: version,
	})
	return log.Scoped("syntax-highlighter"), liblog.Sync
}

func newService(logger log.Logger, cfg *config.Config) *dispatch.Service {
	return dispatch.New(logger,
		highlight.NewEngine(""),
		symbols.NewExtractor(),
		dispatch.WithTimeout(cfg.RequestTimeout))
}

func runServe(ctx context.Context, out io.Writer, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if cfg.SanityCheck {
		fmt.Fprintln(out, sanityCheckMessage)
		return nil
	}

	logger, sync := initLogging()
	defer sync()

	if !cfg.Quiet {
		if err := features.WriteSummary(out, features.Collect()); err != nil {
			return fmt.Errorf("list features: %w", err)
		}
	}

	warmStart := time.Now()
	if err := languages.Warm(ctx, cfg.WarmParsers()...); err != nil {
		return fmt.Errorf("warm grammars: %w", err)
	}
	logger.Info("grammars ready", log.Duration("elapsed", time.Since(warmStart)))

	svc := newService(logger, cfg)
	srvOpts := server.Options{MaxRequestBytes: cfg.MaxRequestBytes}
	if cfg.MCP.Enabled {
		srvOpts.MCP = mcptools.Handler(mcptools.NewMCPServer(mcptools.NewHighlightService(svc)))
	}
	srv := server.NewServer(logger, svc, srvOpts)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx, cfg.Addr); err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}
	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
