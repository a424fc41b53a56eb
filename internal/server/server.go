// Package server exposes the dispatch service over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/sourcegraph/log"
	"go.opentelemetry.io/otel/metric"

	"github.com/dusk-indust/syntax-highlighter/internal/dispatch"
	"github.com/dusk-indust/syntax-highlighter/internal/envelope"
	"github.com/dusk-indust/syntax-highlighter/internal/highlight"
)

// DefaultMaxRequestBytes caps request bodies when Options leaves it unset.
const DefaultMaxRequestBytes = 10 << 20

// Dispatcher is implemented by *dispatch.Service.
type Dispatcher interface {
	Legacy(ctx context.Context, q highlight.Query) envelope.Envelope
	Lsif(ctx context.Context, q highlight.Query) envelope.Envelope
	Scip(ctx context.Context, q highlight.ScipQuery) envelope.Envelope
	Symbols(ctx context.Context, req dispatch.SymbolRequest) envelope.Envelope
}

// Options configures a Server.
type Options struct {
	// MaxRequestBytes caps request bodies. Zero means DefaultMaxRequestBytes.
	MaxRequestBytes int64
	// MCP, when set, is mounted under /mcp.
	MCP http.Handler
	// Meter receives HTTP metrics. Nil means the global provider.
	Meter metric.Meter
}

// Server is the HTTP front end of the highlighter.
type Server struct {
	logger   log.Logger
	dispatch Dispatcher
	opts     Options
	metrics  *httpMetrics

	http     *http.Server
	listener net.Listener
}

// NewServer creates a Server. Call Start to begin serving, or mount Handler
// on an existing server.
func NewServer(logger log.Logger, d Dispatcher, opts Options) *Server {
	if opts.MaxRequestBytes <= 0 {
		opts.MaxRequestBytes = DefaultMaxRequestBytes
	}
	return &Server{
		logger:   logger,
		dispatch: d,
		opts:     opts,
		metrics:  newHTTPMetrics(opts.Meter),
	}
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.instrument(s.routes())
}

// Start binds addr and serves in a background goroutine. It returns once the
// listener is open, so Addr is valid afterwards.
func (s *Server) Start(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped", log.Error(err))
		}
	}()

	s.logger.Info("listening", log.String("addr", ln.Addr().String()))
	return nil
}

// Addr is the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
