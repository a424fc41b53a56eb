// Package dispatch routes decoded requests to the highlighting and symbol
// backends. Every backend call runs inside an isolate boundary, and every
// outcome is returned as an envelope.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sourcegraph/log"
	"github.com/sourcegraph/scip/bindings/go/scip"
	"go.opentelemetry.io/otel/metric"

	"github.com/dusk-indust/syntax-highlighter/internal/envelope"
	"github.com/dusk-indust/syntax-highlighter/internal/highlight"
	"github.com/dusk-indust/syntax-highlighter/internal/isolate"
	"github.com/dusk-indust/syntax-highlighter/internal/languages"
	"github.com/dusk-indust/syntax-highlighter/internal/scipdoc"
)

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 10 * time.Second

// Backend names used in logs and metrics.
const (
	BackendLegacy  = "legacy"
	BackendLsif    = "lsif"
	BackendScip    = "scip"
	BackendSymbols = "symbols"
)

// Highlighter is implemented by *highlight.Engine.
type Highlighter interface {
	Legacy(q highlight.Query) (*highlight.LegacyResult, error)
	Lsif(q highlight.Query) (*highlight.DocumentResult, error)
	Scip(q highlight.ScipQuery) (*highlight.DocumentResult, error)
}

// SymbolExtractor is implemented by *symbols.Extractor.
type SymbolExtractor interface {
	Extract(id languages.ParserID, source []byte) (*scip.Document, error)
}

// SymbolRequest is the request body of the /symbols endpoint.
type SymbolRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// Service invokes backends. It is safe for concurrent use.
type Service struct {
	logger      log.Logger
	highlighter Highlighter
	extractor   SymbolExtractor
	timeout     time.Duration
	meter       metric.Meter
	metrics     *metrics
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout overrides DefaultTimeout. A non-positive duration leaves
// backend calls bounded only by the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithMeter records backend metrics on meter instead of the global provider.
func WithMeter(meter metric.Meter) Option {
	return func(s *Service) { s.meter = meter }
}

// New returns a Service backed by h and x.
func New(logger log.Logger, h Highlighter, x SymbolExtractor, opts ...Option) *Service {
	s := &Service{
		logger:      logger,
		highlighter: h,
		extractor:   x,
		timeout:     DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics = newMetrics(s.meter)
	return s
}

// Legacy renders q to HTML.
func (s *Service) Legacy(ctx context.Context, q highlight.Query) envelope.Envelope {
	res, err := invoke(ctx, s, BackendLegacy, func() (*highlight.LegacyResult, error) {
		return s.highlighter.Legacy(q)
	})
	return envelope.FromLegacy(res, err)
}

// Lsif highlights q into a SCIP document returned under "data".
func (s *Service) Lsif(ctx context.Context, q highlight.Query) envelope.Envelope {
	res, err := invoke(ctx, s, BackendLsif, func() (*highlight.DocumentResult, error) {
		return s.highlighter.Lsif(q)
	})
	return envelope.FromLsif(res, err)
}

// Scip highlights q into a SCIP document.
func (s *Service) Scip(ctx context.Context, q highlight.ScipQuery) envelope.Envelope {
	res, err := invoke(ctx, s, BackendScip, func() (*highlight.DocumentResult, error) {
		return s.highlighter.Scip(q)
	})
	return envelope.FromScip(res, err)
}

// Symbols resolves the grammar from req.Filename and extracts its globals.
func (s *Service) Symbols(ctx context.Context, req SymbolRequest) envelope.Envelope {
	id, err := languages.ResolvePath(req.Filename)
	if err != nil {
		s.logger.Debug("symbols: unresolved file", log.String("filename", req.Filename), log.Error(err))
		return envelope.FromResolve(err)
	}

	encoded, err := invoke(ctx, s, BackendSymbols, func() (string, error) {
		doc, err := s.extractor.Extract(id, []byte(req.Content))
		if err != nil {
			return "", err
		}
		return scipdoc.Encode(doc)
	})
	return envelope.FromSymbols(encoded, err)
}

// invoke runs fn behind a crash boundary bounded by the service timeout and
// records its outcome.
func invoke[T any](ctx context.Context, s *Service, backend string, fn func() (T, error)) (T, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	v, err := isolate.Run(ctx, fn)
	elapsed := time.Since(start)

	outcome := classify(err)
	s.metrics.record(ctx, backend, outcome, elapsed)

	switch outcome {
	case OutcomePanic:
		fields := []log.Field{log.String("backend", backend)}
		var pe *isolate.PanicError
		if errors.As(err, &pe) {
			fields = append(fields,
				log.String("panic", fmt.Sprint(pe.Value)),
				log.String("stack", string(pe.Stack)))
		}
		s.logger.Error("backend panicked", fields...)
	case OutcomeTimeout:
		s.logger.Warn("backend abandoned",
			log.String("backend", backend),
			log.Duration("elapsed", elapsed),
			log.Error(err))
	case OutcomeError:
		s.logger.Debug("backend error", log.String("backend", backend), log.Error(err))
	}
	return v, err
}

func classify(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, isolate.ErrPanic):
		return OutcomePanic
	case errors.Is(err, isolate.ErrTimeout):
		return OutcomeTimeout
	}
	return OutcomeError
}
