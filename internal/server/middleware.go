package server

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/dusk-indust/syntax-highlighter/internal/envelope"
)

const meterName = "github.com/dusk-indust/syntax-highlighter/internal/server"

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// RequestID returns the ID assigned to the request carrying ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type httpMetrics struct {
	inFlight metric.Int64UpDownCounter
	requests metric.Int64Counter
}

func newHTTPMetrics(meter metric.Meter) *httpMetrics {
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(meterName)
	}
	fallback := noop.NewMeterProvider().Meter(meterName)

	inFlight, err := meter.Int64UpDownCounter("syntax_highlighter.requests.in_flight",
		metric.WithDescription("Requests currently being served."))
	if err != nil {
		otel.Handle(err)
		inFlight, _ = fallback.Int64UpDownCounter("syntax_highlighter.requests.in_flight")
	}

	requests, err := meter.Int64Counter("syntax_highlighter.requests",
		metric.WithDescription("Served requests by route and status."))
	if err != nil {
		otel.Handle(err)
		requests, _ = fallback.Int64Counter("syntax_highlighter.requests")
	}

	return &httpMetrics{inFlight: inFlight, requests: requests}
}

// instrument wraps h, innermost first: panic recovery, request logging,
// request ID, in-flight tracking, then otelhttp tracing.
func (s *Server) instrument(h http.Handler) http.Handler {
	h = s.recoverPanics(h)
	h = s.logRequests(h)
	h = s.assignRequestID(h)
	h = s.trackInFlight(h)
	return otelhttp.NewHandler(h, "syntax-highlighter", otelhttp.WithPublicEndpoint())
}

func (s *Server) assignRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func (s *Server) trackInFlight(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithoutCancel(r.Context())
		s.metrics.inFlight.Add(ctx, 1)
		defer s.metrics.inFlight.Add(ctx, -1)
		next.ServeHTTP(w, r)
	})
}

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		s.metrics.requests.Add(context.WithoutCancel(r.Context()), 1, metric.WithAttributes(
			attribute.String("path", routeLabel(r.URL.Path)),
			attribute.Int("status", rec.status),
		))
		s.logger.Debug("request",
			log.String("request_id", RequestID(r.Context())),
			log.String("method", r.Method),
			log.String("path", r.URL.Path),
			log.Int("status", rec.status),
			log.Duration("elapsed", time.Since(start)))
	})
}

// recoverPanics catches anything that escaped the dispatch boundary.
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			s.logger.Error("handler panicked",
				log.String("request_id", RequestID(r.Context())),
				log.String("panic", fmt.Sprint(v)),
				log.String("stack", string(debug.Stack())))
			writeEnvelope(w, http.StatusInternalServerError, envelope.Fail("internal server error", envelope.CodePanic))
		}()
		next.ServeHTTP(w, r)
	})
}

// routeLabel bounds metric cardinality to the known routes.
func routeLabel(path string) string {
	switch path {
	case "/", "/lsif", "/scip", "/symbols", "/health":
		return path
	}
	if strings.HasPrefix(path, mcpPrefix) {
		return mcpPrefix
	}
	return "other"
}
