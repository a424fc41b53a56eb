package dispatch

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/dusk-indust/syntax-highlighter/internal/dispatch"

// Outcomes recorded per backend call.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomePanic   = "panic"
	OutcomeTimeout = "timeout"
)

type metrics struct {
	calls    metric.Int64Counter
	duration metric.Float64Histogram
}

func newMetrics(meter metric.Meter) *metrics {
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(meterName)
	}
	fallback := noop.NewMeterProvider().Meter(meterName)

	calls, err := meter.Int64Counter("syntax_highlighter.backend.calls",
		metric.WithDescription("Backend invocations by backend and outcome."))
	if err != nil {
		otel.Handle(err)
		calls, _ = fallback.Int64Counter("syntax_highlighter.backend.calls")
	}

	duration, err := meter.Float64Histogram("syntax_highlighter.backend.duration",
		metric.WithDescription("Backend call latency."),
		metric.WithUnit("s"))
	if err != nil {
		otel.Handle(err)
		duration, _ = fallback.Float64Histogram("syntax_highlighter.backend.duration")
	}

	return &metrics{calls: calls, duration: duration}
}

func (m *metrics) record(ctx context.Context, backend, outcome string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.String("outcome", outcome),
	)
	// The request context may already be done; measurements must still land.
	ctx = context.WithoutCancel(ctx)
	m.calls.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}
