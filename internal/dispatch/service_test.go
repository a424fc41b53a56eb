package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sourcegraph/log/logtest"
	"github.com/sourcegraph/scip/bindings/go/scip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"google.golang.org/protobuf/proto"

	"github.com/dusk-indust/syntax-highlighter/internal/envelope"
	"github.com/dusk-indust/syntax-highlighter/internal/highlight"
	"github.com/dusk-indust/syntax-highlighter/internal/languages"
	"github.com/dusk-indust/syntax-highlighter/internal/scipdoc"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeHighlighter struct {
	legacy func(highlight.Query) (*highlight.LegacyResult, error)
	lsif   func(highlight.Query) (*highlight.DocumentResult, error)
	scip   func(highlight.ScipQuery) (*highlight.DocumentResult, error)
}

func (f *fakeHighlighter) Legacy(q highlight.Query) (*highlight.LegacyResult, error) {
	return f.legacy(q)
}

func (f *fakeHighlighter) Lsif(q highlight.Query) (*highlight.DocumentResult, error) {
	return f.lsif(q)
}

func (f *fakeHighlighter) Scip(q highlight.ScipQuery) (*highlight.DocumentResult, error) {
	return f.scip(q)
}

type fakeExtractor func(languages.ParserID, []byte) (*scip.Document, error)

func (f fakeExtractor) Extract(id languages.ParserID, source []byte) (*scip.Document, error) {
	return f(id, source)
}

// panicOnce panics on its first call only.
func panicOnce() func(highlight.Query) (*highlight.LegacyResult, error) {
	var calls atomic.Int32
	return func(q highlight.Query) (*highlight.LegacyResult, error) {
		if calls.Add(1) == 1 {
			panic("regex engine blew up")
		}
		return &highlight.LegacyResult{Data: "<table>" + q.Code + "</table>"}, nil
	}
}

func newTestService(t *testing.T, h Highlighter, x SymbolExtractor, opts ...Option) *Service {
	t.Helper()
	return New(logtest.Scoped(t), h, x, opts...)
}

func body(t *testing.T, env envelope.Envelope) map[string]any {
	t.Helper()
	b, err := json.Marshal(env)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

// ---------------------------------------------------------------------------
// Highlight paths
// ---------------------------------------------------------------------------

func TestLegacy_PanicIsIsolated(t *testing.T) {
	svc := newTestService(t, &fakeHighlighter{legacy: panicOnce()}, nil)
	ctx := context.Background()

	first := body(t, svc.Legacy(ctx, highlight.Query{Code: "x"}))
	assert.Equal(t, "panic while highlighting code", first["error"])
	assert.Equal(t, "panic", first["code"])

	second := body(t, svc.Legacy(ctx, highlight.Query{Code: "x"}))
	assert.Equal(t, "<table>x</table>", second["data"])
	assert.Equal(t, false, second["plaintext"])
}

func TestScip_TimeoutIsIsolated(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	h := &fakeHighlighter{scip: func(highlight.ScipQuery) (*highlight.DocumentResult, error) {
		<-release
		return &highlight.DocumentResult{}, nil
	}}
	svc := newTestService(t, h, nil, WithTimeout(20*time.Millisecond))

	got := body(t, svc.Scip(context.Background(), highlight.ScipQuery{Code: "x"}))
	assert.Equal(t, "timed out while highlighting code", got["error"])
	assert.Equal(t, "timeout", got["code"])
}

func TestScip_BackendErrorKeepsCode(t *testing.T) {
	h := &fakeHighlighter{scip: func(q highlight.ScipQuery) (*highlight.DocumentResult, error) {
		return nil, &highlight.Error{Code: highlight.CodeInvalidEngine, Message: "unknown syntax engine"}
	}}
	svc := newTestService(t, h, nil)

	got := body(t, svc.Scip(context.Background(), highlight.ScipQuery{Engine: "nope"}))
	assert.Equal(t, "unknown syntax engine", got["error"])
	assert.Equal(t, highlight.CodeInvalidEngine, got["code"])
}

func TestLsif_SuccessUsesDataKey(t *testing.T) {
	h := &fakeHighlighter{lsif: func(highlight.Query) (*highlight.DocumentResult, error) {
		return &highlight.DocumentResult{Encoded: "AAAA", Plaintext: true}, nil
	}}
	svc := newTestService(t, h, nil)

	got := body(t, svc.Lsif(context.Background(), highlight.Query{}))
	assert.Equal(t, "AAAA", got["data"])
	assert.Equal(t, true, got["plaintext"])
}

// ---------------------------------------------------------------------------
// Symbols path
// ---------------------------------------------------------------------------

func TestSymbols_ResolveErrors(t *testing.T) {
	called := false
	x := fakeExtractor(func(languages.ParserID, []byte) (*scip.Document, error) {
		called = true
		return &scip.Document{}, nil
	})
	svc := newTestService(t, nil, x)
	ctx := context.Background()

	tests := map[string]string{
		"Makefile":        "Extensionless file",
		"file.unknownext": "Could not infer parser from extension",
		"file.\xff":       "Invalid codepoint",
	}
	for filename, want := range tests {
		got := body(t, svc.Symbols(ctx, SymbolRequest{Filename: filename}))
		assert.Equal(t, map[string]any{"error": want}, got, filename)
	}
	assert.False(t, called, "extractor must not run for unresolved files")
}

func TestSymbols_Success(t *testing.T) {
	want := &scip.Document{
		Language: "go",
		Occurrences: []*scip.Occurrence{{
			Range:       []int32{0, 8, 12},
			Symbol:      "scip-ctags . . . main/",
			SymbolRoles: int32(scip.SymbolRole_Definition),
		}},
	}
	var gotID languages.ParserID
	x := fakeExtractor(func(id languages.ParserID, src []byte) (*scip.Document, error) {
		gotID = id
		return want, nil
	})
	svc := newTestService(t, nil, x)

	got := body(t, svc.Symbols(context.Background(), SymbolRequest{Filename: "cmd/main.go", Content: "package main"}))
	assert.Equal(t, languages.Go, gotID)
	assert.Equal(t, false, got["plaintext"])

	encoded, ok := got["scip"].(string)
	require.True(t, ok)
	doc, err := scipdoc.Decode(encoded)
	require.NoError(t, err)
	assert.True(t, proto.Equal(want, doc))
}

func TestSymbols_ExtractorPanic(t *testing.T) {
	x := fakeExtractor(func(languages.ParserID, []byte) (*scip.Document, error) {
		var scope map[string]int
		scope["boom"]++
		return nil, nil
	})
	svc := newTestService(t, nil, x)

	got := body(t, svc.Symbols(context.Background(), SymbolRequest{Filename: "a.rs"}))
	assert.Equal(t, "panic while extracting symbols", got["error"])
	assert.Equal(t, "panic", got["code"])
}

func TestSymbols_ExtractorError(t *testing.T) {
	x := fakeExtractor(func(languages.ParserID, []byte) (*scip.Document, error) {
		return nil, errors.New("Failed to get globals")
	})
	svc := newTestService(t, nil, x)

	got := body(t, svc.Symbols(context.Background(), SymbolRequest{Filename: "a.py"}))
	assert.Equal(t, map[string]any{"error": "Failed to get globals"}, got)
}

// ---------------------------------------------------------------------------
// Metrics
// ---------------------------------------------------------------------------

func TestInvoke_RecordsOutcomes(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	svc := newTestService(t, &fakeHighlighter{legacy: panicOnce()}, nil, WithMeter(provider.Meter("test")))
	ctx := context.Background()
	svc.Legacy(ctx, highlight.Query{})
	svc.Legacy(ctx, highlight.Query{})
	svc.Legacy(ctx, highlight.Query{})

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "syntax_highlighter.backend.calls" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				outcome, _ := dp.Attributes.Value("outcome")
				backend, _ := dp.Attributes.Value("backend")
				assert.Equal(t, BackendLegacy, backend.AsString())
				counts[outcome.AsString()] += dp.Value
			}
		}
	}
	assert.Equal(t, map[string]int64{OutcomePanic: 1, OutcomeOK: 2}, counts)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, OutcomeOK, classify(nil))
	assert.Equal(t, OutcomeError, classify(errors.New("x")))
}
