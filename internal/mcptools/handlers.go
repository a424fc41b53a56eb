package mcptools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sourcegraph/scip/bindings/go/scip"

	"github.com/dusk-indust/syntax-highlighter/internal/dispatch"
	"github.com/dusk-indust/syntax-highlighter/internal/envelope"
	"github.com/dusk-indust/syntax-highlighter/internal/highlight"
	"github.com/dusk-indust/syntax-highlighter/internal/scipdoc"
)

const (
	formatSCIP = "scip"
	formatHTML = "html"
)

// Dispatcher is the subset of *dispatch.Service the tools call.
type Dispatcher interface {
	Legacy(ctx context.Context, q highlight.Query) envelope.Envelope
	Scip(ctx context.Context, q highlight.ScipQuery) envelope.Envelope
	Symbols(ctx context.Context, req dispatch.SymbolRequest) envelope.Envelope
}

// HighlightService backs the MCP tool handlers. Every call goes through the
// same dispatch path as the HTTP endpoints.
type HighlightService struct {
	dispatch Dispatcher
}

// NewHighlightService creates a HighlightService over d.
func NewHighlightService(d Dispatcher) *HighlightService {
	return &HighlightService{dispatch: d}
}

// HighlightCode renders code either as a SCIP document or as HTML.
func (s *HighlightService) HighlightCode(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HighlightCodeInput,
) (*mcp.CallToolResult, HighlightCodeOutput, error) {
	var limit *int
	if input.LineLengthLimit > 0 {
		limit = &input.LineLengthLimit
	}

	format := strings.ToLower(input.Format)
	if format == "" {
		format = formatSCIP
	}

	switch format {
	case formatSCIP:
		env := s.dispatch.Scip(ctx, highlight.ScipQuery{
			Engine:          highlight.SyntaxEngine(input.Engine),
			Code:            input.Code,
			Filepath:        input.Filepath,
			Filetype:        input.Filetype,
			Extension:       input.Extension,
			LineLengthLimit: limit,
		})
		p, err := payload[envelope.DocumentPayload](env)
		if err != nil {
			return nil, HighlightCodeOutput{}, err
		}
		return nil, HighlightCodeOutput{Format: format, Scip: p.Scip, Plaintext: p.Plaintext}, nil

	case formatHTML:
		env := s.dispatch.Legacy(ctx, highlight.Query{
			Code:            input.Code,
			Filepath:        input.Filepath,
			Filetype:        input.Filetype,
			Extension:       input.Extension,
			Theme:           input.Theme,
			LineLengthLimit: limit,
		})
		p, err := payload[envelope.DataPayload](env)
		if err != nil {
			return nil, HighlightCodeOutput{}, err
		}
		return nil, HighlightCodeOutput{Format: format, HTML: p.Data, Plaintext: p.Plaintext}, nil
	}

	return nil, HighlightCodeOutput{}, fmt.Errorf("unknown format %q (want %s or %s)", input.Format, formatSCIP, formatHTML)
}

// ExtractSymbols lists the global definitions of a file.
func (s *HighlightService) ExtractSymbols(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractSymbolsInput,
) (*mcp.CallToolResult, ExtractSymbolsOutput, error) {
	if input.Filename == "" {
		return nil, ExtractSymbolsOutput{}, errors.New("filename is required")
	}

	env := s.dispatch.Symbols(ctx, dispatch.SymbolRequest{Filename: input.Filename, Content: input.Content})
	p, err := payload[envelope.DocumentPayload](env)
	if err != nil {
		return nil, ExtractSymbolsOutput{}, err
	}

	doc, err := scipdoc.Decode(p.Scip)
	if err != nil {
		return nil, ExtractSymbolsOutput{}, fmt.Errorf("decode symbols: %w", err)
	}

	summaries := summarize(doc)
	return nil, ExtractSymbolsOutput{Scip: p.Scip, Symbols: summaries, Total: len(summaries)}, nil
}

// payload unwraps a success envelope, or turns a failure into a tool error.
func payload[T any](env envelope.Envelope) (T, error) {
	var zero T
	if env.IsError() {
		if env.Code != "" {
			return zero, fmt.Errorf("%s (%s)", env.Err, env.Code)
		}
		return zero, errors.New(env.Err)
	}
	p, ok := env.Payload.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected payload %T", env.Payload)
	}
	return p, nil
}

func summarize(doc *scip.Document) []SymbolSummary {
	ranges := make(map[string][]int32, len(doc.Occurrences))
	for _, occ := range doc.Occurrences {
		if occ.Symbol != "" && occ.SymbolRoles&int32(scip.SymbolRole_Definition) != 0 {
			ranges[occ.Symbol] = occ.Range
		}
	}

	out := make([]SymbolSummary, 0, len(doc.Symbols))
	for _, info := range doc.Symbols {
		rng, ok := ranges[info.Symbol]
		if !ok {
			rng = []int32{}
		}
		out = append(out, SymbolSummary{
			Symbol:      info.Symbol,
			DisplayName: info.DisplayName,
			Kind:        info.Kind.String(),
			Range:       rng,
		})
	}
	return out
}
