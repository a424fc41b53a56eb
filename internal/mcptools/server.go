// Package mcptools exposes the highlighter as Model Context Protocol tools.
package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewMCPServer creates an MCP server with the highlight_code and
// extract_symbols tools registered.
func NewMCPServer(svc *HighlightService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "syntax-highlighter",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "highlight_code",
		Description: "Highlight source code. Returns a base64 SCIP document of syntax occurrences, or HTML when format is html. The grammar is chosen from filetype, then filepath, then extension.",
	}, svc.HighlightCode)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "extract_symbols",
		Description: "Parse a file with tree-sitter and list its global definitions (types, functions, constants, fields) with their SCIP symbols and ranges.",
	}, svc.ExtractSymbols)

	return server
}

// Handler serves server over the streamable HTTP transport.
func Handler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)
}

// RunStdio runs server on the stdio transport, blocking until stdin is closed
// or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
