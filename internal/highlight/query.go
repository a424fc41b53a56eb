// Package highlight implements the two highlighting backends: the legacy
// regex-grammar renderer that produces HTML, and the structured renderer that
// produces SCIP occurrence documents from tree-sitter or regex lexers.
package highlight

import "strings"

// Query is the request body of the legacy and /lsif endpoints.
type Query struct {
	Code            string `json:"code"`
	Filepath        string `json:"filepath,omitempty"`
	Filetype        string `json:"filetype,omitempty"`
	Extension       string `json:"extension,omitempty"`
	CSS             bool   `json:"css,omitempty"`
	Theme           string `json:"theme,omitempty"`
	LineLengthLimit *int   `json:"line_length_limit,omitempty"`
}

// SyntaxEngine selects the structured highlighting backend.
type SyntaxEngine string

const (
	EngineTreeSitter SyntaxEngine = "tree-sitter"
	EngineSyntect    SyntaxEngine = "syntect"
)

// ScipQuery is the request body of the /scip endpoint.
type ScipQuery struct {
	Engine          SyntaxEngine `json:"engine,omitempty"`
	Code            string       `json:"code"`
	Filepath        string       `json:"filepath,omitempty"`
	Filetype        string       `json:"filetype,omitempty"`
	Extension       string       `json:"extension,omitempty"`
	LineLengthLimit *int         `json:"line_length_limit,omitempty"`
}

// LegacyResult is rendered markup from the regex-grammar backend.
type LegacyResult struct {
	Data      string `json:"data"`
	Plaintext bool   `json:"plaintext"`
}

// DocumentResult is a base64 encoded SCIP document.
type DocumentResult struct {
	Encoded   string
	Plaintext bool
}

// exceedsLineLimit reports whether any line of code is longer than limit
// bytes. A nil or non-positive limit disables the check.
func exceedsLineLimit(code string, limit *int) bool {
	if limit == nil || *limit <= 0 {
		return false
	}
	for line := range strings.Lines(code) {
		if len(strings.TrimRight(line, "\r\n")) > *limit {
			return true
		}
	}
	return false
}
