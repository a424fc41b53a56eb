package mcptools

// --- MCP Tool Input Types ---
// The MCP Go SDK derives each tool's JSON schema from these struct tags.

// HighlightCodeInput is the input for the highlight_code MCP tool.
type HighlightCodeInput struct {
	Code            string `json:"code" jsonschema:"the source text to highlight"`
	Filepath        string `json:"filepath,omitempty" jsonschema:"path of the file, used to pick a grammar"`
	Filetype        string `json:"filetype,omitempty" jsonschema:"language name, takes precedence over filepath"`
	Extension       string `json:"extension,omitempty" jsonschema:"file extension without the dot"`
	Engine          string `json:"engine,omitempty" jsonschema:"structured engine: tree-sitter (default) or syntect"`
	Format          string `json:"format,omitempty" jsonschema:"output format: scip (default) or html"`
	Theme           string `json:"theme,omitempty" jsonschema:"color theme for html output"`
	LineLengthLimit int    `json:"lineLengthLimit,omitempty" jsonschema:"fall back to plaintext when any line is longer than this"`
}

// HighlightCodeOutput is the result of the highlight_code MCP tool.
type HighlightCodeOutput struct {
	Format    string `json:"format"`
	Scip      string `json:"scip,omitempty" jsonschema:"base64 encoded SCIP document"`
	HTML      string `json:"html,omitempty"`
	Plaintext bool   `json:"plaintext"`
}

// ExtractSymbolsInput is the input for the extract_symbols MCP tool.
type ExtractSymbolsInput struct {
	Filename string `json:"filename" jsonschema:"file name, its extension selects the grammar"`
	Content  string `json:"content" jsonschema:"the file contents"`
}

// SymbolSummary is one global definition found by extract_symbols.
type SymbolSummary struct {
	Symbol      string  `json:"symbol"`
	DisplayName string  `json:"displayName"`
	Kind        string  `json:"kind"`
	Range       []int32 `json:"range"`
}

// ExtractSymbolsOutput is the result of the extract_symbols MCP tool.
type ExtractSymbolsOutput struct {
	Scip    string          `json:"scip" jsonschema:"base64 encoded SCIP document"`
	Symbols []SymbolSummary `json:"symbols"`
	Total   int             `json:"total"`
}
