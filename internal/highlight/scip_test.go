//go:build cgo

package highlight

import (
	"errors"
	"strings"
	"testing"

	"github.com/sourcegraph/scip/bindings/go/scip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/syntax-highlighter/internal/scipdoc"
)

const goSource = "package main\n\nfunc main() {\n\tprintln(\"hi\", 42)\n}\n"

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func decodeResult(t *testing.T, res *DocumentResult) *scip.Document {
	t.Helper()
	require.NotNil(t, res)
	doc, err := scipdoc.Decode(res.Encoded)
	require.NoError(t, err)
	return doc
}

// kindAt returns the syntax kind of the occurrence with exactly rng, or
// UnspecifiedSyntaxKind when there is none.
func kindAt(doc *scip.Document, rng ...int32) scip.SyntaxKind {
	for _, occ := range doc.Occurrences {
		if equalRange(occ.Range, rng) {
			return occ.SyntaxKind
		}
	}
	return scip.SyntaxKind_UnspecifiedSyntaxKind
}

func equalRange(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var herr *Error
	require.True(t, errors.As(err, &herr), "expected *Error, got %T: %v", err, err)
	assert.Equal(t, code, herr.Code)
}

// ---------------------------------------------------------------------------
// Tree-sitter engine
// ---------------------------------------------------------------------------

func TestScip_TreeSitterGo(t *testing.T) {
	e := NewEngine("")
	res, err := e.Scip(ScipQuery{Code: goSource, Filetype: "go", Filepath: "main.go"})
	require.NoError(t, err)
	assert.False(t, res.Plaintext)

	doc := decodeResult(t, res)
	assert.Equal(t, "go", doc.Language)
	assert.Equal(t, "main.go", doc.RelativePath)
	require.NotEmpty(t, doc.Occurrences)

	assert.Equal(t, scip.SyntaxKind_Keyword, kindAt(doc, 0, 0, 7), "package")
	assert.Equal(t, scip.SyntaxKind_IdentifierNamespace, kindAt(doc, 0, 8, 12), "package name")
	assert.Equal(t, scip.SyntaxKind_Keyword, kindAt(doc, 2, 0, 4), "func")
	assert.Equal(t, scip.SyntaxKind_IdentifierFunctionDefinition, kindAt(doc, 2, 5, 9), "main")
	assert.Equal(t, scip.SyntaxKind_IdentifierFunction, kindAt(doc, 3, 1, 8), "println call")
	assert.Equal(t, scip.SyntaxKind_StringLiteral, kindAt(doc, 3, 9, 13), "string")
	assert.Equal(t, scip.SyntaxKind_NumericLiteral, kindAt(doc, 3, 15, 17), "number")
}

func TestScip_ResolvesByPathWhenFiletypeMissing(t *testing.T) {
	e := NewEngine("")
	res, err := e.Scip(ScipQuery{Code: "def f():\n    return None\n", Filepath: "pkg/mod.py"})
	require.NoError(t, err)

	doc := decodeResult(t, res)
	assert.Equal(t, "python", doc.Language)
	assert.Equal(t, scip.SyntaxKind_IdentifierFunctionDefinition, kindAt(doc, 0, 4, 5))
}

func TestScip_ResolvesByExtension(t *testing.T) {
	e := NewEngine("")
	res, err := e.Scip(ScipQuery{Code: "fn main() {}\n", Extension: "rs"})
	require.NoError(t, err)
	assert.Equal(t, "rust", decodeResult(t, res).Language)
}

func TestScip_CommentsAreEmittedWhole(t *testing.T) {
	e := NewEngine("")
	res, err := e.Scip(ScipQuery{Code: "// hello world\npackage main\n", Filetype: "go"})
	require.NoError(t, err)

	doc := decodeResult(t, res)
	assert.Equal(t, scip.SyntaxKind_Comment, kindAt(doc, 0, 0, 14))
}

func TestScip_UnknownFiletype(t *testing.T) {
	e := NewEngine("")
	_, err := e.Scip(ScipQuery{Code: "x", Filetype: "cobol"})
	requireCode(t, err, CodeInvalidFiletype)
	assert.Contains(t, err.Error(), "cobol")
}

func TestScip_InvalidEngine(t *testing.T) {
	e := NewEngine("")
	_, err := e.Scip(ScipQuery{Engine: "pygments", Code: "x", Filetype: "go"})
	requireCode(t, err, CodeInvalidEngine)
}

func TestScip_LineLengthLimitYieldsEmptyPlaintextDocument(t *testing.T) {
	e := NewEngine("")
	code := "package main\nvar s = \"" + strings.Repeat("a", 500) + "\"\n"
	res, err := e.Scip(ScipQuery{Code: code, Filetype: "go", LineLengthLimit: intPtr(80)})
	require.NoError(t, err)
	assert.True(t, res.Plaintext)

	doc := decodeResult(t, res)
	assert.Equal(t, "go", doc.Language)
	assert.Empty(t, doc.Occurrences)
}

func TestScip_DeepNestingDoesNotExhaustStack(t *testing.T) {
	e := NewEngine("")
	depth := 5000
	code := "package main\nvar x = " + strings.Repeat("(", depth) + "1" + strings.Repeat(")", depth) + "\n"

	res, err := e.Scip(ScipQuery{Code: code, Filetype: "go"})
	require.NoError(t, err)
	assert.NotEmpty(t, decodeResult(t, res).Occurrences)
}

func TestScip_EverySupportedGrammarHighlights(t *testing.T) {
	samples := map[string]string{
		"c":          "int main(void) { return 0; }\n",
		"cpp":        "int main() { return 0; }\n",
		"c_sharp":    "class A { void M() {} }\n",
		"java":       "class A { void m() {} }\n",
		"javascript": "function f() { return 1; }\n",
		"php":        "<?php function f() { return 1; }\n",
		"ruby":       "def f\n  1\nend\n",
		"typescript": "function f(): number { return 1; }\n",
		"tsx":        "const a = <div />;\n",
	}
	e := NewEngine("")
	for filetype, code := range samples {
		t.Run(filetype, func(t *testing.T) {
			res, err := e.Scip(ScipQuery{Code: code, Filetype: filetype})
			require.NoError(t, err)
			assert.NotEmpty(t, decodeResult(t, res).Occurrences)
		})
	}
}

// ---------------------------------------------------------------------------
// Regex engine
// ---------------------------------------------------------------------------

func TestScip_SyntectEngine(t *testing.T) {
	e := NewEngine("")
	res, err := e.Scip(ScipQuery{Engine: EngineSyntect, Code: goSource, Filetype: "go"})
	require.NoError(t, err)
	assert.False(t, res.Plaintext)

	doc := decodeResult(t, res)
	assert.Equal(t, "Go", doc.Language)
	assert.Equal(t, scip.SyntaxKind_Keyword, kindAt(doc, 0, 0, 7))
}

func TestScip_SyntectEngineUnknownFiletypeIsPlaintext(t *testing.T) {
	e := NewEngine("")
	res, err := e.Scip(ScipQuery{Engine: EngineSyntect, Code: "hello", Filetype: "definitely-not-a-language"})
	require.NoError(t, err)
	assert.True(t, res.Plaintext)
	assert.Empty(t, decodeResult(t, res).Occurrences)
}

// ---------------------------------------------------------------------------
// Lsif
// ---------------------------------------------------------------------------

func TestLsif_MatchesTreeSitterScip(t *testing.T) {
	e := NewEngine("")
	lsif, err := e.Lsif(Query{Code: goSource, Filetype: "go"})
	require.NoError(t, err)

	scipRes, err := e.Scip(ScipQuery{Code: goSource, Filetype: "go"})
	require.NoError(t, err)

	assert.Equal(t, scipRes.Encoded, lsif.Encoded)
}

func TestLsif_UnknownFiletype(t *testing.T) {
	e := NewEngine("")
	_, err := e.Lsif(Query{Code: "x", Filetype: "brainfuck"})
	requireCode(t, err, CodeInvalidFiletype)
}

// ---------------------------------------------------------------------------
// Token classification
// ---------------------------------------------------------------------------

func TestClassifyToken(t *testing.T) {
	tests := map[string]scip.SyntaxKind{
		"func": scip.SyntaxKind_Keyword,
		"if":   scip.SyntaxKind_Keyword,
		"true": scip.SyntaxKind_BooleanLiteral,
		"nil":  scip.SyntaxKind_IdentifierNull,
		"(":    scip.SyntaxKind_PunctuationBracket,
		"}":    scip.SyntaxKind_PunctuationBracket,
		",":    scip.SyntaxKind_PunctuationDelimiter,
		"::":   scip.SyntaxKind_PunctuationDelimiter,
		"+=":   scip.SyntaxKind_IdentifierOperator,
		"=>":   scip.SyntaxKind_IdentifierOperator,
		`"`:    scip.SyntaxKind_UnspecifiedSyntaxKind,
		"":     scip.SyntaxKind_UnspecifiedSyntaxKind,
	}
	for tok, want := range tests {
		assert.Equal(t, want, classifyToken(tok), "token %q", tok)
	}
}
