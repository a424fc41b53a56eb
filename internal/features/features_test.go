package features

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/syntax-highlighter/internal/languages"
)

func TestCollect(t *testing.T) {
	r := Collect()

	require.Len(t, r.TreeSitter, len(languages.Supported()))
	for _, p := range r.TreeSitter {
		assert.NotEmpty(t, p.Extensions, p.Name)
	}
	assert.Contains(t, r.TreeSitter, Parser{Name: "go", Extensions: []string{"go"}})

	require.NotEmpty(t, r.Lexers)
	assert.True(t, slices.IsSortedFunc(r.Lexers, func(a, b Lexer) int { return strings.Compare(a.Name, b.Name) }))
	idx := slices.IndexFunc(r.Lexers, func(l Lexer) bool { return l.Name == "Go" })
	require.GreaterOrEqual(t, idx, 0, "chroma should register a Go lexer")
	assert.Contains(t, r.Lexers[idx].Filenames, "*.go")

	assert.Contains(t, r.Themes, "github")
}

func TestWrite_RoundTrips(t *testing.T) {
	r := Report{
		TreeSitter: []Parser{{Name: "rust", Extensions: []string{"rs"}}},
		Lexers:     []Lexer{{Name: "Rust", Aliases: []string{"rs", "rust"}, Filenames: []string{"*.rs"}}},
		Themes:     []string{"github", "monokai"},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r))
	assert.Contains(t, buf.String(), "tree_sitter:\n  - name: rust\n")

	var got Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, r, got)
}

func TestWriteSummary(t *testing.T) {
	r := Report{
		TreeSitter: []Parser{{Name: "go", Extensions: []string{"go"}}, {Name: "python", Extensions: []string{"py", "pyi"}}},
		Lexers:     make([]Lexer, 3),
		Themes:     []string{"github"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, r))

	var got Summary
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, Summary{
		TreeSitter: map[string][]string{"go": {"go"}, "python": {"py", "pyi"}},
		Lexers:     3,
		Themes:     1,
	}, got)
}
