package highlight

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultTheme is used when a legacy query names no theme.
const DefaultTheme = "github"

// Engine runs the highlighting backends. The zero value is ready to use.
type Engine struct {
	// Theme overrides DefaultTheme for queries that name no theme.
	Theme string
}

// NewEngine returns an Engine with the given default theme.
func NewEngine(theme string) *Engine {
	return &Engine{Theme: theme}
}

// Legacy renders q.Code to an HTML table with the regex-grammar lexers.
// Lexers are third-party regular expressions and may panic on pathological
// input; callers run this behind a crash boundary.
func (e *Engine) Legacy(q Query) (*LegacyResult, error) {
	lexer, matched := chromaLexer(q.Filetype, q.Filepath, q.Extension)
	plaintext := !matched
	if exceedsLineLimit(q.Code, q.LineLengthLimit) {
		lexer = chroma.Coalesce(lexers.Fallback)
		plaintext = true
	}

	it, err := lexer.Tokenise(nil, q.Code)
	if err != nil {
		return nil, fmt.Errorf("tokenise %s: %w", lexer.Config().Name, err)
	}

	formatter := html.New(
		html.WithClasses(q.CSS),
		html.WithLineNumbers(true),
		html.LineNumbersInTable(true),
		html.TabWidth(4),
	)

	var buf bytes.Buffer
	if err := formatter.Format(&buf, e.style(q.Theme), it); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	return &LegacyResult{Data: buf.String(), Plaintext: plaintext}, nil
}

func (e *Engine) style(name string) *chroma.Style {
	if name == "" {
		name = e.Theme
	}
	if name == "" {
		name = DefaultTheme
	}
	return styles.Get(name)
}
