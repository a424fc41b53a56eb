// Package features lists what the highlighter supports: tree-sitter parsers
// with their file extensions, regex-grammar lexers, and color themes.
package features

import (
	"cmp"
	"io"
	"slices"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/syntax-highlighter/internal/languages"
)

// Report is the full feature listing.
type Report struct {
	TreeSitter []Parser `yaml:"tree_sitter"`
	Lexers     []Lexer  `yaml:"lexers"`
	Themes     []string `yaml:"themes"`
}

// Parser is a tree-sitter grammar and the extensions that select it.
type Parser struct {
	Name       string   `yaml:"name"`
	Extensions []string `yaml:"extensions"`
}

// Lexer is a regex-grammar lexer.
type Lexer struct {
	Name      string   `yaml:"name"`
	Aliases   []string `yaml:"aliases,omitempty"`
	Filenames []string `yaml:"filenames,omitempty"`
}

// Collect builds the report from the registered grammars.
func Collect() Report {
	var r Report

	for _, id := range languages.Supported() {
		r.TreeSitter = append(r.TreeSitter, Parser{Name: string(id), Extensions: languages.Extensions(id)})
	}

	for _, l := range lexers.GlobalLexerRegistry.Lexers {
		cfg := l.Config()
		r.Lexers = append(r.Lexers, Lexer{Name: cfg.Name, Aliases: cfg.Aliases, Filenames: cfg.Filenames})
	}
	slices.SortFunc(r.Lexers, func(a, b Lexer) int { return cmp.Compare(a.Name, b.Name) })

	r.Themes = styles.Names()
	return r
}

// Write encodes r as YAML.
func Write(w io.Writer, r Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

// Summary is the short form printed at startup.
type Summary struct {
	TreeSitter map[string][]string `yaml:"tree_sitter"`
	Lexers     int                 `yaml:"lexer_count"`
	Themes     int                 `yaml:"theme_count"`
}

// Summarize condenses r for the startup log.
func Summarize(r Report) Summary {
	s := Summary{
		TreeSitter: make(map[string][]string, len(r.TreeSitter)),
		Lexers:     len(r.Lexers),
		Themes:     len(r.Themes),
	}
	for _, p := range r.TreeSitter {
		s.TreeSitter[p.Name] = p.Extensions
	}
	return s
}

// WriteSummary encodes the startup summary of r as YAML.
func WriteSummary(w io.Writer, r Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Summarize(r)); err != nil {
		return err
	}
	return enc.Close()
}
