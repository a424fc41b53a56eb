package languages

import (
	"context"
	"fmt"
	"sync"
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	tree_sitter_c_sharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
	"golang.org/x/sync/errgroup"
)

// grammarEntryPoints lists the binding entry point of every ParserID.
var grammarEntryPoints = map[ParserID]func() unsafe.Pointer{
	C:          tree_sitter_c.Language,
	Cpp:        tree_sitter_cpp.Language,
	CSharp:     tree_sitter_c_sharp.Language,
	Go:         tree_sitter_go.Language,
	Java:       tree_sitter_java.Language,
	JavaScript: tree_sitter_javascript.Language,
	PHP:        tree_sitter_php.LanguagePHP,
	Python:     tree_sitter_python.Language,
	Ruby:       tree_sitter_ruby.Language,
	Rust:       tree_sitter_rust.Language,
	TypeScript: tree_sitter_typescript.LanguageTypescript,
	TSX:        tree_sitter_typescript.LanguageTSX,
}

// registry is the process-wide grammar table. Each entry is built once and
// shared read-only by every request; parsers are still created per call.
type registry struct {
	entries map[ParserID]func() (*tree_sitter.Language, error)
}

var grammars = newRegistry()

func newRegistry() *registry {
	r := &registry{entries: make(map[ParserID]func() (*tree_sitter.Language, error), len(grammarEntryPoints))}
	for id, entry := range grammarEntryPoints {
		r.entries[id] = sync.OnceValues(func() (*tree_sitter.Language, error) {
			lang := tree_sitter.NewLanguage(entry())
			if lang == nil {
				return nil, fmt.Errorf("load grammar %s: nil language", id)
			}
			return lang, nil
		})
	}
	return r
}

// Grammar returns the shared tree-sitter language for id.
func Grammar(id ParserID) (*tree_sitter.Language, error) {
	load, ok := grammars.entries[id]
	if !ok {
		return nil, fmt.Errorf("no grammar registered for %q", id)
	}
	return load()
}

// Warm loads the given grammars concurrently so load errors surface at
// startup rather than on the first request. With no ids every grammar is
// loaded.
func Warm(ctx context.Context, ids ...ParserID) error {
	if len(ids) == 0 {
		ids = Supported()
	}
	g, _ := errgroup.WithContext(ctx)
	for _, id := range ids {
		g.Go(func() error {
			lang, err := Grammar(id)
			if err != nil {
				return err
			}
			// SetLanguage rejects grammars built for an incompatible ABI.
			parser := tree_sitter.NewParser()
			defer parser.Close()
			if err := parser.SetLanguage(lang); err != nil {
				return fmt.Errorf("warm grammar %s: %w", id, err)
			}
			return nil
		})
	}
	return g.Wait()
}
