package symbols

import (
	"errors"
	"fmt"

	"github.com/sourcegraph/scip/bindings/go/scip"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/syntax-highlighter/internal/languages"
	"github.com/dusk-indust/syntax-highlighter/internal/scipdoc"
)

// ErrNoGlobals is returned for a grammar without a globals extractor.
var ErrNoGlobals = errors.New("Failed to get globals")

// visitor records the globals of one language. visit inspects n and returns
// false when its subtree holds no further globals.
type visitor interface {
	visit(w *walker, n *tree_sitter.Node) bool
}

var visitors = map[languages.ParserID]visitor{
	languages.Go:         goVisitor{},
	languages.Python:     pyVisitor{},
	languages.Rust:       rsVisitor{},
	languages.TypeScript: tsVisitor{},
	languages.TSX:        tsVisitor{},
	languages.JavaScript: tsVisitor{},
	languages.C:          cRules,
	languages.Cpp:        cppRules,
	languages.CSharp:     csharpRules,
	languages.Java:       javaRules,
	languages.PHP:        phpRules,
	languages.Ruby:       rubyRules,
}

// GetGlobals parses source with the grammar for id and collects its globals.
func GetGlobals(id languages.ParserID, source []byte) (*Scope, Hint, error) {
	v, ok := visitors[id]
	if !ok {
		return nil, Hint{}, ErrNoGlobals
	}

	lang, err := languages.Grammar(id)
	if err != nil {
		return nil, Hint{}, err
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(lang); err != nil {
		return nil, Hint{}, fmt.Errorf("set language %s: %w", id, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, Hint{}, fmt.Errorf("tree-sitter returned nil tree for %s", id)
	}
	defer tree.Close()

	root := tree.RootNode()
	w := newWalker(source, root)
	w.run(v, root)

	w.hint.Globals = w.root.Len()
	w.hint.Partial = root.HasError()
	return w.root, w.hint, nil
}

// Extractor produces symbol documents. The zero value is ready to use.
type Extractor struct{}

// NewExtractor returns an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract collects the globals of source and returns them as a document.
func (e *Extractor) Extract(id languages.ParserID, source []byte) (*scip.Document, error) {
	scope, hint, err := GetGlobals(id, source)
	if err != nil {
		return nil, err
	}
	doc := scope.IntoDocument(hint, nil)
	doc.Language = string(id)
	return doc, nil
}

// ---------------------------------------------------------------------------
// walker
// ---------------------------------------------------------------------------

type openScope struct {
	end   uint
	scope *Scope
}

// walker drives a visitor over the tree without recursion and tracks the
// scope that encloses the current node.
type walker struct {
	source []byte
	root   *Scope
	stack  []openScope
	hint   Hint
}

func newWalker(source []byte, root *tree_sitter.Node) *walker {
	s := &Scope{Range: scipdoc.NodeRange(root)}
	return &walker{
		source: source,
		root:   s,
		stack:  []openScope{{end: root.EndByte(), scope: s}},
	}
}

func (w *walker) run(v visitor, root *tree_sitter.Node) {
	cursor := root.Walk()
	defer cursor.Close()

	for {
		node := cursor.Node()
		w.leave(node)

		// Error nodes are recorded and searched for recovered declarations.
		descend := true
		if node.IsError() || node.IsMissing() {
			w.hint.Errors = append(w.hint.Errors, scipdoc.NodeRange(node))
		} else {
			descend = v.visit(w, node)
		}

		if descend && cursor.GotoFirstChild() {
			continue
		}
		for !cursor.GotoNextSibling() {
			if !cursor.GotoParent() {
				return
			}
		}
	}
}

// leave pops scopes whose owning node ends at or before n starts.
func (w *walker) leave(n *tree_sitter.Node) {
	start := n.StartByte()
	for len(w.stack) > 1 && start >= w.stack[len(w.stack)-1].end {
		w.stack = w.stack[:len(w.stack)-1]
	}
}

// current is the innermost open scope.
func (w *walker) current() *Scope {
	return w.stack[len(w.stack)-1].scope
}

// enter makes s the current scope until the walk passes owner.
func (w *walker) enter(owner *tree_sitter.Node, s *Scope) {
	if len(w.stack) >= maxScopeDepth {
		return
	}
	w.stack = append(w.stack, openScope{end: owner.EndByte(), scope: s})
}

func (w *walker) text(n *tree_sitter.Node) string {
	return n.Utf8Text(w.source)
}

// define records a global named by the text of name in scope s.
func (w *walker) define(s *Scope, name, owner *tree_sitter.Node, suffix scip.Descriptor_Suffix, kind scip.SymbolInformation_Kind) *Global {
	text := w.text(name)
	if text == "" {
		return nil
	}
	g := &Global{
		Name:           text,
		Suffix:         suffix,
		Kind:           kind,
		Range:          scipdoc.NodeRange(name),
		EnclosingRange: scipdoc.NodeRange(owner),
	}
	s.Globals = append(s.Globals, g)
	return g
}

// declare records a global in the current scope and returns the nested scope
// that holds its members.
func (w *walker) declare(name, owner *tree_sitter.Node, suffix scip.Descriptor_Suffix, kind scip.SymbolInformation_Kind) *Scope {
	cur := w.current()
	g := w.define(cur, name, owner, suffix, kind)
	if g == nil {
		return cur
	}
	return cur.child(g.Name, suffix, g.EnclosingRange)
}

// defineScope is declare followed by entering the member scope for the rest
// of owner.
func (w *walker) defineScope(name, owner *tree_sitter.Node, suffix scip.Descriptor_Suffix, kind scip.SymbolInformation_Kind) *Scope {
	s := w.declare(name, owner, suffix, kind)
	if s != w.current() {
		w.enter(owner, s)
	}
	return s
}

// inType reports whether the current scope belongs to a type.
func (w *walker) inType() bool {
	return len(w.stack) > 1 && w.current().Suffix == scip.Descriptor_Type
}

// functionKind is Method inside a type and Function elsewhere.
func (w *walker) functionKind() scip.SymbolInformation_Kind {
	if w.inType() {
		return scip.SymbolInformation_Method
	}
	return scip.SymbolInformation_Function
}

// namedChildren returns the named children of n with the given kind.
func namedChildren(n *tree_sitter.Node, kind string) []*tree_sitter.Node {
	var out []*tree_sitter.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c != nil && c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}
