package symbols

import (
	"github.com/sourcegraph/scip/bindings/go/scip"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// pyVisitor collects module-level functions, classes and assignments, and the
// members declared directly in class bodies. Function bodies are skipped.
type pyVisitor struct{}

func (pyVisitor) visit(w *walker, n *tree_sitter.Node) bool {
	switch n.Kind() {
	case "module", "block", "decorated_definition", "expression_statement",
		"if_statement", "elif_clause", "else_clause", "try_statement",
		"except_clause", "finally_clause", "with_statement":
		return true

	case "class_definition":
		if name := n.ChildByFieldName("name"); name != nil {
			w.defineScope(name, n, scip.Descriptor_Type, scip.SymbolInformation_Class)
			return true
		}

	case "function_definition":
		if name := n.ChildByFieldName("name"); name != nil {
			w.define(w.current(), name, pyOwner(n), scip.Descriptor_Method, w.functionKind())
		}

	case "assignment":
		left := n.ChildByFieldName("left")
		if left == nil || left.Kind() != "identifier" {
			return false
		}
		kind := scip.SymbolInformation_Variable
		if w.inType() {
			kind = scip.SymbolInformation_Field
		}
		w.define(w.current(), left, n, scip.Descriptor_Term, kind)
	}
	return false
}

// pyOwner widens a decorated function to include its decorators.
func pyOwner(n *tree_sitter.Node) *tree_sitter.Node {
	if p := n.Parent(); p != nil && p.Kind() == "decorated_definition" {
		return p
	}
	return n
}
