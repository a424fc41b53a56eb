package symbols

import (
	"github.com/sourcegraph/scip/bindings/go/scip"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// rsVisitor collects items. Functions inside impl and trait blocks are
// attached to the scope of the implementing type.
type rsVisitor struct{}

func (rsVisitor) visit(w *walker, n *tree_sitter.Node) bool {
	name := n.ChildByFieldName("name")

	switch n.Kind() {
	case "source_file", "declaration_list":
		return true

	case "function_item", "function_signature_item":
		if name != nil {
			w.define(w.current(), name, n, scip.Descriptor_Method, w.functionKind())
		}

	case "struct_item", "union_item":
		if name == nil {
			return false
		}
		s := w.declare(name, n, scip.Descriptor_Type, scip.SymbolInformation_Struct)
		if body := n.ChildByFieldName("body"); body != nil {
			for _, field := range namedChildren(body, "field_declaration") {
				if fname := field.ChildByFieldName("name"); fname != nil {
					w.define(s, fname, field, scip.Descriptor_Term, scip.SymbolInformation_Field)
				}
			}
		}

	case "enum_item":
		if name == nil {
			return false
		}
		s := w.declare(name, n, scip.Descriptor_Type, scip.SymbolInformation_Enum)
		if body := n.ChildByFieldName("body"); body != nil {
			for _, variant := range namedChildren(body, "enum_variant") {
				if vname := variant.ChildByFieldName("name"); vname != nil {
					w.define(s, vname, variant, scip.Descriptor_Term, scip.SymbolInformation_EnumMember)
				}
			}
		}

	case "trait_item":
		if name != nil {
			w.defineScope(name, n, scip.Descriptor_Type, scip.SymbolInformation_Trait)
			return true
		}

	case "impl_item":
		typeName := rsTypeName(w, n.ChildByFieldName("type"))
		if typeName == "" {
			return false
		}
		w.enter(n, w.current().child(typeName, scip.Descriptor_Type, nil))
		return true

	case "mod_item":
		if name == nil {
			return false
		}
		if n.ChildByFieldName("body") == nil {
			w.define(w.current(), name, n, scip.Descriptor_Namespace, scip.SymbolInformation_Module)
			return false
		}
		w.defineScope(name, n, scip.Descriptor_Namespace, scip.SymbolInformation_Module)
		return true

	case "type_item":
		if name != nil {
			w.define(w.current(), name, n, scip.Descriptor_Type, scip.SymbolInformation_TypeAlias)
		}

	case "const_item":
		if name != nil {
			w.define(w.current(), name, n, scip.Descriptor_Term, scip.SymbolInformation_Constant)
		}

	case "static_item":
		if name != nil {
			w.define(w.current(), name, n, scip.Descriptor_Term, scip.SymbolInformation_Variable)
		}

	case "macro_definition":
		if name != nil {
			w.define(w.current(), name, n, scip.Descriptor_Macro, scip.SymbolInformation_Macro)
		}
	}
	return false
}

// rsTypeName returns the last path segment of an impl target, without
// generic arguments.
func rsTypeName(w *walker, t *tree_sitter.Node) string {
	for t != nil {
		switch t.Kind() {
		case "type_identifier", "primitive_type":
			return w.text(t)
		case "generic_type":
			t = t.ChildByFieldName("type")
		case "scoped_type_identifier":
			t = t.ChildByFieldName("name")
		case "reference_type":
			t = t.ChildByFieldName("type")
		default:
			return ""
		}
	}
	return ""
}
