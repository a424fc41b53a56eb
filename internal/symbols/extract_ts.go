package symbols

import (
	"github.com/sourcegraph/scip/bindings/go/scip"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// tsVisitor serves TypeScript, TSX and JavaScript, whose grammars share node
// kinds for declarations.
type tsVisitor struct{}

func (tsVisitor) visit(w *walker, n *tree_sitter.Node) bool {
	name := n.ChildByFieldName("name")

	switch n.Kind() {
	case "program", "export_statement", "ambient_declaration", "statement_block",
		"expression_statement", "class_body", "interface_body", "object_type", "enum_body":
		return true

	case "function_declaration", "generator_function_declaration", "function_signature":
		if name != nil {
			w.define(w.current(), name, n, scip.Descriptor_Method, scip.SymbolInformation_Function)
		}

	case "class_declaration", "abstract_class_declaration":
		if name != nil {
			w.defineScope(name, n, scip.Descriptor_Type, scip.SymbolInformation_Class)
			return true
		}

	case "interface_declaration":
		if name != nil {
			w.defineScope(name, n, scip.Descriptor_Type, scip.SymbolInformation_Interface)
			return true
		}

	case "enum_declaration":
		if name != nil {
			w.defineScope(name, n, scip.Descriptor_Type, scip.SymbolInformation_Enum)
			return true
		}

	case "type_alias_declaration":
		if name != nil {
			w.define(w.current(), name, n, scip.Descriptor_Type, scip.SymbolInformation_TypeAlias)
		}

	case "internal_module", "module":
		if name != nil {
			w.defineScope(name, n, scip.Descriptor_Namespace, scip.SymbolInformation_Namespace)
			return true
		}

	case "method_definition", "method_signature", "abstract_method_signature":
		if name != nil {
			w.define(w.current(), name, n, scip.Descriptor_Method, scip.SymbolInformation_Method)
		}

	case "public_field_definition", "field_definition", "property_signature":
		if name == nil {
			name = n.ChildByFieldName("property")
		}
		if name != nil {
			w.define(w.current(), name, n, scip.Descriptor_Term, scip.SymbolInformation_Field)
		}

	case "lexical_declaration", "variable_declaration":
		kind := scip.SymbolInformation_Variable
		if k := n.ChildByFieldName("kind"); k != nil && w.text(k) == "const" {
			kind = scip.SymbolInformation_Constant
		}
		for _, decl := range namedChildren(n, "variable_declarator") {
			if vname := decl.ChildByFieldName("name"); vname != nil && vname.Kind() == "identifier" {
				w.define(w.current(), vname, decl, scip.Descriptor_Term, kind)
			}
		}

	case "enum_assignment":
		if name != nil {
			w.define(w.current(), name, n, scip.Descriptor_Term, scip.SymbolInformation_EnumMember)
		}

	case "property_identifier":
		if p := n.Parent(); p != nil && p.Kind() == "enum_body" {
			w.define(w.current(), n, n, scip.Descriptor_Term, scip.SymbolInformation_EnumMember)
		}
	}
	return false
}
