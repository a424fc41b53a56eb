package symbols

import (
	"github.com/sourcegraph/scip/bindings/go/scip"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// goVisitor collects package-level declarations. Methods are attached to the
// scope of their receiver type.
type goVisitor struct{}

func (goVisitor) visit(w *walker, n *tree_sitter.Node) bool {
	switch n.Kind() {
	case "source_file":
		return true

	case "package_clause":
		for i := uint(0); i < n.NamedChildCount(); i++ {
			if c := n.NamedChild(i); c != nil && c.Kind() == "package_identifier" {
				w.root.Name = w.text(c)
				w.root.Suffix = scip.Descriptor_Namespace
			}
		}

	case "function_declaration":
		if name := n.ChildByFieldName("name"); name != nil {
			w.define(w.current(), name, n, scip.Descriptor_Method, scip.SymbolInformation_Function)
		}

	case "method_declaration":
		name := n.ChildByFieldName("name")
		if name == nil {
			return false
		}
		s := w.current()
		if recv := goReceiverType(w, n); recv != "" {
			s = s.child(recv, scip.Descriptor_Type, nil)
		}
		w.define(s, name, n, scip.Descriptor_Method, scip.SymbolInformation_Method)

	case "type_declaration":
		for i := uint(0); i < n.NamedChildCount(); i++ {
			c := n.NamedChild(i)
			if c != nil && (c.Kind() == "type_spec" || c.Kind() == "type_alias") {
				goTypeSpec(w, c)
			}
		}

	case "const_declaration":
		for _, spec := range goSpecs(n, "const_spec") {
			goValueSpec(w, spec, scip.SymbolInformation_Constant)
		}

	case "var_declaration":
		for _, spec := range goSpecs(n, "var_spec") {
			goValueSpec(w, spec, scip.SymbolInformation_Variable)
		}
	}
	return false
}

func goTypeSpec(w *walker, spec *tree_sitter.Node) {
	name := spec.ChildByFieldName("name")
	if name == nil {
		return
	}

	kind := scip.SymbolInformation_Type
	typ := spec.ChildByFieldName("type")
	if spec.Kind() == "type_alias" {
		kind = scip.SymbolInformation_TypeAlias
	} else if typ != nil {
		switch typ.Kind() {
		case "struct_type":
			kind = scip.SymbolInformation_Struct
		case "interface_type":
			kind = scip.SymbolInformation_Interface
		}
	}

	s := w.declare(name, spec, scip.Descriptor_Type, kind)
	if typ == nil {
		return
	}

	switch typ.Kind() {
	case "struct_type":
		for _, list := range namedChildren(typ, "field_declaration_list") {
			for _, field := range namedChildren(list, "field_declaration") {
				goFieldNames(w, s, field)
			}
		}
	case "interface_type":
		elems := append(namedChildren(typ, "method_elem"), namedChildren(typ, "method_spec")...)
		for _, elem := range elems {
			if mname := elem.ChildByFieldName("name"); mname != nil {
				w.define(s, mname, elem, scip.Descriptor_Method, scip.SymbolInformation_Method)
			}
		}
	}
}

// goFieldNames defines each named field of a struct field declaration.
// Embedded fields have no name and are skipped.
func goFieldNames(w *walker, s *Scope, field *tree_sitter.Node) {
	cursor := field.Walk()
	defer cursor.Close()
	for _, name := range field.ChildrenByFieldName("name", cursor) {
		w.define(s, &name, field, scip.Descriptor_Term, scip.SymbolInformation_Field)
	}
}

func goValueSpec(w *walker, spec *tree_sitter.Node, kind scip.SymbolInformation_Kind) {
	cursor := spec.Walk()
	defer cursor.Close()
	for _, name := range spec.ChildrenByFieldName("name", cursor) {
		if w.text(&name) == "_" {
			continue
		}
		w.define(w.current(), &name, spec, scip.Descriptor_Term, kind)
	}
}

// goSpecs returns the specs of a const or var declaration, looking through
// parenthesized spec lists.
func goSpecs(decl *tree_sitter.Node, kind string) []*tree_sitter.Node {
	specs := namedChildren(decl, kind)
	for _, list := range namedChildren(decl, kind+"_list") {
		specs = append(specs, namedChildren(list, kind)...)
	}
	return specs
}

// goReceiverType returns the base type name of a method receiver, stripping
// pointers and type arguments.
func goReceiverType(w *walker, method *tree_sitter.Node) string {
	recv := method.ChildByFieldName("receiver")
	if recv == nil {
		return ""
	}
	params := namedChildren(recv, "parameter_declaration")
	if len(params) == 0 {
		return ""
	}

	t := params[0].ChildByFieldName("type")
	for t != nil {
		switch t.Kind() {
		case "type_identifier":
			return w.text(t)
		case "pointer_type", "parenthesized_type":
			t = t.NamedChild(0)
		case "generic_type":
			t = t.ChildByFieldName("type")
		default:
			return ""
		}
	}
	return ""
}
