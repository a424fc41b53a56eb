package symbols

import (
	"github.com/sourcegraph/scip/bindings/go/scip"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// rule describes how one node kind declares a global.
type rule struct {
	suffix scip.Descriptor_Suffix
	kind   scip.SymbolInformation_Kind
	// member replaces kind when the node appears inside a type.
	member scip.SymbolInformation_Kind
	// scope marks containers whose members are globals too.
	scope bool
	// body names a field that must be present; declarations without it
	// are forward references.
	body string
	// name locates the identifier. nil means the "name" field. The second
	// result reports a function declarator.
	name func(n *tree_sitter.Node) (*tree_sitter.Node, bool)
}

// ruleSet is a table-driven visitor for grammars whose declarations follow a
// uniform shape.
type ruleSet struct {
	rules map[string]rule
	// walk lists container kinds searched for nested declarations.
	walk map[string]bool
}

func (rs ruleSet) visit(w *walker, n *tree_sitter.Node) bool {
	k := n.Kind()
	r, ok := rs.rules[k]
	if !ok {
		return rs.walk[k]
	}
	if r.body != "" && n.ChildByFieldName(r.body) == nil {
		return false
	}

	var name *tree_sitter.Node
	suffix, kind := r.suffix, r.kind
	if r.name != nil {
		var fn bool
		name, fn = r.name(n)
		if fn {
			suffix, kind = scip.Descriptor_Method, scip.SymbolInformation_Function
		}
	} else {
		name = n.ChildByFieldName("name")
	}
	if name == nil {
		return rs.walk[k]
	}
	if w.inType() && r.member != scip.SymbolInformation_UnspecifiedKind {
		kind = r.member
	} else if w.inType() && suffix == scip.Descriptor_Method && kind == scip.SymbolInformation_Function {
		kind = scip.SymbolInformation_Method
	}

	if r.scope {
		w.defineScope(name, n, suffix, kind)
		return true
	}
	w.define(w.current(), name, n, suffix, kind)
	return false
}

func setOf(ks ...string) map[string]bool {
	m := make(map[string]bool, len(ks))
	for _, k := range ks {
		m[k] = true
	}
	return m
}

// ---------------------------------------------------------------------------
// Name locators
// ---------------------------------------------------------------------------

// declaratorName follows the declarator chain of a C-family declaration down
// to its identifier.
func declaratorName(n *tree_sitter.Node) (*tree_sitter.Node, bool) {
	fn := false
	d := n.ChildByFieldName("declarator")
	for d != nil {
		switch d.Kind() {
		case "identifier", "field_identifier", "type_identifier", "destructor_name", "operator_name":
			return d, fn
		case "qualified_identifier":
			if inner := d.ChildByFieldName("name"); inner != nil {
				d = inner
				continue
			}
			return d, fn
		case "function_declarator":
			inner := d.ChildByFieldName("declarator")
			fn = inner != nil && inner.Kind() != "parenthesized_declarator"
			d = inner
		case "parenthesized_declarator":
			d = d.NamedChild(0)
		default:
			d = d.ChildByFieldName("declarator")
		}
	}
	return nil, false
}

// firstDeclaratorName finds the name of the first variable declarator of a
// field declaration.
func firstDeclaratorName(n *tree_sitter.Node) (*tree_sitter.Node, bool) {
	if d := n.ChildByFieldName("declarator"); d != nil {
		return d.ChildByFieldName("name"), false
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c == nil {
			continue
		}
		switch c.Kind() {
		case "variable_declarator":
			if name := c.ChildByFieldName("name"); name != nil {
				return name, false
			}
			return firstNamedOfKind(c, "identifier"), false
		case "variable_declaration":
			return firstDeclaratorName(c)
		}
	}
	return nil, false
}

// childOfKind returns a locator for the first named child of the given kind.
func childOfKind(kind string) func(*tree_sitter.Node) (*tree_sitter.Node, bool) {
	return func(n *tree_sitter.Node) (*tree_sitter.Node, bool) {
		return firstNamedOfKind(n, kind), false
	}
}

// phpPropertyName returns the name inside the variable of a property element.
func phpPropertyName(n *tree_sitter.Node) (*tree_sitter.Node, bool) {
	if v := firstNamedOfKind(n, "variable_name"); v != nil {
		return firstNamedOfKind(v, "name"), false
	}
	return nil, false
}

// rubyConstantAssignment names assignments whose target is a constant.
func rubyConstantAssignment(n *tree_sitter.Node) (*tree_sitter.Node, bool) {
	if left := n.ChildByFieldName("left"); left != nil && left.Kind() == "constant" {
		return left, false
	}
	return nil, false
}

func firstNamedOfKind(n *tree_sitter.Node, kind string) *tree_sitter.Node {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if c := n.NamedChild(i); c != nil && c.Kind() == kind {
			return c
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Tables
// ---------------------------------------------------------------------------

var cRules = ruleSet{
	rules: map[string]rule{
		"function_definition":  {suffix: scip.Descriptor_Method, kind: scip.SymbolInformation_Function, name: declaratorName},
		"struct_specifier":     {suffix: scip.Descriptor_Type, kind: scip.SymbolInformation_Struct, scope: true, body: "body"},
		"union_specifier":      {suffix: scip.Descriptor_Type, kind: scip.SymbolInformation_Union, scope: true, body: "body"},
		"enum_specifier":       {suffix: scip.Descriptor_Type, kind: scip.SymbolInformation_Enum, scope: true, body: "body"},
		"type_definition":      {suffix: scip.Descriptor_Type, kind: scip.SymbolInformation_TypeAlias, name: declaratorName},
		"field_declaration":    {suffix: scip.Descriptor_Term, kind: scip.SymbolInformation_Field, name: declaratorName},
		"enumerator":           {suffix: scip.Descriptor_Term, kind: scip.SymbolInformation_EnumMember},
		"preproc_def":          {suffix: scip.Descriptor_Macro, kind: scip.SymbolInformation_Macro},
		"preproc_function_def": {suffix: scip.Descriptor_Macro, kind: scip.SymbolInformation_Macro},
	},
	walk: setOf(
		"translation_unit", "field_declaration_list", "enumerator_list",
		"preproc_ifdef", "preproc_if", "preproc_else", "preproc_elif",
		"linkage_specification", "declaration_list", "type_definition",
	),
}

var cppRules = ruleSet{
	rules: map[string]rule{
		"function_definition":  {suffix: scip.Descriptor_Method, kind: scip.SymbolInformation_Function, name: declaratorName},
		"class_specifier":      {suffix: scip.Descriptor_Type, kind: scip.SymbolInformation_Class, scope: true, body: "body"},
		"struct_specifier":     {suffix: scip.Descriptor_Type, kind: scip.SymbolInformation_Struct, scope: true, body: "body"},
		"union_specifier":      {suffix: scip.Descriptor_Type, kind: scip.SymbolInformation_Union, scope: true, body: "body"},
		"enum_specifier":       {suffix: scip.Descriptor_Type, kind: scip.SymbolInformation_Enum, scope: true, body: "body"},
		"namespace_definition": {suffix: scip.Descriptor_Namespace, kind: scip.SymbolInformation_Namespace, scope: true},
		"type_definition":      {suffix: scip.Descriptor_Type, kind: scip.SymbolInformation_TypeAlias, name: declaratorName},
		"alias_declaration":    {suffix: scip.Descriptor_Type, kind: scip.SymbolInformation_TypeAlias},
		"field_declaration":    {suffix: scip.Descriptor_Term, kind: scip.SymbolInformation_Field, name: declaratorName},
		"enumerator":           {suffix: scip.Descriptor_Term, kind: scip.SymbolInformation_EnumMember},
		"preproc_def":          {suffix: scip.Descriptor_Macro, kind: scip.SymbolInformation_Macro},
		"preproc_function_def": {suffix: scip.Descriptor_Macro, kind: scip.SymbolInformation_Macro},
	},
	walk: setOf(
		"translation_unit", "field_declaration_list", "enumerator_list",
		"preproc_ifdef", "preproc_if", "preproc_else", "preproc_elif",
		"linkage_specification", "declaration_list", "template_declaration",
		"namespace_definition", "type_definition",
	),
}

var csharpRules = ruleSet{
	rules: map[string]rule{
		"namespace_declaration":             {suffix: scip.Descriptor_Namespace, kind: scip.SymbolInformation_Namespace, scope: true},
		"file_scoped_namespace_declaration": {suffix: scip.Descriptor_Namespace, kind: scip.SymbolInformation_Namespace, scope: true},
		"class_declaration":                 {suffix: scip.Descriptor_Type, kind: scip.SymbolInformation_Class, scope: true},
		"struct_declaration":                {suffix: scip.Descriptor_Type, kind: scip.SymbolInformation_Struct, scope: true},
		"interface_declaration":             {suffix: scip.Descriptor_Type, kind: scip.SymbolInformation_Interface, scope: true},
		"enum_declaration":                  {suffix: scip.Descriptor_Type, kind: scip.SymbolInformation_Enum, scope: true},
		"record_declaration":                {suffix: scip.Descriptor_Type, kind: scip.SymbolInformation_Class, scope: true},
		"method_declaration":                {suffix: scip.Descriptor_Method, kind: scip.SymbolInformation_Method},
		"constructor_declaration":           {suffix: scip.Descriptor_Method, kind: scip.SymbolInformation_Constructor},
		"delegate_declaration":              {suffix: scip.Descriptor_Method, kind: scip.SymbolInformation_Function},
		"property_declaration":              {suffix: scip.Descriptor_Term, kind: scip.SymbolInformation_Property},
		"field_declaration":                 {suffix: scip.Descriptor_Term, kind: scip.SymbolInformation_Field, name: firstDeclaratorName},
		"enum_member_declaration":           {suffix: scip.Descriptor_Term, kind: scip.SymbolInformation_EnumMember},
	},
	walk: setOf("compilation_unit", "declaration_list", "enum_member_declaration_list"),
}

var javaRules = ruleSet{
	rules: map[string]rule{
		"class_declaration":           {suffix: scip.Descriptor_Type, kind: scip.SymbolInformation_Class, scope: true},
		"interface_declaration":       {suffix: scip.Descriptor_Type, kind: scip.SymbolInformation_Interface, scope: true},
		"enum_declaration":            {suffix: scip.Descriptor_Type, kind: scip.SymbolInformation_Enum, scope: true},
		"record_declaration":          {suffix: scip.Descriptor_Type, kind: scip.SymbolInformation_Class, scope: true},
		"annotation_type_declaration": {suffix: scip.Descriptor_Type, kind: scip.SymbolInformation_Interface, scope: true},
		"method_declaration":          {suffix: scip.Descriptor_Method, kind: scip.SymbolInformation_Method},
		"constructor_declaration":     {suffix: scip.Descriptor_Method, kind: scip.SymbolInformation_Constructor},
		"field_declaration":           {suffix: scip.Descriptor_Term, kind: scip.SymbolInformation_Field, name: firstDeclaratorName},
		"constant_declaration":        {suffix: scip.Descriptor_Term, kind: scip.SymbolInformation_Constant, name: firstDeclaratorName},
		"enum_constant":               {suffix: scip.Descriptor_Term, kind: scip.SymbolInformation_EnumMember},
	},
	walk: setOf(
		"program", "class_body", "interface_body", "enum_body",
		"enum_body_declarations", "annotation_type_body",
	),
}

var phpRules = ruleSet{
	rules: map[string]rule{
		"namespace_definition":  {suffix: scip.Descriptor_Namespace, kind: scip.SymbolInformation_Namespace, scope: true},
		"class_declaration":     {suffix: scip.Descriptor_Type, kind: scip.SymbolInformation_Class, scope: true},
		"interface_declaration": {suffix: scip.Descriptor_Type, kind: scip.SymbolInformation_Interface, scope: true},
		"trait_declaration":     {suffix: scip.Descriptor_Type, kind: scip.SymbolInformation_Trait, scope: true},
		"enum_declaration":      {suffix: scip.Descriptor_Type, kind: scip.SymbolInformation_Enum, scope: true},
		"function_definition":   {suffix: scip.Descriptor_Method, kind: scip.SymbolInformation_Function},
		"method_declaration":    {suffix: scip.Descriptor_Method, kind: scip.SymbolInformation_Method},
		"const_element":         {suffix: scip.Descriptor_Term, kind: scip.SymbolInformation_Constant, name: childOfKind("name")},
		"property_element":      {suffix: scip.Descriptor_Term, kind: scip.SymbolInformation_Property, name: phpPropertyName},
		"enum_case":             {suffix: scip.Descriptor_Term, kind: scip.SymbolInformation_EnumMember},
	},
	walk: setOf(
		"program", "declaration_list", "compound_statement", "enum_declaration_list",
		"const_declaration", "property_declaration",
	),
}

var rubyRules = ruleSet{
	rules: map[string]rule{
		"class":            {suffix: scip.Descriptor_Type, kind: scip.SymbolInformation_Class, scope: true},
		"module":           {suffix: scip.Descriptor_Namespace, kind: scip.SymbolInformation_Module, scope: true},
		"method":           {suffix: scip.Descriptor_Method, kind: scip.SymbolInformation_Function, member: scip.SymbolInformation_Method},
		"singleton_method": {suffix: scip.Descriptor_Method, kind: scip.SymbolInformation_Method},
		"assignment":       {suffix: scip.Descriptor_Term, kind: scip.SymbolInformation_Constant, name: rubyConstantAssignment},
	},
	walk: setOf("program", "body_statement"),
}
