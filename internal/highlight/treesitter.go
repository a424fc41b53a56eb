package highlight

import (
	"fmt"

	"github.com/sourcegraph/scip/bindings/go/scip"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/syntax-highlighter/internal/languages"
	"github.com/dusk-indust/syntax-highlighter/internal/scipdoc"
)

// Node kinds shared across the compiled-in grammars.
var (
	stringKinds = setOf(
		"string", "string_literal", "interpreted_string_literal", "raw_string_literal",
		"template_string", "string_content", "encapsed_string", "heredoc",
		"verbatim_string_literal", "text_block", "concatenated_string",
	)
	numberKinds = setOf(
		"int_literal", "float_literal", "imaginary_literal", "integer_literal",
		"number", "number_literal", "integer", "float", "decimal_integer_literal",
		"decimal_floating_point_literal", "hex_integer_literal", "real_literal",
	)
	charKinds = setOf("rune_literal", "char_literal", "character_literal")
	boolKinds = setOf("true", "false", "boolean", "boolean_literal")
	nullKinds = setOf("nil", "null", "none", "None", "null_literal", "undefined")

	builtinTypeKinds = setOf(
		"primitive_type", "predefined_type", "integral_type", "floating_point_type",
		"void_type", "boolean_type", "sized_type_specifier",
	)
	namespaceKinds = setOf("package_identifier", "namespace_identifier", "namespace_name")

	definitionParents = setOf(
		"function_declaration", "method_declaration", "function_definition",
		"function_item", "method_definition", "method", "singleton_method",
		"function_signature_item", "method_elem", "function_signature",
		"constructor_declaration", "local_function_statement",
	)
	callParents      = setOf("call_expression", "call", "invocation_expression", "method_invocation", "function_call_expression")
	parameterParents = setOf(
		"parameter_declaration", "variadic_parameter_declaration", "parameter",
		"formal_parameter", "required_parameter", "optional_parameter",
		"typed_parameter", "default_parameter", "parameters", "simple_parameter",
	)
	identifierKinds = setOf(
		"identifier", "field_identifier", "property_identifier",
		"shorthand_property_identifier", "constant", "name", "variable_name",
	)
	brackets = setOf("(", ")", "[", "]", "{", "}")
)

func setOf(kinds ...string) map[string]bool {
	m := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		m[k] = true
	}
	return m
}

// treeSitterOccurrences parses code with the grammar for id and classifies
// its nodes. The traversal is iterative so deeply nested input cannot exhaust
// the goroutine stack.
func treeSitterOccurrences(id languages.ParserID, code []byte) ([]*scip.Occurrence, error) {
	lang, err := languages.Grammar(id)
	if err != nil {
		return nil, errorf(CodeInvalidFiletype, "%s", err)
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(lang); err != nil {
		return nil, errorf(CodeParseFailed, "set language %s: %s", id, err)
	}

	tree := parser.Parse(code, nil)
	if tree == nil {
		return nil, errorf(CodeParseFailed, "tree-sitter returned no tree for %s", id)
	}
	defer tree.Close()

	cursor := tree.RootNode().Walk()
	defer cursor.Close()

	var occs []*scip.Occurrence
	for {
		node := cursor.Node()
		kind, leaf := classifyNode(node, cursor.FieldName())
		if kind != scip.SyntaxKind_UnspecifiedSyntaxKind && node.EndByte() > node.StartByte() {
			occs = append(occs, &scip.Occurrence{
				Range:      scipdoc.NodeRange(node),
				SyntaxKind: kind,
			})
		}

		if !leaf && cursor.GotoFirstChild() {
			continue
		}
		for !cursor.GotoNextSibling() {
			if !cursor.GotoParent() {
				return occs, nil
			}
		}
	}
}

// classifyNode maps a node to a syntax kind. leaf is true when the node's
// children must not be visited.
func classifyNode(node *tree_sitter.Node, field string) (kind scip.SyntaxKind, leaf bool) {
	k := node.Kind()

	if !node.IsNamed() {
		return classifyToken(k), true
	}

	switch {
	case isComment(k):
		return scip.SyntaxKind_Comment, true
	case stringKinds[k]:
		return scip.SyntaxKind_StringLiteral, true
	case k == "escape_sequence":
		return scip.SyntaxKind_StringLiteralEscape, true
	case numberKinds[k]:
		return scip.SyntaxKind_NumericLiteral, true
	case charKinds[k]:
		return scip.SyntaxKind_CharacterLiteral, true
	case boolKinds[k]:
		return scip.SyntaxKind_BooleanLiteral, true
	case nullKinds[k]:
		return scip.SyntaxKind_IdentifierNull, true
	case k == "type_identifier":
		return scip.SyntaxKind_IdentifierType, true
	case builtinTypeKinds[k]:
		return scip.SyntaxKind_IdentifierBuiltinType, true
	case namespaceKinds[k]:
		return scip.SyntaxKind_IdentifierNamespace, true
	case identifierKinds[k] && node.ChildCount() == 0:
		return classifyIdentifier(node, field), true
	}
	return scip.SyntaxKind_UnspecifiedSyntaxKind, false
}

func classifyIdentifier(node *tree_sitter.Node, field string) scip.SyntaxKind {
	parent := node.Parent()
	if parent == nil {
		return scip.SyntaxKind_Identifier
	}
	pk := parent.Kind()
	switch {
	case field == "name" && definitionParents[pk]:
		return scip.SyntaxKind_IdentifierFunctionDefinition
	case (field == "function" || field == "method" || field == "name") && callParents[pk]:
		return scip.SyntaxKind_IdentifierFunction
	case parameterParents[pk]:
		return scip.SyntaxKind_IdentifierParameter
	case node.Kind() == "constant":
		return scip.SyntaxKind_IdentifierConstant
	}
	return scip.SyntaxKind_Identifier
}

// classifyToken handles anonymous nodes: keywords, operators and punctuation.
func classifyToken(k string) scip.SyntaxKind {
	switch {
	case k == "":
		return scip.SyntaxKind_UnspecifiedSyntaxKind
	case boolKinds[k]:
		return scip.SyntaxKind_BooleanLiteral
	case nullKinds[k]:
		return scip.SyntaxKind_IdentifierNull
	case isWord(k):
		return scip.SyntaxKind_Keyword
	case brackets[k]:
		return scip.SyntaxKind_PunctuationBracket
	case k == "," || k == ";" || k == "." || k == ":" || k == "::":
		return scip.SyntaxKind_PunctuationDelimiter
	case k == `"` || k == "'" || k == "`":
		// Quote tokens belong to the enclosing string literal.
		return scip.SyntaxKind_UnspecifiedSyntaxKind
	}
	return scip.SyntaxKind_IdentifierOperator
}

func isComment(k string) bool {
	return k == "comment" || k == "line_comment" || k == "block_comment" || k == "doc_comment"
}

func isWord(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_') {
			return false
		}
	}
	return true
}

// documentFor wraps occurrences in a document for id.
func documentFor(lang, path string, occs []*scip.Occurrence) *scip.Document {
	return &scip.Document{
		Language:     lang,
		RelativePath: path,
		Occurrences:  occs,
	}
}

func describeHint(filetype, filepath, extension string) string {
	switch {
	case filetype != "":
		return fmt.Sprintf("filetype %q", filetype)
	case filepath != "":
		return fmt.Sprintf("file %q", filepath)
	case extension != "":
		return fmt.Sprintf("extension %q", extension)
	}
	return "empty filetype"
}
