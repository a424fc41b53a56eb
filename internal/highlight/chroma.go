package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/sourcegraph/scip/bindings/go/scip"

	"github.com/dusk-indust/syntax-highlighter/internal/scipdoc"
)

// chromaLexer picks a regex lexer from the filetype, then the file path, then
// the bare extension. The second result is false when nothing matched and the
// plaintext lexer was substituted.
func chromaLexer(filetype, filepath, extension string) (chroma.Lexer, bool) {
	var lexer chroma.Lexer
	if filetype != "" {
		lexer = lexers.Get(filetype)
	}
	if lexer == nil && filepath != "" {
		lexer = lexers.Match(filepath)
	}
	if lexer == nil && extension != "" {
		lexer = lexers.Get(strings.TrimPrefix(extension, "."))
	}
	if lexer == nil {
		return chroma.Coalesce(lexers.Fallback), false
	}
	return chroma.Coalesce(lexer), true
}

// chromaOccurrences converts a regex lexer token stream into SCIP
// occurrences. Tokens spanning several lines are split per line.
func chromaOccurrences(lexer chroma.Lexer, code string) ([]*scip.Occurrence, error) {
	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return nil, err
	}

	var occs []*scip.Occurrence
	line, col := 0, 0
	for _, tok := range it.Tokens() {
		kind := chromaSyntaxKind(tok.Type)
		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				line++
				col = 0
			}
			if part != "" && kind != scip.SyntaxKind_UnspecifiedSyntaxKind {
				occs = append(occs, &scip.Occurrence{
					Range:      scipdoc.Range(line, col, line, col+len(part)),
					SyntaxKind: kind,
				})
			}
			col += len(part)
		}
	}
	return occs, nil
}

func chromaSyntaxKind(tt chroma.TokenType) scip.SyntaxKind {
	switch tt {
	case chroma.KeywordType:
		return scip.SyntaxKind_IdentifierBuiltinType
	case chroma.KeywordConstant:
		return scip.SyntaxKind_IdentifierConstant
	case chroma.NameBuiltin, chroma.NameBuiltinPseudo:
		return scip.SyntaxKind_IdentifierBuiltin
	case chroma.NameFunction, chroma.NameFunctionMagic:
		return scip.SyntaxKind_IdentifierFunction
	case chroma.NameClass, chroma.NameException:
		return scip.SyntaxKind_IdentifierType
	case chroma.NameNamespace:
		return scip.SyntaxKind_IdentifierNamespace
	case chroma.NameConstant:
		return scip.SyntaxKind_IdentifierConstant
	case chroma.NameAttribute, chroma.NameDecorator:
		return scip.SyntaxKind_IdentifierAttribute
	case chroma.NameTag:
		return scip.SyntaxKind_Tag
	case chroma.LiteralStringEscape:
		return scip.SyntaxKind_StringLiteralEscape
	case chroma.LiteralStringChar:
		return scip.SyntaxKind_CharacterLiteral
	case chroma.LiteralStringRegex:
		return scip.SyntaxKind_RegexDelimiter
	}

	switch {
	case tt.InCategory(chroma.Comment):
		return scip.SyntaxKind_Comment
	case tt.InCategory(chroma.Keyword):
		return scip.SyntaxKind_Keyword
	case tt.InSubCategory(chroma.LiteralString):
		return scip.SyntaxKind_StringLiteral
	case tt.InSubCategory(chroma.LiteralNumber):
		return scip.SyntaxKind_NumericLiteral
	case tt.InCategory(chroma.Operator):
		return scip.SyntaxKind_IdentifierOperator
	case tt.InCategory(chroma.Punctuation):
		return scip.SyntaxKind_PunctuationDelimiter
	case tt.InCategory(chroma.Name):
		return scip.SyntaxKind_Identifier
	}
	return scip.SyntaxKind_UnspecifiedSyntaxKind
}
