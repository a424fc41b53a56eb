package highlight

import (
	"github.com/sourcegraph/scip/bindings/go/scip"

	"github.com/dusk-indust/syntax-highlighter/internal/languages"
	"github.com/dusk-indust/syntax-highlighter/internal/scipdoc"
)

// Scip highlights q.Code into an encoded SCIP document of syntax occurrences.
// An empty engine means tree-sitter.
func (e *Engine) Scip(q ScipQuery) (*DocumentResult, error) {
	switch q.Engine {
	case "", EngineTreeSitter:
		return e.treeSitterDocument(q)
	case EngineSyntect:
		return e.chromaDocument(q)
	}
	return nil, errorf(CodeInvalidEngine, "unknown syntax engine %q", q.Engine)
}

// Lsif is the tree-sitter path of Scip for the older query shape.
func (e *Engine) Lsif(q Query) (*DocumentResult, error) {
	return e.Scip(ScipQuery{
		Engine:          EngineTreeSitter,
		Code:            q.Code,
		Filepath:        q.Filepath,
		Filetype:        q.Filetype,
		Extension:       q.Extension,
		LineLengthLimit: q.LineLengthLimit,
	})
}

func (e *Engine) treeSitterDocument(q ScipQuery) (*DocumentResult, error) {
	id, ok := parserFor(q.Filetype, q.Filepath, q.Extension)
	if !ok {
		return nil, errorf(CodeInvalidFiletype, "no tree-sitter grammar for %s", describeHint(q.Filetype, q.Filepath, q.Extension))
	}

	if exceedsLineLimit(q.Code, q.LineLengthLimit) {
		return encodeDocument(documentFor(string(id), q.Filepath, nil), true)
	}

	occs, err := treeSitterOccurrences(id, []byte(q.Code))
	if err != nil {
		return nil, err
	}
	return encodeDocument(documentFor(string(id), q.Filepath, occs), false)
}

func (e *Engine) chromaDocument(q ScipQuery) (*DocumentResult, error) {
	lexer, matched := chromaLexer(q.Filetype, q.Filepath, q.Extension)
	lang := lexer.Config().Name
	if !matched || exceedsLineLimit(q.Code, q.LineLengthLimit) {
		return encodeDocument(documentFor(lang, q.Filepath, nil), true)
	}

	occs, err := chromaOccurrences(lexer, q.Code)
	if err != nil {
		return nil, errorf(CodeParseFailed, "tokenise %s: %s", lang, err)
	}
	return encodeDocument(documentFor(lang, q.Filepath, occs), false)
}

// parserFor resolves the grammar from the filetype name, then the path, then
// the bare extension.
func parserFor(filetype, filepath, extension string) (languages.ParserID, bool) {
	if filetype != "" {
		if id, ok := languages.FromName(filetype); ok {
			return id, true
		}
	}
	if filepath != "" {
		if id, err := languages.ResolvePath(filepath); err == nil {
			return id, true
		}
	}
	if extension != "" {
		return languages.FromFileExtension(trimDot(extension))
	}
	return "", false
}

func trimDot(ext string) string {
	if len(ext) > 0 && ext[0] == '.' {
		return ext[1:]
	}
	return ext
}

func encodeDocument(doc *scip.Document, plaintext bool) (*DocumentResult, error) {
	encoded, err := scipdoc.Encode(doc)
	if err != nil {
		return nil, errorf(CodeEncodeFailed, "encode document: %s", err)
	}
	return &DocumentResult{Encoded: encoded, Plaintext: plaintext}, nil
}
