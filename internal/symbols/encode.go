package symbols

import (
	"github.com/sourcegraph/scip/bindings/go/scip"
)

// Scheme prefixes every symbol emitted for file-local globals. Package
// manager, name and version are left empty.
const Scheme = "scip-ctags"

// IntoDocument flattens the scope tree into a SCIP document holding one
// definition occurrence per global and one SymbolInformation per distinct
// symbol. occs are
// prepended unchanged. Syntax errors recorded in hint become diagnostic
// occurrences.
func (s *Scope) IntoDocument(hint Hint, occs []*scip.Occurrence) *scip.Document {
	doc := &scip.Document{
		Occurrences: make([]*scip.Occurrence, 0, len(occs)+hint.Globals+len(hint.Errors)),
		Symbols:     make([]*scip.SymbolInformation, 0, hint.Globals),
	}
	doc.Occurrences = append(doc.Occurrences, occs...)

	type frame struct {
		scope *Scope
		path  []*scip.Descriptor
	}
	var root []*scip.Descriptor
	if s.Name != "" {
		root = []*scip.Descriptor{{Name: s.Name, Suffix: s.Suffix}}
	}

	var defs []*scip.Occurrence
	seen := make(map[string]bool, hint.Globals)
	stack := []frame{{scope: s, path: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, g := range f.scope.Globals {
			symbol := FormatSymbol(appendDescriptor(f.path, g.Name, g.Suffix))
			defs = append(defs, &scip.Occurrence{
				Range:          g.Range,
				Symbol:         symbol,
				SymbolRoles:    int32(scip.SymbolRole_Definition),
				EnclosingRange: g.EnclosingRange,
			})
			if seen[symbol] {
				continue
			}
			seen[symbol] = true
			doc.Symbols = append(doc.Symbols, &scip.SymbolInformation{
				Symbol:      symbol,
				Kind:        g.Kind,
				DisplayName: g.Name,
			})
		}
		for i := len(f.scope.Children) - 1; i >= 0; i-- {
			c := f.scope.Children[i]
			stack = append(stack, frame{scope: c, path: appendDescriptor(f.path, c.Name, c.Suffix)})
		}
	}

	doc.Occurrences = append(doc.Occurrences, scip.SortOccurrences(defs)...)

	for _, rng := range hint.Errors {
		doc.Occurrences = append(doc.Occurrences, &scip.Occurrence{
			Range: rng,
			Diagnostics: []*scip.Diagnostic{{
				Severity: scip.Severity_Warning,
				Message:  "syntax error",
				Source:   "tree-sitter",
			}},
		})
	}
	return doc
}

func appendDescriptor(path []*scip.Descriptor, name string, suffix scip.Descriptor_Suffix) []*scip.Descriptor {
	out := make([]*scip.Descriptor, len(path), len(path)+1)
	copy(out, path)
	return append(out, &scip.Descriptor{Name: name, Suffix: suffix})
}

// FormatSymbol renders descriptors as a local-package SCIP symbol, for
// example "scip-ctags . . . main/Server#Start().".
func FormatSymbol(descriptors []*scip.Descriptor) string {
	return scip.VerboseSymbolFormatter.FormatSymbol(&scip.Symbol{
		Scheme:      Scheme,
		Package:     &scip.Package{},
		Descriptors: descriptors,
	})
}
