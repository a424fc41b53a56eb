// Package symbols extracts the global definitions of a source file into a
// tree of scopes and converts them into a SCIP document.
package symbols

import (
	"github.com/sourcegraph/scip/bindings/go/scip"
)

// maxScopeDepth bounds scope nesting. Definitions nested deeper are attached
// to the deepest permitted scope.
const maxScopeDepth = 128

// Global is one definition visible outside the body that declares it.
type Global struct {
	Name           string
	Suffix         scip.Descriptor_Suffix
	Kind           scip.SymbolInformation_Kind
	Range          []int32
	EnclosingRange []int32
}

// Scope groups the globals declared inside one named container such as a
// package, class or module. The root scope of a file has no name unless the
// language declares one (a Go package clause).
type Scope struct {
	Name     string
	Suffix   scip.Descriptor_Suffix
	Range    []int32
	Globals  []*Global
	Children []*Scope
}

// Hint describes how the scope tree was produced.
type Hint struct {
	// Globals counts the definitions in the tree.
	Globals int
	// Partial is set when the parser recovered from syntax errors.
	Partial bool
	// Errors holds the ranges of the syntax errors that were encountered
	// outside skipped bodies.
	Errors [][]int32
}

// child returns the nested scope with the given descriptor, creating it when
// absent. A scope created here adopts rng if it has none yet.
func (s *Scope) child(name string, suffix scip.Descriptor_Suffix, rng []int32) *Scope {
	for _, c := range s.Children {
		if c.Name == name && c.Suffix == suffix {
			if c.Range == nil {
				c.Range = rng
			}
			return c
		}
	}
	c := &Scope{Name: name, Suffix: suffix, Range: rng}
	s.Children = append(s.Children, c)
	return c
}

// Len counts the globals in s and every nested scope.
func (s *Scope) Len() int {
	n := 0
	stack := []*Scope{s}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n += len(cur.Globals)
		stack = append(stack, cur.Children...)
	}
	return n
}
