package symbols

import (
	"testing"

	"github.com/sourcegraph/scip/bindings/go/scip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSymbol(t *testing.T) {
	tests := []struct {
		name  string
		descs []*scip.Descriptor
		want  string
	}{
		{
			name:  "package function",
			descs: []*scip.Descriptor{{Name: "main", Suffix: scip.Descriptor_Namespace}, {Name: "Foo", Suffix: scip.Descriptor_Method}},
			want:  "scip-ctags . . . main/Foo().",
		},
		{
			name:  "type member",
			descs: []*scip.Descriptor{{Name: "Server", Suffix: scip.Descriptor_Type}, {Name: "Addr", Suffix: scip.Descriptor_Term}},
			want:  "scip-ctags . . . Server#Addr.",
		},
		{
			name:  "macro",
			descs: []*scip.Descriptor{{Name: "token", Suffix: scip.Descriptor_Macro}},
			want:  "scip-ctags . . . token!",
		},
		{
			name:  "escaped name",
			descs: []*scip.Descriptor{{Name: "A::B", Suffix: scip.Descriptor_Type}},
			want:  "scip-ctags . . . `A::B`#",
		},
		{
			name:  "backtick in name",
			descs: []*scip.Descriptor{{Name: "a`b", Suffix: scip.Descriptor_Term}},
			want:  "scip-ctags . . . `a``b`.",
		},
		{
			name:  "unicode letters",
			descs: []*scip.Descriptor{{Name: "größe", Suffix: scip.Descriptor_Term}},
			want:  "scip-ctags . . . größe.",
		},
		{
			name: "parameters",
			descs: []*scip.Descriptor{
				{Name: "Map", Suffix: scip.Descriptor_Method},
				{Name: "T", Suffix: scip.Descriptor_TypeParameter},
				{Name: "fn", Suffix: scip.Descriptor_Parameter},
			},
			want: "scip-ctags . . . Map().[T](fn)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSymbol(tt.descs))
		})
	}
}

func TestIntoDocument(t *testing.T) {
	root := &Scope{Name: "pkg", Suffix: scip.Descriptor_Namespace}
	typ := root.child("T", scip.Descriptor_Type, []int32{2, 0, 4, 1})
	typ.Globals = append(typ.Globals, &Global{
		Name: "M", Suffix: scip.Descriptor_Method, Kind: scip.SymbolInformation_Method,
		Range: []int32{6, 10, 11}, EnclosingRange: []int32{6, 0, 8, 1},
	})
	root.Globals = append(root.Globals,
		&Global{Name: "T", Suffix: scip.Descriptor_Type, Kind: scip.SymbolInformation_Struct, Range: []int32{2, 5, 6}},
		&Global{Name: "F", Suffix: scip.Descriptor_Method, Kind: scip.SymbolInformation_Function, Range: []int32{0, 5, 6}},
	)

	prefix := &scip.Occurrence{Range: []int32{0, 0, 1}, SyntaxKind: scip.SyntaxKind_Keyword}
	hint := Hint{Globals: root.Len(), Errors: [][]int32{{9, 0, 3}}}
	doc := root.IntoDocument(hint, []*scip.Occurrence{prefix})

	require.Len(t, doc.Occurrences, 5)
	assert.Same(t, prefix, doc.Occurrences[0], "given occurrences come first")

	// Definitions are ordered by position.
	assert.Equal(t, "scip-ctags . . . pkg/F().", doc.Occurrences[1].Symbol)
	assert.Equal(t, "scip-ctags . . . pkg/T#", doc.Occurrences[2].Symbol)
	assert.Equal(t, "scip-ctags . . . pkg/T#M().", doc.Occurrences[3].Symbol)
	for _, occ := range doc.Occurrences[1:4] {
		assert.Equal(t, int32(scip.SymbolRole_Definition), occ.SymbolRoles)
	}
	assert.Equal(t, []int32{6, 0, 8, 1}, doc.Occurrences[3].EnclosingRange)

	diag := doc.Occurrences[4]
	assert.Empty(t, diag.Symbol)
	require.Len(t, diag.Diagnostics, 1)
	assert.Equal(t, scip.Severity_Warning, diag.Diagnostics[0].Severity)

	require.Len(t, doc.Symbols, 3)
	kinds := map[string]scip.SymbolInformation_Kind{}
	for _, info := range doc.Symbols {
		kinds[info.Symbol] = info.Kind
		assert.NotEmpty(t, info.DisplayName)
	}
	assert.Equal(t, scip.SymbolInformation_Struct, kinds["scip-ctags . . . pkg/T#"])
	assert.Equal(t, scip.SymbolInformation_Method, kinds["scip-ctags . . . pkg/T#M()."])
}

func TestIntoDocument_UnnamedRoot(t *testing.T) {
	root := &Scope{}
	root.Globals = append(root.Globals, &Global{Name: "x", Suffix: scip.Descriptor_Term, Range: []int32{0, 0, 1}})

	doc := root.IntoDocument(Hint{Globals: 1}, nil)
	require.Len(t, doc.Occurrences, 1)
	assert.Equal(t, "scip-ctags . . . x.", doc.Occurrences[0].Symbol)
}

func TestScope_ChildReusesExisting(t *testing.T) {
	root := &Scope{}
	a := root.child("T", scip.Descriptor_Type, nil)
	b := root.child("T", scip.Descriptor_Type, []int32{1, 0, 2})
	c := root.child("T", scip.Descriptor_Namespace, nil)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, []int32{1, 0, 2}, a.Range, "range adopted on reuse")
	assert.Len(t, root.Children, 2)
}

func TestIntoDocument_RepeatedSymbol(t *testing.T) {
	root := &Scope{Name: "main", Suffix: scip.Descriptor_Namespace}
	root.Globals = append(root.Globals,
		&Global{Name: "init", Suffix: scip.Descriptor_Method, Kind: scip.SymbolInformation_Function, Range: []int32{2, 5, 9}},
		&Global{Name: "init", Suffix: scip.Descriptor_Method, Kind: scip.SymbolInformation_Function, Range: []int32{6, 5, 9}},
	)

	doc := root.IntoDocument(Hint{Globals: root.Len()}, nil)

	require.Len(t, doc.Occurrences, 2, "every definition keeps its occurrence")
	assert.Equal(t, []int32{2, 5, 9}, doc.Occurrences[0].Range)
	assert.Equal(t, []int32{6, 5, 9}, doc.Occurrences[1].Range)
	require.Len(t, doc.Symbols, 1)
	assert.Equal(t, "scip-ctags . . . main/init().", doc.Symbols[0].Symbol)
}
