// Package scipdoc holds the wire encoding shared by every backend that
// produces SCIP documents: protobuf bytes wrapped in standard base64.
package scipdoc

import (
	"encoding/base64"
	"fmt"

	"github.com/sourcegraph/scip/bindings/go/scip"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	"google.golang.org/protobuf/proto"
)

// Encode serializes doc and returns it as transport-safe text.
func Encode(doc *scip.Document) (string, error) {
	raw, err := proto.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal scip document: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Decode reverses Encode.
func Decode(encoded string) (*scip.Document, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode base64 document: %w", err)
	}
	var doc scip.Document
	if err := proto.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal scip document: %w", err)
	}
	return &doc, nil
}

// Range builds a SCIP range. Single-line ranges use the three element form.
func Range(startLine, startChar, endLine, endChar int) []int32 {
	return scip.Range{
		Start: scip.Position{Line: int32(startLine), Character: int32(startChar)},
		End:   scip.Position{Line: int32(endLine), Character: int32(endChar)},
	}.SCIPRange()
}

// NodeRange converts a tree-sitter node span to a SCIP range. Columns are
// byte offsets within the line.
func NodeRange(n *tree_sitter.Node) []int32 {
	start, end := n.StartPosition(), n.EndPosition()
	return Range(int(start.Row), int(start.Column), int(end.Row), int(end.Column))
}
