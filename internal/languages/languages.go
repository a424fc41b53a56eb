// Package languages maps file names and filetype hints onto the closed set of
// tree-sitter grammars compiled into the service.
package languages

import (
	"errors"
	"sort"
	"strings"
	"unicode/utf8"
)

// ParserID identifies one compiled-in grammar.
type ParserID string

const (
	C          ParserID = "c"
	Cpp        ParserID = "cpp"
	CSharp     ParserID = "c_sharp"
	Go         ParserID = "go"
	Java       ParserID = "java"
	JavaScript ParserID = "javascript"
	PHP        ParserID = "php"
	Python     ParserID = "python"
	Ruby       ParserID = "ruby"
	Rust       ParserID = "rust"
	TypeScript ParserID = "typescript"
	TSX        ParserID = "tsx"
)

// Resolution errors. The messages are part of the HTTP contract.
var (
	ErrExtensionlessFile        = errors.New("Extensionless file")
	ErrInvalidExtensionEncoding = errors.New("Invalid codepoint")
	ErrUnsupportedExtension     = errors.New("Could not infer parser from extension")
)

// extToParser is matched case-sensitively against the extension without its dot.
var extToParser = map[string]ParserID{
	"c":    C,
	"h":    C,
	"cc":   Cpp,
	"cpp":  Cpp,
	"cxx":  Cpp,
	"hh":   Cpp,
	"hpp":  Cpp,
	"hxx":  Cpp,
	"cs":   CSharp,
	"go":   Go,
	"java": Java,
	"js":   JavaScript,
	"jsx":  JavaScript,
	"mjs":  JavaScript,
	"cjs":  JavaScript,
	"php":  PHP,
	"py":   Python,
	"pyi":  Python,
	"rb":   Ruby,
	"rs":   Rust,
	"ts":   TypeScript,
	"mts":  TypeScript,
	"cts":  TypeScript,
	"tsx":  TSX,
}

// nameToParser holds lower-cased filetype names as sent by highlighting clients.
var nameToParser = map[string]ParserID{
	"c":          C,
	"c++":        Cpp,
	"cpp":        Cpp,
	"c#":         CSharp,
	"c_sharp":    CSharp,
	"csharp":     CSharp,
	"go":         Go,
	"golang":     Go,
	"java":       Java,
	"javascript": JavaScript,
	"js":         JavaScript,
	"jsx":        JavaScript,
	"php":        PHP,
	"python":     Python,
	"ruby":       Ruby,
	"rust":       Rust,
	"typescript": TypeScript,
	"ts":         TypeScript,
	"tsx":        TSX,
}

// Extension returns the text after the final dot of the last path element.
// A name without a dot, or whose only dot is the leading one, has no
// extension. Trailing separators are ignored.
func Extension(path string) (string, bool) {
	base := strings.TrimRight(path, "/")
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if base == "" || base == "." || base == ".." {
		return "", false
	}
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return "", false
	}
	return base[i+1:], true
}

// FromFileExtension looks up ext (without the leading dot).
func FromFileExtension(ext string) (ParserID, bool) {
	id, ok := extToParser[ext]
	return id, ok
}

// FromName looks up a filetype name such as "Go" or "TypeScript".
func FromName(name string) (ParserID, bool) {
	id, ok := nameToParser[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// ResolvePath determines the grammar for a file path from its extension.
func ResolvePath(path string) (ParserID, error) {
	ext, ok := Extension(path)
	if !ok {
		return "", ErrExtensionlessFile
	}
	if !utf8.ValidString(ext) {
		return "", ErrInvalidExtensionEncoding
	}
	id, ok := FromFileExtension(ext)
	if !ok {
		return "", ErrUnsupportedExtension
	}
	return id, nil
}

// Supported returns every ParserID in lexical order.
func Supported() []ParserID {
	return []ParserID{C, Cpp, CSharp, Go, Java, JavaScript, PHP, Python, Ruby, Rust, TSX, TypeScript}
}

// Extensions returns the sorted extensions that resolve to id.
func Extensions(id ParserID) []string {
	var exts []string
	for ext, p := range extToParser {
		if p == id {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}
