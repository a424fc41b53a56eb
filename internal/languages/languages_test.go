package languages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"main.go", "go", true},
		{"cmd/server/main.go", "go", true},
		{"archive.tar.gz", "gz", true},
		{"dir.d/Makefile", "", false},
		{"Makefile", "", false},
		{".bashrc", "", false},
		{"src/.eslintrc", "", false},
		{"trailing.", "", true},
		{"", "", false},
		{"dir/", "", false},
		{"dir/main.go/", "go", true},
		{"main.go//", "go", true},
		{"/", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := Extension(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePath_AllExtensions(t *testing.T) {
	for ext, want := range extToParser {
		got, err := ResolvePath("some/dir/file." + ext)
		require.NoError(t, err, "extension %q", ext)
		assert.Equal(t, want, got, "extension %q", ext)
	}
}

func TestResolvePath_TrailingSeparator(t *testing.T) {
	id, err := ResolvePath("dir/main.go/")
	require.NoError(t, err)
	assert.Equal(t, Go, id)
}

func TestResolvePath_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"no extension", "Makefile", ErrExtensionlessFile},
		{"dotfile", ".gitignore", ErrExtensionlessFile},
		{"unknown extension", "file.unknownext", ErrUnsupportedExtension},
		{"empty extension", "file.", ErrUnsupportedExtension},
		{"case sensitive", "Main.GO", ErrUnsupportedExtension},
		{"invalid utf8", "file.\xff\xfe", ErrInvalidExtensionEncoding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolvePath(tt.path)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestResolvePath_Messages(t *testing.T) {
	_, err := ResolvePath("file.unknownext")
	require.Error(t, err)
	assert.Equal(t, "Could not infer parser from extension", err.Error())

	_, err = ResolvePath("README")
	require.Error(t, err)
	assert.Equal(t, "Extensionless file", err.Error())
}

func TestFromName(t *testing.T) {
	for _, name := range []string{"Go", "go", " golang "} {
		id, ok := FromName(name)
		assert.True(t, ok, name)
		assert.Equal(t, Go, id)
	}
	id, ok := FromName("C#")
	assert.True(t, ok)
	assert.Equal(t, CSharp, id)

	_, ok = FromName("cobol")
	assert.False(t, ok)
}

func TestSupported_EveryParserHasExtensionsAndGrammar(t *testing.T) {
	ids := Supported()
	assert.Len(t, ids, len(grammarEntryPoints))
	for _, id := range ids {
		assert.NotEmpty(t, Extensions(id), "parser %s has no extensions", id)
		_, ok := grammarEntryPoints[id]
		assert.True(t, ok, "parser %s has no grammar", id)
	}
}

func TestExtensions_Sorted(t *testing.T) {
	assert.Equal(t, []string{"cc", "cpp", "cxx", "hh", "hpp", "hxx"}, Extensions(Cpp))
	assert.Equal(t, []string{"go"}, Extensions(Go))
}

func TestGrammar_Unknown(t *testing.T) {
	_, err := Grammar(ParserID("cobol"))
	assert.Error(t, err)
}
