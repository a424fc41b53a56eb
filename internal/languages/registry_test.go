//go:build cgo

package languages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrammar_SharedInstance(t *testing.T) {
	first, err := Grammar(Go)
	require.NoError(t, err)
	second, err := Grammar(Go)
	require.NoError(t, err)
	assert.Same(t, first, second, "grammar should be loaded once")
}

func TestWarm_AllGrammars(t *testing.T) {
	require.NoError(t, Warm(context.Background()))
	for _, id := range Supported() {
		lang, err := Grammar(id)
		require.NoError(t, err, "grammar %s", id)
		assert.NotNil(t, lang)
	}
}

func TestWarm_UnknownGrammar(t *testing.T) {
	err := Warm(context.Background(), Go, ParserID("cobol"))
	assert.Error(t, err)
}
