package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText_FoldsDiacritics(t *testing.T) {
	assert.Equal(t, Text("emission"), Text("Émission"))
	assert.Equal(t, "derniere actualite sur la reglementation", Text("Dernière actualité sur la réglementation"))
}

func TestText_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Émission",
		"Quelle est la toute dernière actualité sur la réglementation IA ?",
		"Ｆｕｌｌｗｉｄｔｈ ﬁ ligature",
		"Straße naïve café 北京",
	}
	for _, input := range inputs {
		once := Text(input)
		assert.Equal(t, once, Text(once), "input %q", input)
	}
}

func TestText_DropsNonASCII(t *testing.T) {
	assert.Equal(t, "llm  benchmarks", Text("LLM 北京 benchmarks"))
	assert.Equal(t, "fullwidth", Text("Ｆｕｌｌｗｉｄｔｈ"))
}

func TestQuery_Tokens(t *testing.T) {
	normalized, tokens := Query("  Papier   sur RAG ")
	assert.Equal(t, "  papier   sur rag ", normalized)
	require.Len(t, tokens, 3)
	assert.True(t, tokens.Has("papier"))
	assert.True(t, tokens.Has("rag"))
	assert.False(t, tokens.Has("RAG"))
}

func TestQuery_Empty(t *testing.T) {
	normalized, tokens := Query("")
	assert.Empty(t, normalized)
	assert.Empty(t, tokens)
}

func TestASCIIFold_KeepsCase(t *testing.T) {
	assert.Equal(t, "Modeles Francais", ASCIIFold("Modèles Français"))
}
