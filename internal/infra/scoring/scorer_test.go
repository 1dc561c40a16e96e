package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/normalize"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/registry"
)

func lookup(t *testing.T, name domain.ToolName) domain.ToolDescriptor {
	t.Helper()
	desc, ok := registry.New(registry.Options{SearchEngine: "serpapi"}).Lookup(name)
	require.True(t, ok)
	return desc
}

func score(desc domain.ToolDescriptor, query string) Result {
	normalized, tokens := normalize.Query(query)
	return Score(desc, normalized, tokens)
}

func TestScore_WebSearchStrongHits(t *testing.T) {
	desc := lookup(t, domain.ToolWebSearch)
	res := score(desc, "Quelle est la toute dernière actualité sur la réglementation IA en Europe aujourd'hui?")

	assert.Subset(t, res.Strong, []string{"derniere actualite", "reglementation"})
	assert.GreaterOrEqual(t, res.Score, 2*desc.StrongWeight)
	assert.GreaterOrEqual(t, res.Score, desc.MinScore)
}

func TestScore_WeakExcludesStrong(t *testing.T) {
	desc := domain.ToolDescriptor{
		Name:           "custom",
		StrongKeywords: domain.NewKeywordSet("digest"),
		WeakKeywords:   domain.NewKeywordSet("digest", "recap"),
		StrongWeight:   2,
		WeakWeight:     1,
		MinScore:       2,
	}
	res := score(desc, "digest and recap")

	assert.Equal(t, []string{"digest"}, res.Strong)
	assert.Equal(t, []string{"recap"}, res.Weak)
	assert.Equal(t, 3, res.Score)
}

func TestScore_AcademicBonus(t *testing.T) {
	desc := lookup(t, domain.ToolArxivLookup)
	res := score(desc, "conference")
	// weak "conference" plus the academic indicator bonus
	assert.Equal(t, []string{"conference"}, res.Weak)
	assert.Equal(t, 2, res.Score)

	digest := lookup(t, domain.ToolArxivDigest)
	assert.Equal(t, 0, score(digest, "conference").Score)
}

func TestScore_IndustryBonus(t *testing.T) {
	desc := lookup(t, domain.ToolHuggingFace)
	res := score(desc, "Peux-tu me recommander trois modèles HuggingFace pour le résumé en français?")

	assert.Contains(t, res.Strong, "huggingface")
	assert.Contains(t, res.Weak, "francais")
	assert.Equal(t, 2+len(res.Weak)+1, res.Score)
}

func TestScore_TokenOverlap(t *testing.T) {
	desc := lookup(t, domain.ToolArxivLookup)
	res := score(desc, "Quel est le dernier papier sur RAG?")

	assert.Empty(t, res.Strong)
	assert.Equal(t, []string{"papier", "rag"}, res.Weak)
	assert.Equal(t, 2, res.Score)
}

func TestScore_TokenOverlapSkippedAboveThreshold(t *testing.T) {
	desc := lookup(t, domain.ToolArxivLookup)
	res := score(desc, "arxiv papier")

	assert.Equal(t, []string{"arxiv"}, res.Strong)
	assert.NotContains(t, res.Weak, "papier")
	assert.Equal(t, 2, res.Score)
}

func TestScore_MinLengthTrigger(t *testing.T) {
	desc := lookup(t, domain.ToolWebSearch)
	long := "Je voudrais connaitre le nombre exact de kilometres entre Paris et Lyon en passant par Dijon svp merci beaucoup"
	require.GreaterOrEqual(t, len(long), 80)

	res := score(desc, long)
	assert.Empty(t, res.Strong)
	assert.Empty(t, res.Weak)
	assert.Equal(t, desc.MinScore, res.Score)

	short := score(desc, "Distance Paris Lyon")
	assert.Equal(t, 0, short.Score)
}

func TestScore_EmptyQuery(t *testing.T) {
	for _, desc := range registry.New(registry.Options{}).Descriptors() {
		res := score(desc, "")
		assert.Equal(t, 0, res.Score, desc.Name)
		assert.Empty(t, res.Strong)
		assert.Empty(t, res.Weak)
	}
}
