package tools

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

type fakeArxiv struct {
	mu       sync.Mutex
	queries  []string
	answer   func(query string) []domain.Paper
	counts   map[string]int
	countErr error
}

func (f *fakeArxiv) Search(_ context.Context, query string, limit int) ([]domain.Paper, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.answer == nil {
		return nil, nil
	}
	papers := f.answer(query)
	if len(papers) > limit {
		papers = papers[:limit]
	}
	return papers, nil
}

func (f *fakeArxiv) CountRecent(_ context.Context, category string, _ int) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.counts[category], nil
}

type fakeHub struct {
	mu           sync.Mutex
	modelCalls   []string
	datasetCalls []string
	models       map[string][]domain.HubModel
	datasets     map[string][]domain.Dataset
	err          error
}

func (f *fakeHub) Models(_ context.Context, terms string, _ int) ([]domain.HubModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modelCalls = append(f.modelCalls, terms)
	return f.models[terms], f.err
}

func (f *fakeHub) Datasets(_ context.Context, terms string, _ int) ([]domain.Dataset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.datasetCalls = append(f.datasetCalls, terms)
	return f.datasets[terms], f.err
}

type fakeRepos struct{ err error }

func (f fakeRepos) TrendingRepositories(context.Context, int) ([]domain.Repository, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []domain.Repository{{Name: "org/repo", Stars: 12000}}, nil
}

type fakeRankings struct{}

func (fakeRankings) TopPapers(context.Context, int) ([]domain.LeaderboardPaper, error) {
	return []domain.LeaderboardPaper{{Title: "SOTA"}}, nil
}

func TestArxivLookup_ExpandsAndBacksOff(t *testing.T) {
	arxiv := &fakeArxiv{answer: func(query string) []domain.Paper {
		if strings.Contains(query, `all:"generation"`) {
			return nil
		}
		return []domain.Paper{{Title: "RAG survey", Summary: "Retrieval helps."}}
	}}
	box := New(Options{Arxiv: arxiv, MaxArxivResults: 3})

	papers, err := box.ArxivLookup(context.Background(), "Quel est le dernier papier sur RAG?")
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "RAG survey", papers[0].Title)
	assert.Equal(t, []string{
		`(cat:cs.AI) AND (all:"papier" AND all:"retrieval" AND all:"augmented" AND all:"generation")`,
		`(cat:cs.AI) AND (all:"papier" AND all:"retrieval" AND all:"augmented")`,
	}, arxiv.queries)
}

func TestArxivLookup_FallbackEntry(t *testing.T) {
	arxiv := &fakeArxiv{}
	box := New(Options{Arxiv: arxiv, MaxArxivResults: 3})

	papers, err := box.ArxivLookup(context.Background(), "rag llm")
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "Aucune publication arXiv récupérée automatiquement", papers[0].Title)
	// Six terms, then five..one, then the category alone.
	assert.Len(t, arxiv.queries, 7)
	assert.Equal(t, "(cat:cs.AI)", arxiv.queries[6])
}

func TestArxivLookup_Disabled(t *testing.T) {
	arxiv := &fakeArxiv{}
	papers, err := New(Options{Arxiv: arxiv, MaxArxivResults: 0}).ArxivLookup(context.Background(), "rag")
	require.NoError(t, err)
	assert.Nil(t, papers)
	assert.Empty(t, arxiv.queries)
}

func TestArxivDigest_UsesCategories(t *testing.T) {
	arxiv := &fakeArxiv{answer: func(string) []domain.Paper {
		return []domain.Paper{{Title: "a"}, {Title: "b"}, {Title: "c"}, {Title: "d"}}
	}}
	box := New(Options{Arxiv: arxiv, MaxArxivResults: 10, DigestCategories: []string{"cs.CL", "cs.LG"}})

	papers, err := box.ArxivDigest(context.Background(), "digest diffusion")
	require.NoError(t, err)
	assert.Len(t, papers, 3)
	require.Len(t, arxiv.queries, 1)
	assert.True(t, strings.HasPrefix(arxiv.queries[0], "(cat:cs.CL OR cat:cs.LG) AND ("))
}

func TestArxivDigest_NonPositiveMaxKeepsOnePaper(t *testing.T) {
	for _, limit := range []int{0, -2} {
		arxiv := &fakeArxiv{answer: func(string) []domain.Paper {
			return []domain.Paper{{Title: "a"}, {Title: "b"}, {Title: "c"}}
		}}
		box := New(Options{Arxiv: arxiv, MaxArxivResults: limit})

		papers, err := box.ArxivDigest(context.Background(), "digest diffusion")
		require.NoError(t, err)
		assert.Len(t, papers, 1, "max=%d", limit)

		lookup, err := box.ArxivLookup(context.Background(), "rag")
		require.NoError(t, err)
		assert.Nil(t, lookup, "max=%d", limit)
	}
}

func TestHuggingFace_QualityFilterAndCache(t *testing.T) {
	hub := &fakeHub{models: map[string][]domain.HubModel{
		"rag language model": {
			{ID: "low", Downloads: 5},
			{ID: "mid", Downloads: 100, Likes: 1},
			{ID: "top", Downloads: 1000, Likes: 20},
			{ID: "liked", Likes: 2},
			{ID: "tiny", Downloads: 10},
		},
	}}
	box := New(Options{Hub: hub})

	models, err := box.HuggingFace(context.Background(), "RAG")
	require.NoError(t, err)
	ids := make([]string, 0, len(models))
	for _, model := range models {
		ids = append(ids, model.ID)
	}
	assert.Equal(t, []string{"top", "mid", "liked"}, ids)
	assert.Equal(t, int64(1000*10+20*100), models[0].Quality)

	_, err = box.HuggingFace(context.Background(), "rag")
	require.NoError(t, err)
	assert.Equal(t, []string{"rag language model"}, hub.modelCalls)
}

func TestHuggingFace_NarrowsOnEmpty(t *testing.T) {
	hub := &fakeHub{models: map[string][]domain.HubModel{
		"multilingual camembert": {{ID: "x", Downloads: 50}},
	}}
	box := New(Options{Hub: hub})

	models, err := box.HuggingFace(context.Background(), "camembert multilingual")
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, []string{"camembert multilingual language model", "multilingual camembert"}, hub.modelCalls)
}

func TestBenchmarks_SingleRetry(t *testing.T) {
	hub := &fakeHub{err: errors.New("down")}
	box := New(Options{Hub: hub})

	datasets, err := box.Benchmarks(context.Background(), "mmlu hellaswag gsm8k")
	assert.Error(t, err)
	assert.Empty(t, datasets)
	assert.Equal(t, []string{"mmlu hellaswag gsm8k", "hellaswag gsm8k"}, hub.datasetCalls)
}

func TestBenchmarks_Cached(t *testing.T) {
	hub := &fakeHub{datasets: map[string][]domain.Dataset{"mmlu": {{ID: "cais/mmlu"}}}}
	now := time.Unix(1000, 0)
	box := New(Options{Hub: hub, Now: func() time.Time { return now }})

	for i := 0; i < 2; i++ {
		datasets, err := box.Benchmarks(context.Background(), "MMLU")
		require.NoError(t, err)
		require.Len(t, datasets, 1)
	}
	assert.Len(t, hub.datasetCalls, 1)
}

func TestResearchTrends(t *testing.T) {
	arxiv := &fakeArxiv{counts: map[string]int{"cs.AI": 2, "cs.LG": 1}}
	at := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	box := New(Options{
		Arxiv:         arxiv,
		Repositories:  fakeRepos{err: errors.New("rate limited")},
		PaperRankings: fakeRankings{},
		Now:           func() time.Time { return at },
	})

	report, err := box.ResearchTrends(context.Background(), "tendances")
	require.NoError(t, err)
	assert.Empty(t, report.Repositories)
	assert.Len(t, report.Papers, 1)
	assert.Equal(t, []domain.CategoryActivity{
		{Category: "cs.AI", RecentCount: 2, Activity: "🔥"},
		{Category: "cs.LG", RecentCount: 1, Activity: "📊"},
	}, report.Categories)
	assert.Equal(t, at, report.GeneratedAt)
}

func TestBindings(t *testing.T) {
	hub := &fakeHub{}
	box := New(Options{Hub: hub})
	bindings := box.Bindings()

	assert.Contains(t, bindings, domain.ToolHuggingFace)
	assert.Contains(t, bindings, domain.ToolBenchmarks)
	assert.NotContains(t, bindings, domain.ToolWebSearch)
	assert.NotContains(t, bindings, domain.ToolArxivLookup)

	result, err := bindings[domain.ToolHuggingFace].Handler(context.Background(), "rag")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Empty(t, bindings[domain.ToolHuggingFace].Formatter("wrong type"))

	full := New(Options{Hub: hub, Arxiv: &fakeArxiv{}, Web: webStub{}}).Bindings()
	assert.Len(t, full, len(domain.ToolOrder))
}

type webStub struct{}

func (webStub) Search(context.Context, string) ([]domain.WebResult, error) {
	return []domain.WebResult{{Title: "t"}}, nil
}
