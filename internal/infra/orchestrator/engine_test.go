package orchestrator

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
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/curated"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/registry"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/tools"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock { return &clock{now: time.Unix(1000, 0)} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recordingMetrics struct {
	domain.NoopMetrics
	mu   sync.Mutex
	runs []domain.ToolRunMetric
}

func (m *recordingMetrics) ObserveToolRun(metric domain.ToolRunMetric) {
	m.mu.Lock()
	m.runs = append(m.runs, metric)
	m.mu.Unlock()
}

func (m *recordingMetrics) statuses() map[domain.ToolName]domain.ToolRunStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[domain.ToolName]domain.ToolRunStatus, len(m.runs))
	for _, run := range m.runs {
		out[run.Tool] = run.Status
	}
	return out
}

func text(value string) registry.Binding {
	return registry.Binding{
		Handler:   func(context.Context, string) (any, error) { return value, nil },
		Formatter: func(raw any) string { return raw.(string) },
	}
}

func empty() registry.Binding {
	return registry.Binding{
		Handler:   func(context.Context, string) (any, error) { return nil, nil },
		Formatter: func(any) string { return "unused" },
	}
}

func newEngine(t *testing.T, c *clock, bindings map[domain.ToolName]registry.Binding, mutate func(*Options)) *Engine {
	t.Helper()
	opts := Options{
		Tools: registry.New(registry.Options{Bindings: bindings, SearchEngine: "serpapi"}),
		Now:   c.Now,
	}
	if mutate != nil {
		mutate(&opts)
	}
	return New(opts)
}

type fakeArxiv struct {
	mu      sync.Mutex
	queries []string
}

func (f *fakeArxiv) Search(_ context.Context, query string, _ int) ([]domain.Paper, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	return []domain.Paper{{
		Title:     "Retrieval-Augmented Generation for Knowledge-Intensive NLP",
		Summary:   "We explore a general-purpose fine-tuning recipe. It combines retrieval with generation.",
		Published: "1970-01-01",
		Authors:   []string{"Patrick Lewis", "Ethan Perez"},
		Link:      "http://arxiv.org/abs/2005.11401",
		PDF:       "http://arxiv.org/pdf/2005.11401",
	}}, nil
}

func (f *fakeArxiv) CountRecent(context.Context, string, int) (int, error) { return 0, nil }

func TestResolveContext_PaperQueryEndToEnd(t *testing.T) {
	c := newClock()
	arxiv := &fakeArxiv{}
	box := tools.New(tools.Options{Arxiv: arxiv, MaxArxivResults: 3, Now: c.Now})
	engine := newEngine(t, c, box.Bindings(), nil)

	out, ok := engine.ResolveContext(context.Background(), "Quel est le dernier papier sur RAG?")
	require.True(t, ok)

	assert.True(t, strings.HasPrefix(out, "📚 Papers récents (arXiv)\n"), out)
	assert.Contains(t, out, "Retrieval-Augmented Generation for Knowledge-Intensive NLP")
	assert.Contains(t, out, "TL;DR : ")
	require.NotEmpty(t, arxiv.queries)
	assert.Contains(t, arxiv.queries[0], `all:"retrieval" AND all:"augmented" AND all:"generation"`)

	last, ok := engine.Tracker().LastTool()
	require.True(t, ok)
	assert.Equal(t, domain.ToolArxivLookup, last)
}

func TestResolveContext_CooldownNoteAndOverride(t *testing.T) {
	c := newClock()
	engine := newEngine(t, c, map[domain.ToolName]registry.Binding{
		domain.ToolArxivLookup: text("paper list"),
	}, nil)

	first, ok := engine.ResolveContext(context.Background(), "arxiv preprint diffusion")
	require.True(t, ok)
	assert.Equal(t, "📚 Papers récents (arXiv)\npaper list", first)

	c.Advance(10 * time.Second)
	second, ok := engine.ResolveContext(context.Background(), "arxiv preprint diffusion")
	require.True(t, ok)
	desc, _ := registry.New(registry.Options{}).Lookup(domain.ToolArxivLookup)
	assert.Equal(t, desc.CooldownMessage, second)

	c.Advance(10 * time.Second)
	third, ok := engine.ResolveContext(context.Background(), "actualise arxiv preprint diffusion")
	require.True(t, ok)
	assert.Equal(t, first, third)
}

func TestResolveContext_LongQueryTriggersWebSearch(t *testing.T) {
	c := newClock()
	long := "Je voudrais connaitre le nombre exact de kilometres entre Paris et Lyon en passant par Dijon svp merci beaucoup"
	bindings := map[domain.ToolName]registry.Binding{domain.ToolWebSearch: text("web hits")}

	withKey := newEngine(t, c, bindings, func(o *Options) {
		o.Credentials = domain.Credentials{SerpAPIKey: "key"}
	})
	out, ok := withKey.ResolveContext(context.Background(), long)
	require.True(t, ok)
	assert.Equal(t, "🌐 Résultats web\nweb hits", out)

	withoutKey := newEngine(t, c, bindings, nil)
	out, ok = withoutKey.ResolveContext(context.Background(), long)
	assert.False(t, ok)
	assert.Empty(t, out)
}

func TestResolveContext_OrderingAndTrailingNotes(t *testing.T) {
	c := newClock()
	metrics := &recordingMetrics{}
	engine := newEngine(t, c, map[domain.ToolName]registry.Binding{
		domain.ToolArxivLookup: text("A"),
		domain.ToolHuggingFace: text("H"),
		domain.ToolBenchmarks:  empty(),
	}, func(o *Options) { o.Metrics = metrics })

	out, ok := engine.ResolveContext(context.Background(), "arxiv huggingface mmlu")
	require.True(t, ok)
	assert.Equal(t,
		"📚 Papers récents (arXiv)\nA\n\n"+
			"🤗 Modèles récents (Hugging Face)\nH\n\n"+
			"ℹ️ Aucun dataset de benchmark trouvé pour cette requête.",
		out)

	statuses := metrics.statuses()
	assert.Equal(t, domain.ToolRunProduced, statuses[domain.ToolArxivLookup])
	assert.Equal(t, domain.ToolRunEmpty, statuses[domain.ToolBenchmarks])
}

func TestResolveContext_NotesAlone(t *testing.T) {
	c := newClock()
	engine := newEngine(t, c, map[domain.ToolName]registry.Binding{
		domain.ToolHuggingFace: empty(),
	}, nil)

	out, ok := engine.ResolveContext(context.Background(), "modèles huggingface pour le français")
	require.True(t, ok)
	assert.Equal(t, "ℹ️ Aucun modèle Hugging Face pertinent trouvé pour cette requête.", out)

	_, used := engine.Tracker().LastTool()
	assert.False(t, used)
}

func TestResolveContext_FailuresAreIsolated(t *testing.T) {
	c := newClock()
	metrics := &recordingMetrics{}
	engine := newEngine(t, c, map[domain.ToolName]registry.Binding{
		domain.ToolArxivLookup: {
			Handler:   func(context.Context, string) (any, error) { return nil, errors.New("feed down") },
			Formatter: func(any) string { return "unused" },
		},
		domain.ToolArxivDigest: {
			Handler:   func(context.Context, string) (any, error) { panic("boom") },
			Formatter: func(any) string { return "unused" },
		},
		domain.ToolHuggingFace: text("H"),
	}, func(o *Options) { o.Metrics = metrics })

	out, ok := engine.ResolveContext(context.Background(), "arxiv digest huggingface")
	require.True(t, ok)
	assert.Equal(t, "🤗 Modèles récents (Hugging Face)\nH", out)
	assert.Equal(t, domain.ToolRunFailed, metrics.statuses()[domain.ToolArxivLookup])
	assert.Equal(t, domain.ToolRunFailed, metrics.statuses()[domain.ToolArxivDigest])
}

func TestResolveContext_NothingProduced(t *testing.T) {
	engine := newEngine(t, newClock(), map[domain.ToolName]registry.Binding{
		domain.ToolArxivLookup: text("A"),
	}, nil)
	out, ok := engine.ResolveContext(context.Background(), "bonjour")
	assert.False(t, ok)
	assert.Empty(t, out)
}

func TestResolveContext_CuratedPrefix(t *testing.T) {
	c := newClock()
	mt := 9.1
	table := curated.NewTable(curated.Options{
		Seed: []domain.CuratedEntry{{Model: "GPT-4 Turbo", MTBench: &mt, Source: "LMSYS"}},
		Now:  c.Now,
	})
	engine := newEngine(t, c, map[domain.ToolName]registry.Binding{
		domain.ToolBenchmarks: text("datasets"),
	}, func(o *Options) { o.Curated = table })

	out, ok := engine.ResolveContext(context.Background(), "Classement MT-Bench de GPT-4 Turbo ?")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(out, "📊 MT-Bench (référence LMSYS)\n| Modèle"), out)
	assert.Contains(t, out, "GPT-4 Turbo")
	assert.Contains(t, out, "\n\n📊 Benchmarks récents (datasets HF)\ndatasets")
}

func TestSetToolEnabled(t *testing.T) {
	c := newClock()
	engine := newEngine(t, c, map[domain.ToolName]registry.Binding{
		domain.ToolArxivLookup: text("A"),
	}, func(o *Options) { o.Disabled = []domain.ToolName{domain.ToolResearchTrends} })

	assert.NotContains(t, engine.EnabledTools(), domain.ToolResearchTrends)
	require.NoError(t, engine.SetToolEnabled(domain.ToolArxivLookup, false))
	assert.Len(t, engine.EnabledTools(), len(domain.ToolOrder)-2)

	_, ok := engine.ResolveContext(context.Background(), "arxiv preprint")
	assert.False(t, ok)

	require.NoError(t, engine.SetToolEnabled(domain.ToolArxivLookup, true))
	_, ok = engine.ResolveContext(context.Background(), "arxiv preprint")
	assert.True(t, ok)

	err := engine.SetToolEnabled("unknown", true)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrToolNotFound)
	code, _ := domain.CodeFrom(err)
	assert.Equal(t, domain.CodeNotFound, code)

	engine.SetDisabled(nil)
	assert.Equal(t, domain.ToolOrder, engine.EnabledTools())
}

func TestAssess_IgnoresCooldown(t *testing.T) {
	c := newClock()
	engine := newEngine(t, c, map[domain.ToolName]registry.Binding{
		domain.ToolArxivLookup: text("A"),
	}, nil)
	_, ok := engine.ResolveContext(context.Background(), "arxiv preprint")
	require.True(t, ok)

	assessments := engine.Assess("arxiv preprint")
	require.Len(t, assessments, len(domain.ToolOrder))
	for i, assessment := range assessments {
		assert.Equal(t, domain.ToolOrder[i], assessment.Tool)
	}
	assert.True(t, assessments[1].ShouldRun)
	assert.Equal(t, domain.ReasonThresholdMet, assessments[1].Reason)
}

func TestNew_WithoutToolTable(t *testing.T) {
	engine := New(Options{})

	out, ok := engine.ResolveContext(context.Background(), "Quel est le dernier papier sur RAG?")
	assert.False(t, ok)
	assert.Empty(t, out)
	assert.Empty(t, engine.Assess("rag"))
	assert.Empty(t, engine.EnabledTools())
	require.Error(t, engine.SetToolEnabled(domain.ToolArxivLookup, false))
}

// sharedNoData gives every descriptor the same no-data message.
type sharedNoData struct {
	*registry.Registry
	message string
}

func (s sharedNoData) Descriptors() []domain.ToolDescriptor {
	descs := s.Registry.Descriptors()
	for i := range descs {
		descs[i].NoDataMessage = s.message
	}
	return descs
}

func TestResolveContext_NoDataNotesNotDeduplicated(t *testing.T) {
	reg := registry.New(registry.Options{Bindings: map[domain.ToolName]registry.Binding{
		domain.ToolHuggingFace: empty(),
		domain.ToolBenchmarks:  empty(),
	}})
	engine := New(Options{Tools: sharedNoData{Registry: reg, message: "rien"}, Now: newClock().Now})

	out, ok := engine.ResolveContext(context.Background(), "huggingface mmlu")
	require.True(t, ok)
	assert.Equal(t, "rien\nrien", out)
}
