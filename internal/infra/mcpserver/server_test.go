package mcpserver

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/curated"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/telemetry"
)

type stubEngine struct {
	context  string
	queries  []string
	origins  []string
	assessed []domain.Assessment
	table    *curated.Table
}

func (s *stubEngine) ResolveContext(ctx context.Context, query string) (string, bool) {
	s.queries = append(s.queries, query)
	meta, _ := telemetry.RequestMetaFromContext(ctx)
	s.origins = append(s.origins, meta.Origin)
	return s.context, s.context != ""
}

func (s *stubEngine) Assess(string) []domain.Assessment { return s.assessed }

func (s *stubEngine) Curated() *curated.Table { return s.table }

func score(v float64) *float64 { return &v }

func newStub() *stubEngine {
	return &stubEngine{
		context: "📚 Papers récents (arXiv)\n- paper",
		assessed: []domain.Assessment{
			{Tool: domain.ToolArxivLookup, Score: 2, Threshold: 2, ShouldRun: true, Reason: domain.ReasonThresholdMet, WeakHits: []string{"papier", "rag"}},
			{Tool: domain.ToolWebSearch, Score: 0, Threshold: 2, Reason: domain.ReasonBelowThreshold},
		},
		table: curated.NewTable(curated.Options{Seed: []domain.CuratedEntry{
			{Model: "GPT-4", Size: "?", MTBench: score(8.99), Source: "LMSYS", Date: "2024-01", Link: "https://lmsys.org"},
			{Model: "Mixtral-8x7B", Size: "46.7B", MTBench: score(8.3), Source: "LMSYS", Date: "2024-01", Link: "https://lmsys.org", Aliases: []string{"mixtral"}},
		}}),
	}
}

func connect(t *testing.T, engine Engine) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	srv, err := New(Options{Engine: engine, Version: "test", Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)

	ct, st := mcp.NewInMemoryTransports()
	_, err = srv.MCP().Connect(ctx, st, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "0.1.0"}, nil)
	session, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	content, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return content.Text
}

func structured[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	raw, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestNew_RequiresEngine(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
}

func TestServer_ListTools(t *testing.T) {
	session := connect(t, newStub())

	res, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{ToolResolveContext, ToolAssess, ToolLeaderboard}, names)
}

func TestServer_ResolveContext(t *testing.T) {
	engine := newStub()
	session := connect(t, engine)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolResolveContext,
		Arguments: map[string]any{"query": "  dernier papier sur RAG  "},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	assert.Equal(t, engine.context, text(t, res))
	out := structured[resolveOutput](t, res)
	assert.True(t, out.Found)
	assert.Equal(t, []string{"dernier papier sur RAG"}, engine.queries)
	assert.Equal(t, []string{telemetry.OriginMCP}, engine.origins)
}

func TestServer_ResolveContextNothingFound(t *testing.T) {
	engine := newStub()
	engine.context = ""
	session := connect(t, engine)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolResolveContext,
		Arguments: map[string]any{"query": "bonjour"},
	})
	require.NoError(t, err)
	assert.Equal(t, noContext, text(t, res))
	assert.False(t, structured[resolveOutput](t, res).Found)
}

func TestServer_ResolveContextRejectsEmptyQuery(t *testing.T) {
	engine := newStub()
	session := connect(t, engine)

	for _, args := range []map[string]any{{}, {"query": ""}, {"query": "   "}} {
		res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
			Name:      ToolResolveContext,
			Arguments: args,
		})
		if err == nil {
			assert.True(t, res.IsError, args)
		}
	}
	assert.Empty(t, engine.queries)
}

func TestServer_Assess(t *testing.T) {
	session := connect(t, newStub())

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolAssess,
		Arguments: map[string]any{"query": "dernier papier sur RAG"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := structured[assessOutput](t, res)
	require.Len(t, out.Assessments, 2)
	assert.Equal(t, "arxiv_lookup", out.Assessments[0].Tool)
	assert.True(t, out.Assessments[0].ShouldRun)
	assert.Equal(t, []string{}, out.Assessments[1].WeakHits)
	assert.Contains(t, text(t, res), "✓ arxiv_lookup score=2/2 (SCORE_THRESHOLD_MET) [papier, rag]")
}

func TestServer_Leaderboard(t *testing.T) {
	session := connect(t, newStub())

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolLeaderboard,
		Arguments: map[string]any{"query": "mixtral"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := structured[leaderboardOutput](t, res)
	require.Len(t, out.Entries, 1)
	assert.Equal(t, "Mixtral-8x7B", out.Entries[0].Model)
	assert.InDelta(t, 8.3, out.Entries[0].MTBench, 1e-9)
	assert.Empty(t, out.Refresh)
	assert.Contains(t, text(t, res), "Mixtral-8x7B")
}

func TestServer_LeaderboardRefreshWithoutSource(t *testing.T) {
	session := connect(t, newStub())

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolLeaderboard,
		Arguments: map[string]any{"refresh": true},
	})
	require.NoError(t, err)

	out := structured[leaderboardOutput](t, res)
	assert.Contains(t, out.Refresh, "failed")
	assert.Len(t, out.Entries, 2)
}

func TestServer_StreamableHandler(t *testing.T) {
	srv, err := New(Options{Engine: newStub()})
	require.NoError(t, err)
	httpServer := httptest.NewServer(srv.Handler())
	t.Cleanup(httpServer.Close)

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "0.1.0"}, nil)
	session, err := client.Connect(context.Background(), &mcp.StreamableClientTransport{Endpoint: httpServer.URL}, nil)
	require.NoError(t, err)
	defer session.Close()

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolAssess,
		Arguments: map[string]any{"query": "rag"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
}
