package mcpserver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/format"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/telemetry"
)

type queryArgs struct {
	Query string `json:"query" jsonschema:"the user question"`
}

type leaderboardArgs struct {
	Query   string `json:"query,omitempty" jsonschema:"optional model names to filter on"`
	Refresh bool   `json:"refresh,omitempty" jsonschema:"refresh the table from the remote source first"`
	Force   bool   `json:"force,omitempty" jsonschema:"ignore the refresh TTL"`
}

type resolveOutput struct {
	Context string `json:"context"`
	Found   bool   `json:"found"`
}

type assessmentView struct {
	Tool       string   `json:"tool"`
	Score      int      `json:"score"`
	Threshold  int      `json:"threshold"`
	ShouldRun  bool     `json:"shouldRun"`
	Reason     string   `json:"reason"`
	StrongHits []string `json:"strongHits"`
	WeakHits   []string `json:"weakHits"`
}

type assessOutput struct {
	Assessments []assessmentView `json:"assessments"`
}

type entryView struct {
	Model   string  `json:"model"`
	Size    string  `json:"size"`
	MTBench float64 `json:"mtBench,omitempty"`
	MMLU    float64 `json:"mmlu,omitempty"`
	Source  string  `json:"source"`
	Date    string  `json:"date"`
	Link    string  `json:"link"`
}

type leaderboardOutput struct {
	Entries     []entryView `json:"entries"`
	RefreshedAt string      `json:"refreshedAt,omitempty"`
	Refresh     string      `json:"refresh,omitempty"`
}

func (s *Server) resolveContext(ctx context.Context, _ *mcp.CallToolRequest, args queryArgs) (*mcp.CallToolResult, resolveOutput, error) {
	query, err := trimQuery(args.Query)
	if err != nil {
		return nil, resolveOutput{}, err
	}
	ctx, logger := s.requestContext(ctx, ToolResolveContext)
	start := time.Now()

	text, found := s.engine.ResolveContext(ctx, query)
	logger.Info("context resolved", zap.Bool("found", found), telemetry.DurationField(time.Since(start)))

	out := resolveOutput{Context: text, Found: found}
	if !found {
		return textResult(noContext), out, nil
	}
	return textResult(text), out, nil
}

func (s *Server) assess(ctx context.Context, _ *mcp.CallToolRequest, args queryArgs) (*mcp.CallToolResult, assessOutput, error) {
	query, err := trimQuery(args.Query)
	if err != nil {
		return nil, assessOutput{}, err
	}
	_, logger := s.requestContext(ctx, ToolAssess)

	assessments := s.engine.Assess(query)
	out := assessOutput{Assessments: make([]assessmentView, 0, len(assessments))}
	var lines []string
	for _, a := range assessments {
		out.Assessments = append(out.Assessments, assessmentView{
			Tool:       string(a.Tool),
			Score:      a.Score,
			Threshold:  a.Threshold,
			ShouldRun:  a.ShouldRun,
			Reason:     string(a.Reason),
			StrongHits: nonNil(a.StrongHits),
			WeakHits:   nonNil(a.WeakHits),
		})
		lines = append(lines, formatAssessment(a))
	}
	logger.Debug("query assessed", zap.Int("tools", len(assessments)))
	return textResult(strings.Join(lines, "\n")), out, nil
}

func (s *Server) leaderboard(ctx context.Context, _ *mcp.CallToolRequest, args leaderboardArgs) (*mcp.CallToolResult, leaderboardOutput, error) {
	table := s.engine.Curated()
	if table == nil {
		return nil, leaderboardOutput{}, domain.E(domain.CodeConfigurationMissing, "mcp leaderboard", "curated table unavailable", nil)
	}
	ctx, logger := s.requestContext(ctx, ToolLeaderboard)

	var out leaderboardOutput
	if args.Refresh || args.Force {
		status := table.Refresh(ctx, args.Force)
		out.Refresh = refreshSummary(status)
		logger.Info("leaderboard refresh requested", zap.Bool("force", args.Force), zap.String("outcome", out.Refresh))
	}
	if refreshedAt, ok := table.RefreshedAt(); ok {
		out.RefreshedAt = formatTime(refreshedAt)
	}

	entries := table.Select(args.Query)
	out.Entries = make([]entryView, 0, len(entries))
	for _, entry := range entries {
		view := entryView{
			Model:  entry.Model,
			Size:   entry.Size,
			Source: entry.Source,
			Date:   entry.Date,
			Link:   entry.Link,
		}
		if entry.MTBench != nil {
			view.MTBench = *entry.MTBench
		}
		if entry.MMLU != nil {
			view.MMLU = *entry.MMLU
		}
		out.Entries = append(out.Entries, view)
	}

	text := format.CuratedTable(entries)
	if text == "" {
		text = "ℹ️ Tableau MT-Bench indisponible."
	}
	return textResult(text), out, nil
}

func formatAssessment(a domain.Assessment) string {
	mark := "·"
	if a.ShouldRun {
		mark = "✓"
	}
	line := fmt.Sprintf("%s %s score=%d/%d (%s)", mark, a.Tool, a.Score, a.Threshold, a.Reason)
	if hits := append(append([]string(nil), a.StrongHits...), a.WeakHits...); len(hits) > 0 {
		line += " [" + strings.Join(hits, ", ") + "]"
	}
	return line
}

func refreshSummary(status domain.RefreshStatus) string {
	switch {
	case status.Cached:
		return "cached"
	case status.Success:
		return "refreshed"
	default:
		return "failed: " + status.Error
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
