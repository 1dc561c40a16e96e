// Package tools implements the handler behind every registered tool.
package tools

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/cache"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/format"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/registry"
)

// PaperSource queries the academic-paper feed.
type PaperSource interface {
	Search(ctx context.Context, searchQuery string, limit int) ([]domain.Paper, error)
	CountRecent(ctx context.Context, category string, limit int) (int, error)
}

// HubSource searches the model hub.
type HubSource interface {
	Models(ctx context.Context, terms string, limit int) ([]domain.HubModel, error)
	Datasets(ctx context.Context, terms string, limit int) ([]domain.Dataset, error)
}

// WebSource runs web searches.
type WebSource interface {
	Search(ctx context.Context, query string) ([]domain.WebResult, error)
}

// RepositorySource lists popular code repositories.
type RepositorySource interface {
	TrendingRepositories(ctx context.Context, limit int) ([]domain.Repository, error)
}

// PaperRankingSource lists the most starred papers.
type PaperRankingSource interface {
	TopPapers(ctx context.Context, limit int) ([]domain.LeaderboardPaper, error)
}

// Options wires the toolbox to its sources.
type Options struct {
	Arxiv            PaperSource
	Hub              HubSource
	Web              WebSource
	Repositories     RepositorySource
	PaperRankings    PaperRankingSource
	Cache            *cache.Cache
	MaxArxivResults  int
	DigestCategories []string
	Now              func() time.Time
	Logger           *zap.Logger
}

// Toolbox holds the handlers for every tool.
type Toolbox struct {
	arxiv         PaperSource
	hub           HubSource
	web           WebSource
	repositories  RepositorySource
	paperRankings PaperRankingSource
	cache         *cache.Cache
	maxArxiv      int
	categories    []string
	now           func() time.Time
	logger        *zap.Logger
}

func New(opts Options) *Toolbox {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	resultCache := opts.Cache
	if resultCache == nil {
		resultCache = cache.New(cache.NewMemory(), cache.Options{Now: now, Logger: logger})
	}
	categories := opts.DigestCategories
	if len(categories) == 0 {
		categories = domain.DefaultDigestCategories
	}
	return &Toolbox{
		arxiv:         opts.Arxiv,
		hub:           opts.Hub,
		web:           opts.Web,
		repositories:  opts.Repositories,
		paperRankings: opts.PaperRankings,
		cache:         resultCache,
		maxArxiv:      opts.MaxArxivResults,
		categories:    append([]string(nil), categories...),
		now:           now,
		logger:        logger.Named("tools"),
	}
}

// Bindings exposes the handlers and formatters for the registry. Tools whose
// source is missing are left unbound.
func (t *Toolbox) Bindings() map[domain.ToolName]registry.Binding {
	bindings := make(map[domain.ToolName]registry.Binding)
	if t.web != nil {
		bindings[domain.ToolWebSearch] = bind(t.WebSearch, format.WebResults)
	}
	if t.arxiv != nil {
		bindings[domain.ToolArxivLookup] = bind(t.ArxivLookup, func(papers []domain.Paper) string {
			return format.ArxivLookup(papers, t.now())
		})
		bindings[domain.ToolArxivDigest] = bind(t.ArxivDigest, format.ArxivDigest)
	}
	if t.hub != nil {
		bindings[domain.ToolHuggingFace] = bind(t.HuggingFace, format.HuggingFaceModels)
		bindings[domain.ToolBenchmarks] = bind(t.Benchmarks, format.BenchmarkDatasets)
	}
	if t.repositories != nil || t.paperRankings != nil || t.arxiv != nil {
		bindings[domain.ToolResearchTrends] = registry.Binding{
			Handler: func(ctx context.Context, query string) (any, error) {
				report, err := t.ResearchTrends(ctx, query)
				if err != nil || report.Empty() {
					return nil, err
				}
				return report, nil
			},
			Formatter: func(result any) string {
				report, ok := result.(domain.TrendReport)
				if !ok {
					return ""
				}
				return format.ResearchTrends(report)
			},
		}
	}
	return bindings
}

// bind adapts a typed slice handler and formatter to the registry signature.
// Empty slices surface as nil so the orchestrator can tell "no data" apart.
func bind[T any](handler func(context.Context, string) ([]T, error), formatter func([]T) string) registry.Binding {
	return registry.Binding{
		Handler: func(ctx context.Context, query string) (any, error) {
			items, err := handler(ctx, query)
			if err != nil || len(items) == 0 {
				return nil, err
			}
			return items, nil
		},
		Formatter: func(result any) string {
			items, ok := result.([]T)
			if !ok {
				return ""
			}
			return formatter(items)
		},
	}
}
