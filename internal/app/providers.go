package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/assistant"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/cache"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/config"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/curated"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/mcpserver"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/orchestrator"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/registry"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/selection"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/sources"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/telemetry"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/tools"
)

const leaderboardFetchTimeout = 10 * time.Second

// Sources bundles the remote clients.
type Sources struct {
	Arxiv          *sources.Arxiv
	Hub            *sources.HuggingFace
	Web            *sources.SerpAPI
	GitHub         *sources.GitHub
	PapersWithCode *sources.PapersWithCode
	Leaderboard    *sources.LMSYS
}

func NewMetricsRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewGoCollector())
	return registry
}

func NewMetrics(registry *prometheus.Registry) domain.Metrics {
	return telemetry.NewPrometheusMetrics(registry)
}

func NewHealthTracker() *telemetry.HealthTracker {
	return telemetry.NewHealthTracker()
}

// NewCacheStore opens the configured backend. The cleanup closes it.
func NewCacheStore(ctx context.Context, cfg domain.Config, logger *zap.Logger) (cache.Store, func(), error) {
	var (
		store cache.Store
		err   error
	)
	switch cacheBackend(cfg) {
	case domain.CacheBackendBolt:
		store, err = cache.OpenBolt(cfg.Cache.Path)
	case domain.CacheBackendRedis:
		store, err = cache.OpenRedis(ctx, cache.RedisOptions{
			Addr:   cfg.Cache.RedisAddr,
			Expiry: cfg.Cache.TTL(),
		})
	case domain.CacheBackendMemory:
		store = cache.NewMemory()
	default:
		err = domain.E(domain.CodeInvalidArgument, "cache", fmt.Sprintf("unknown backend %q", cfg.Cache.Backend), nil)
	}
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("cache backend ready", zap.String("backend", cfg.Cache.Backend))
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("close cache failed", zap.Error(err))
		}
	}
	return store, cleanup, nil
}

func cacheBackend(cfg domain.Config) string {
	if cfg.Cache.Backend == "" {
		return domain.CacheBackendMemory
	}
	return cfg.Cache.Backend
}

func NewResultCache(store cache.Store, cfg domain.Config, metrics domain.Metrics, logger *zap.Logger) *cache.Cache {
	return cache.New(store, cache.Options{
		TTL:     cfg.Cache.TTL(),
		Logger:  logger,
		Metrics: metrics,
	})
}

func NewSources(cfg domain.Config, metrics domain.Metrics, logger *zap.Logger) (Sources, error) {
	opts := sources.Options{Logger: logger, Metrics: metrics}
	lmsysOpts := opts
	lmsysOpts.Timeout = leaderboardFetchTimeout
	leaderboard, err := sources.NewLMSYS(lmsysOpts, cfg.Leaderboard.URL)
	if err != nil {
		return Sources{}, domain.Wrap(domain.CodeInvalidArgument, "leaderboard source", err)
	}
	return Sources{
		Arxiv:          sources.NewArxiv(opts),
		Hub:            sources.NewHuggingFace(opts, cfg.HuggingFace.Token),
		Web:            sources.NewSerpAPI(opts, cfg.Search.SerpAPIKey),
		GitHub:         sources.NewGitHub(opts),
		PapersWithCode: sources.NewPapersWithCode(opts),
		Leaderboard:    leaderboard,
	}, nil
}

func NewToolbox(src Sources, resultCache *cache.Cache, cfg domain.Config, logger *zap.Logger) *tools.Toolbox {
	return tools.New(tools.Options{
		Arxiv:            src.Arxiv,
		Hub:              src.Hub,
		Web:              src.Web,
		Repositories:     src.GitHub,
		PaperRankings:    src.PapersWithCode,
		Cache:            resultCache,
		MaxArxivResults:  cfg.Arxiv.MaxResults,
		DigestCategories: cfg.Arxiv.DigestCategories,
		Logger:           logger,
	})
}

func NewRegistry(toolbox *tools.Toolbox, cfg domain.Config) *registry.Registry {
	return registry.New(registry.Options{
		Bindings:     toolbox.Bindings(),
		SearchEngine: cfg.Search.Engine,
	})
}

func NewTracker(reg *registry.Registry, metrics domain.Metrics, logger *zap.Logger) *selection.Tracker {
	return selection.NewTracker(reg, selection.TrackerOptions{Logger: logger, Metrics: metrics})
}

func NewCuratedTable(src Sources, cfg domain.Config, metrics domain.Metrics, logger *zap.Logger) (*curated.Table, error) {
	seed, err := curated.Seed()
	if err != nil {
		return nil, domain.Wrap(domain.CodeInternal, "curated seed", err)
	}
	return curated.NewTable(curated.Options{
		Fetcher: src.Leaderboard,
		Seed:    seed,
		TTL:     time.Duration(cfg.Leaderboard.TTLSeconds) * time.Second,
		Logger:  logger,
		Metrics: metrics,
	}), nil
}

func NewCuratedScheduler(table *curated.Table, cfg domain.Config, health *telemetry.HealthTracker, logger *zap.Logger) *curated.Scheduler {
	scheduler := curated.NewScheduler(table, cfg.Leaderboard.RefreshInterval(), logger)
	scheduler.Monitor(health)
	health.Detail("cache_backend", func() string { return cacheBackend(cfg) })
	health.Detail("curated_age", func() string {
		refreshedAt, ok := table.RefreshedAt()
		if !ok {
			return "seed"
		}
		return time.Since(refreshedAt).Round(time.Second).String()
	})
	return scheduler
}

func NewEngine(
	reg *registry.Registry,
	tracker *selection.Tracker,
	table *curated.Table,
	cfg domain.Config,
	metrics domain.Metrics,
	logger *zap.Logger,
) *orchestrator.Engine {
	return orchestrator.New(orchestrator.Options{
		Tools:       reg,
		Tracker:     tracker,
		Curated:     table,
		Credentials: cfg.Credentials(),
		Disabled:    config.DisabledTools(cfg),
		Logger:      logger,
		Metrics:     metrics,
	})
}

// NewGenerator returns nil when no generator is configured so the assistant
// answers offline.
func NewGenerator(ctx context.Context, cfg domain.Config, logger *zap.Logger) domain.Generator {
	generator, err := assistant.NewEinoGenerator(ctx, cfg.Generator)
	if err != nil {
		if errors.Is(err, domain.ErrGeneratorUnavailable) {
			logger.Info("generator not configured, assistant runs offline")
		} else {
			logger.Warn("generator init failed, assistant runs offline", zap.Error(err))
		}
		return nil
	}
	return generator
}

func NewAssistant(engine *orchestrator.Engine, generator domain.Generator, cfg domain.Config, logger *zap.Logger) (*assistant.Assistant, error) {
	return assistant.New(assistant.Options{
		Resolver:    engine,
		Generator:   generator,
		Tools:       engine,
		Model:       cfg.Generator.Model,
		Temperature: cfg.Generator.Temperature,
		Logger:      logger,
	})
}

func NewMCPServer(engine *orchestrator.Engine, logger *zap.Logger) (*mcpserver.Server, error) {
	return mcpserver.New(mcpserver.Options{
		Engine:  engine,
		Version: Version,
		Logger:  logger,
	})
}
