package app

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/assistant"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/config"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/curated"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/mcpserver"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/orchestrator"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/telemetry"
)

const mcpRoute = "/mcp"

// Application holds the wired engine and its collaborators.
type Application struct {
	config    domain.Config
	logger    *zap.Logger
	registry  *prometheus.Registry
	metrics   domain.Metrics
	health    *telemetry.HealthTracker
	engine    *orchestrator.Engine
	curated   *curated.Table
	scheduler *curated.Scheduler
	assistant *assistant.Assistant
	mcp       *mcpserver.Server
}

// ApplicationOptions captures dependencies and settings for Application.
type ApplicationOptions struct {
	Config    domain.Config
	Logger    *zap.Logger
	Registry  *prometheus.Registry
	Metrics   domain.Metrics
	Health    *telemetry.HealthTracker
	Engine    *orchestrator.Engine
	Curated   *curated.Table
	Scheduler *curated.Scheduler
	Assistant *assistant.Assistant
	MCP       *mcpserver.Server
}

// NewApplication constructs the application runtime.
func NewApplication(opts ApplicationOptions) *Application {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Application{
		config:    opts.Config,
		logger:    logger,
		registry:  opts.Registry,
		metrics:   opts.Metrics,
		health:    opts.Health,
		engine:    opts.Engine,
		curated:   opts.Curated,
		scheduler: opts.Scheduler,
		assistant: opts.Assistant,
		mcp:       opts.MCP,
	}
}

func (a *Application) Engine() *orchestrator.Engine     { return a.engine }
func (a *Application) Assistant() *assistant.Assistant  { return a.assistant }
func (a *Application) Curated() *curated.Table          { return a.curated }
func (a *Application) MCP() *mcpserver.Server           { return a.mcp }
func (a *Application) Config() domain.Config            { return a.config }
func (a *Application) Health() *telemetry.HealthTracker { return a.health }
func (a *Application) Scheduler() *curated.Scheduler    { return a.scheduler }

// ApplyConfig pushes the reloadable settings into the running engine and assistant.
func (a *Application) ApplyConfig(cfg domain.Config) {
	a.engine.SetDisabled(config.DisabledTools(cfg))
	if a.assistant != nil {
		a.assistant.SetModel(cfg.Generator.Model)
		if err := a.assistant.SetTemperature(cfg.Generator.Temperature); err != nil {
			a.logger.Warn("ignoring reloaded temperature", zap.Error(err))
		}
	}
	a.config = cfg
	a.logger.Info("configuration applied",
		zap.Int("disabled_tools", len(cfg.Tools.Disabled)),
		zap.Float64("temperature", cfg.Generator.Temperature),
	)
}

// ServeOptions configures Serve.
type ServeOptions struct {
	// ConfigPath enables the file watcher when set.
	ConfigPath string
}

// Serve runs the curated scheduler, the observability server and the config
// watcher until ctx is done.
func (a *Application) Serve(ctx context.Context, opts ServeOptions) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	obs := a.config.Observability
	serverErr := make(chan error, 1)
	var wg conc.WaitGroup

	wg.Go(func() {
		a.scheduler.Run(runCtx)
	})
	wg.Go(func() {
		err := telemetry.StartHTTPServer(runCtx, telemetry.HTTPServerOptions{
			Addr:          obs.ListenAddress,
			EnableMetrics: obs.EnableMetrics,
			EnableHealthz: obs.EnableHealthz,
			Health:        a.health,
			Registry:      a.registry,
			Routes:        map[string]http.Handler{mcpRoute: a.mcp.Handler()},
		}, a.logger)
		if err != nil {
			serverErr <- err
			cancel()
		}
	})
	if opts.ConfigPath != "" {
		watcher := config.NewWatcher(config.NewLoader(a.logger), opts.ConfigPath, a.logger)
		wg.Go(func() {
			if err := watcher.Run(runCtx, a.ApplyConfig); err != nil {
				a.logger.Warn("config watcher stopped", zap.Error(err))
			}
		})
	}

	a.logger.Info("quantum-mind serving",
		zap.String("version", Version),
		zap.String("listen", obs.ListenAddress),
		zap.Bool("scheduler", a.scheduler.Enabled()),
	)
	<-runCtx.Done()
	wg.Wait()

	select {
	case err := <-serverErr:
		return err
	default:
		return nil
	}
}
