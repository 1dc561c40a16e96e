// Package app wires configuration, the engine and its collaborators for the CLI.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/config"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/diagnostics"
)

type App struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{logger: logger}
}

// LoadConfig reads the configuration at path; an empty path yields defaults
// plus environment overrides.
func (a *App) LoadConfig(ctx context.Context, path string) (domain.Config, error) {
	return config.NewLoader(a.logger).Load(ctx, path)
}

// Open loads the configuration and wires a full Application. The returned
// cleanup releases the cache backend.
func (a *App) Open(ctx context.Context, path string) (*Application, func(), error) {
	cfg, err := a.LoadConfig(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	application, cleanup, err := InitializeApplication(ctx, cfg, LoggingConfig{Logger: a.logger})
	if err != nil {
		return nil, nil, err
	}
	a.logger.Debug("application wired",
		zap.String("config", path),
		zap.String("cache", cfg.Cache.Backend),
		zap.Bool("generator", cfg.Generator.APIKey != ""),
	)
	return application, cleanup, nil
}

// ValidateConfig loads and validates the configuration, returning it with
// every credential masked.
func (a *App) ValidateConfig(ctx context.Context, path string) (domain.Config, error) {
	cfg, err := a.LoadConfig(ctx, path)
	if err != nil {
		return domain.Config{}, err
	}
	a.logger.Info("configuration validated", zap.String("config", path))
	return diagnostics.RedactConfig(cfg), nil
}

// Doctor probes the configured leaderboard endpoint.
func (a *App) Doctor(ctx context.Context, path string) (diagnostics.Report, error) {
	cfg, err := a.LoadConfig(ctx, path)
	if err != nil {
		return diagnostics.Report{}, err
	}
	timeout := time.Duration(cfg.Leaderboard.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = time.Duration(domain.DefaultLeaderboardTimeoutSecs) * time.Second
	}
	return diagnostics.CheckLeaderboard(ctx, cfg.Leaderboard.URL, timeout, diagnostics.Options{Logger: a.logger}), nil
}
