// Package config loads the engine configuration from an optional YAML file
// plus environment overrides.
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

type Loader struct {
	logger *zap.Logger
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		return &Loader{logger: zap.NewNop()}
	}
	return &Loader{logger: logger.Named("config")}
}

type rawConfig struct {
	Generator     rawGenerator     `mapstructure:"generator"`
	Search        rawSearch        `mapstructure:"search"`
	HuggingFace   rawHuggingFace   `mapstructure:"huggingface"`
	Arxiv         rawArxiv         `mapstructure:"arxiv"`
	Cache         rawCache         `mapstructure:"cache"`
	Leaderboard   rawLeaderboard   `mapstructure:"leaderboard"`
	Tools         rawTools         `mapstructure:"tools"`
	Observability rawObservability `mapstructure:"observability"`
}

type rawGenerator struct {
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	APIKey      string  `mapstructure:"apiKey"`
	BaseURL     string  `mapstructure:"baseURL"`
}

type rawSearch struct {
	Engine     string `mapstructure:"engine"`
	SerpAPIKey string `mapstructure:"serpapiKey"`
}

type rawHuggingFace struct {
	Token string `mapstructure:"token"`
}

type rawArxiv struct {
	MaxResults       int      `mapstructure:"maxResults"`
	DigestCategories []string `mapstructure:"digestCategories"`
}

type rawCache struct {
	Backend    string `mapstructure:"backend"`
	TTLSeconds int    `mapstructure:"ttlSeconds"`
	Path       string `mapstructure:"path"`
	RedisAddr  string `mapstructure:"redisAddr"`
}

type rawLeaderboard struct {
	URL                    string `mapstructure:"url"`
	RefreshIntervalSeconds int    `mapstructure:"refreshIntervalSeconds"`
	TTLSeconds             int    `mapstructure:"ttlSeconds"`
	TimeoutSeconds         int    `mapstructure:"timeoutSeconds"`
}

type rawTools struct {
	Disabled []string `mapstructure:"disabled"`
}

type rawObservability struct {
	ListenAddress string `mapstructure:"listenAddress"`
	EnableMetrics bool   `mapstructure:"enableMetrics"`
	EnableHealthz bool   `mapstructure:"enableHealthz"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("generator.model", domain.DefaultGeneratorModel)
	v.SetDefault("generator.temperature", domain.DefaultGeneratorTemperature)
	v.SetDefault("generator.baseURL", domain.DefaultGeneratorBaseURL)
	v.SetDefault("search.engine", domain.DefaultSearchEngine)
	v.SetDefault("arxiv.maxResults", domain.DefaultMaxArxivResults)
	v.SetDefault("arxiv.digestCategories", domain.DefaultDigestCategories)
	v.SetDefault("cache.backend", domain.DefaultCacheBackend)
	v.SetDefault("cache.ttlSeconds", domain.DefaultCacheTTLSeconds)
	v.SetDefault("cache.path", domain.DefaultCachePath)
	v.SetDefault("cache.redisAddr", domain.DefaultRedisAddr)
	v.SetDefault("leaderboard.url", domain.DefaultLeaderboardURL)
	v.SetDefault("leaderboard.refreshIntervalSeconds", domain.DefaultLeaderboardRefreshSecs)
	v.SetDefault("leaderboard.ttlSeconds", domain.DefaultLeaderboardTTLSeconds)
	v.SetDefault("leaderboard.timeoutSeconds", domain.DefaultLeaderboardTimeoutSecs)
	v.SetDefault("observability.listenAddress", domain.DefaultObservabilityListenAddr)
	return v
}

// Load reads path (optional), applies environment overrides and validates the result.
// An empty path yields the defaults plus environment.
func (l *Loader) Load(ctx context.Context, path string) (domain.Config, error) {
	v := newViper()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return domain.Config{}, fmt.Errorf("read config: %w", err)
		}
		expanded, missing, err := newEnvExpander(nil).Expand(data)
		if err != nil {
			return domain.Config{}, err
		}
		if len(missing) > 0 {
			l.logger.Warn("missing environment variables in config", zap.String("path", path), zap.Strings("missing", missing))
		}
		if err := v.ReadConfig(bytes.NewReader(expanded)); err != nil {
			return domain.Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	var raw rawConfig
	if err := v.Unmarshal(&raw); err != nil {
		return domain.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return domain.Config{}, err
	}

	cfg := raw.toDomain()
	for _, warning := range applyEnv(&cfg, os.LookupEnv) {
		l.logger.Warn("ignoring environment override", zap.String("detail", warning))
	}
	if err := Validate(cfg); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

func (r rawConfig) toDomain() domain.Config {
	return domain.Config{
		Generator: domain.GeneratorConfig{
			Model:       r.Generator.Model,
			Temperature: r.Generator.Temperature,
			APIKey:      r.Generator.APIKey,
			BaseURL:     r.Generator.BaseURL,
		},
		Search: domain.SearchConfig{
			Engine:     r.Search.Engine,
			SerpAPIKey: r.Search.SerpAPIKey,
		},
		HuggingFace: domain.HuggingFaceConfig{Token: r.HuggingFace.Token},
		Arxiv: domain.ArxivConfig{
			MaxResults:       r.Arxiv.MaxResults,
			DigestCategories: r.Arxiv.DigestCategories,
		},
		Cache: domain.CacheConfig{
			Backend:    r.Cache.Backend,
			TTLSeconds: r.Cache.TTLSeconds,
			Path:       r.Cache.Path,
			RedisAddr:  r.Cache.RedisAddr,
		},
		Leaderboard: domain.LeaderboardConfig{
			URL:                    r.Leaderboard.URL,
			RefreshIntervalSeconds: r.Leaderboard.RefreshIntervalSeconds,
			TTLSeconds:             r.Leaderboard.TTLSeconds,
			TimeoutSeconds:         r.Leaderboard.TimeoutSeconds,
		},
		Tools: domain.ToolsConfig{Disabled: r.Tools.Disabled},
		Observability: domain.ObservabilityConfig{
			ListenAddress: r.Observability.ListenAddress,
			EnableMetrics: r.Observability.EnableMetrics,
			EnableHealthz: r.Observability.EnableHealthz,
		},
	}
}

// DisabledTools converts the configured names, dropping unknown ones.
func DisabledTools(cfg domain.Config) []domain.ToolName {
	var out []domain.ToolName
	for _, name := range cfg.Tools.Disabled {
		if tool, ok := domain.ParseToolName(name); ok {
			out = append(out, tool)
		}
	}
	return out
}

var errNoPath = errors.New("config path is required for watching")
