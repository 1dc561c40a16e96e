package domain

import "time"

// Config is the resolved runtime configuration.
type Config struct {
	Generator     GeneratorConfig
	Search        SearchConfig
	HuggingFace   HuggingFaceConfig
	Arxiv         ArxivConfig
	Cache         CacheConfig
	Leaderboard   LeaderboardConfig
	Tools         ToolsConfig
	Observability ObservabilityConfig
}

type GeneratorConfig struct {
	Model       string  `validate:"required"`
	Temperature float64 `validate:"gte=0,lte=1"`
	APIKey      string
	BaseURL     string `validate:"omitempty,url"`
}

type SearchConfig struct {
	Engine     string `validate:"required"`
	SerpAPIKey string
}

type HuggingFaceConfig struct {
	Token string
}

type ArxivConfig struct {
	MaxResults       int
	DigestCategories []string
}

type CacheConfig struct {
	Backend    string `validate:"oneof=memory bolt redis"`
	TTLSeconds int    `validate:"gt=0"`
	Path       string `validate:"required_if=Backend bolt"`
	RedisAddr  string `validate:"required_if=Backend redis"`
}

// TTL returns the cache TTL as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

type LeaderboardConfig struct {
	URL                    string `validate:"required,url"`
	RefreshIntervalSeconds int
	TTLSeconds             int `validate:"gt=0"`
	TimeoutSeconds         int `validate:"gt=0"`
}

// RefreshInterval returns the scheduler period; zero or negative disables the scheduler.
func (c LeaderboardConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

type ToolsConfig struct {
	Disabled []string `validate:"dive,toolname"`
}

type ObservabilityConfig struct {
	ListenAddress string `validate:"required_with=EnableMetrics"`
	EnableMetrics bool
	EnableHealthz bool
}

// Credentials exposes the secrets a tool can require by name.
type Credentials struct {
	SerpAPIKey       string
	HuggingFaceToken string
}

// Has reports whether the named credential is set.
func (c Credentials) Has(name string) bool {
	switch name {
	case CredentialSerpAPI:
		return c.SerpAPIKey != ""
	case CredentialHuggingFace:
		return c.HuggingFaceToken != ""
	case "":
		return true
	default:
		return false
	}
}

const (
	CredentialSerpAPI     = "serpapi_key"
	CredentialHuggingFace = "hf_token"
)

// Credentials derives the credential bag from the configuration.
func (c Config) Credentials() Credentials {
	return Credentials{
		SerpAPIKey:       c.Search.SerpAPIKey,
		HuggingFaceToken: c.HuggingFace.Token,
	}
}
