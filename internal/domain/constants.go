package domain

const (
	DefaultGeneratorModel          = "gemini-2.5-flash-lite"
	DefaultGeneratorTemperature    = 0.5
	DefaultGeneratorBaseURL        = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultSearchEngine            = "serpapi"
	DefaultMaxArxivResults         = 3
	DefaultCacheBackend            = CacheBackendMemory
	DefaultCacheTTLSeconds         = 3600
	DefaultCachePath               = "~/.quantum-mind/cache.db"
	DefaultRedisAddr               = "localhost:6379"
	DefaultLeaderboardURL          = "https://chat.lmsys.org/api/leaderboard"
	DefaultLeaderboardRefreshSecs  = 14400
	DefaultLeaderboardTTLSeconds   = 3600
	DefaultLeaderboardTimeoutSecs  = 6
	DefaultObservabilityListenAddr = "0.0.0.0:9090"
	DefaultFetchTimeoutSeconds     = 8
	DefaultStrongWeight            = 2
	DefaultWeakWeight              = 1
	DefaultMinScore                = 2
	DefaultCuratedTopN             = 4
	MaxDigestResults               = 3
)

// DefaultDigestCategories lists the arXiv categories scanned by the digest tool.
var DefaultDigestCategories = []string{"cs.AI", "cs.CL", "cs.CV", "cs.LG", "stat.ML"}

const (
	CacheBackendMemory = "memory"
	CacheBackendBolt   = "bolt"
	CacheBackendRedis  = "redis"
)

// Environment variables recognized on top of the config file.
const (
	EnvSerpAPIKey            = "SERPAPI_KEY"
	EnvSearchEngine          = "SEARCH_ENGINE"
	EnvHFToken               = "HF_TOKEN"
	EnvMaxArxivResults       = "MAX_ARXIV_RESULTS"
	EnvArxivDigestCategories = "ARXIV_DIGEST_CATEGORIES"
	EnvRefreshInterval       = "MT_BENCH_REFRESH_INTERVAL"
	EnvGeminiAPIKey          = "GEMINI_API_KEY"
	EnvGoogleAPIKey          = "GOOGLE_API_KEY"
	EnvDefaultModel          = "DEFAULT_MODEL"
	EnvLeaderboardURL        = "LMSYS_API_URL"
	EnvLeaderboardTimeout    = "LMSYS_TIMEOUT"
)
