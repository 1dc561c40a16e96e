package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

// applyEnv overlays the recognized environment variables on cfg. It returns a
// warning for every variable that is set but cannot be parsed.
func applyEnv(cfg *domain.Config, lookup func(string) (string, bool)) []string {
	var warnings []string
	str := func(key string, dst *string) {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			*dst = strings.TrimSpace(value)
		}
	}
	num := func(key string, dst *int) {
		value, ok := lookup(key)
		if !ok || strings.TrimSpace(value) == "" {
			return
		}
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s=%q is not an integer", key, value))
			return
		}
		*dst = parsed
	}

	str(domain.EnvSerpAPIKey, &cfg.Search.SerpAPIKey)
	str(domain.EnvSearchEngine, &cfg.Search.Engine)
	str(domain.EnvHFToken, &cfg.HuggingFace.Token)
	str(domain.EnvDefaultModel, &cfg.Generator.Model)
	str(domain.EnvLeaderboardURL, &cfg.Leaderboard.URL)
	// GEMINI_API_KEY wins over GOOGLE_API_KEY
	str(domain.EnvGoogleAPIKey, &cfg.Generator.APIKey)
	str(domain.EnvGeminiAPIKey, &cfg.Generator.APIKey)
	num(domain.EnvMaxArxivResults, &cfg.Arxiv.MaxResults)
	num(domain.EnvRefreshInterval, &cfg.Leaderboard.RefreshIntervalSeconds)
	num(domain.EnvLeaderboardTimeout, &cfg.Leaderboard.TimeoutSeconds)

	if value, ok := lookup(domain.EnvArxivDigestCategories); ok {
		if categories := splitList(value); len(categories) > 0 {
			cfg.Arxiv.DigestCategories = categories
		}
	}
	return warnings
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
