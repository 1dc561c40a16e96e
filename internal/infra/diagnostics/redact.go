package diagnostics

import (
	"net/url"
	"strings"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

const redacted = "***"

var sensitiveKeys = []string{
	"token",
	"secret",
	"authorization",
	"api_key",
	"apikey",
	"password",
}

// RedactValue masks the value if the key is sensitive. URL values keep their
// shape but lose any embedded password.
func RedactValue(key, value string) string {
	if value == "" {
		return ""
	}
	if ContainsSensitiveKey(key) {
		return redacted
	}
	if parsed, err := url.Parse(value); err == nil && parsed.User != nil {
		if _, ok := parsed.User.Password(); ok {
			parsed.User = url.UserPassword(parsed.User.Username(), redacted)
			return parsed.String()
		}
	}
	return value
}

// RedactMap redacts values for sensitive keys.
func RedactMap(input map[string]string) map[string]string {
	if len(input) == 0 {
		return nil
	}
	out := make(map[string]string, len(input))
	for key, value := range input {
		out[key] = RedactValue(key, value)
	}
	return out
}

// ContainsSensitiveKey reports whether the key should be redacted.
func ContainsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, needle := range sensitiveKeys {
		if strings.Contains(lower, needle) {
			return true
		}
	}
	return false
}

// RedactConfig masks every credential so the configuration can be printed.
func RedactConfig(cfg domain.Config) domain.Config {
	cfg.Generator.APIKey = RedactValue("api_key", cfg.Generator.APIKey)
	cfg.Search.SerpAPIKey = RedactValue("api_key", cfg.Search.SerpAPIKey)
	cfg.HuggingFace.Token = RedactValue("token", cfg.HuggingFace.Token)
	cfg.Cache.RedisAddr = RedactValue("redis_addr", cfg.Cache.RedisAddr)
	return cfg
}

// truncate shortens value to limit bytes, appending "..." when it cuts.
func truncate(value string, limit int) string {
	if limit <= 0 || len(value) <= limit {
		return value
	}
	if limit <= 3 {
		return value[:limit]
	}
	return value[:limit-3] + "..."
}
