package app

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/diagnostics"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		domain.EnvSerpAPIKey, domain.EnvSearchEngine, domain.EnvHFToken, domain.EnvDefaultModel,
		domain.EnvLeaderboardURL, domain.EnvGoogleAPIKey, domain.EnvGeminiAPIKey,
		domain.EnvMaxArxivResults, domain.EnvRefreshInterval, domain.EnvLeaderboardTimeout,
		domain.EnvArxivDigestCategories,
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quantum.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func freePort(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())
	return addr
}

func openApp(t *testing.T, path string) *Application {
	t.Helper()
	application, cleanup, err := New(zaptest.NewLogger(t)).Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return application
}

func TestOpen_Defaults(t *testing.T) {
	clearEnv(t)
	application := openApp(t, "")

	assessments := application.Engine().Assess("Quel est le dernier papier sur RAG?")
	require.Len(t, assessments, len(domain.ToolOrder))
	for _, a := range assessments {
		if a.Tool == domain.ToolArxivLookup {
			assert.True(t, a.ShouldRun)
		}
	}

	settings := application.Assistant().Config()
	assert.Equal(t, domain.DefaultGeneratorModel, settings.Model)
	assert.Len(t, settings.Tools, len(domain.ToolOrder))
	assert.NotEmpty(t, application.Curated().Entries())
	assert.NotNil(t, application.MCP())
	assert.True(t, application.Scheduler().Enabled())

	details := application.Health().Report().Details
	assert.Equal(t, domain.CacheBackendMemory, details["cache_backend"])
	assert.Equal(t, "seed", details["curated_age"])
}

func TestOpen_OfflineChat(t *testing.T) {
	clearEnv(t)
	application := openApp(t, "")

	reply := application.Assistant().Chat(context.Background(), []domain.Message{
		{Role: domain.RoleUser, Content: "bonjour"},
	})
	assert.True(t, reply.Offline)
	assert.NotEmpty(t, reply.Content)
}

func TestOpen_BoltBackend(t *testing.T) {
	clearEnv(t)
	dbPath := filepath.Join(t.TempDir(), "cache", "results.db")
	path := writeConfig(t, fmt.Sprintf("cache:\n  backend: bolt\n  path: %s\n", dbPath))

	application, cleanup, err := New(zaptest.NewLogger(t)).Open(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, application)
	cleanup()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestOpen_InvalidConfig(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "generator:\n  temperature: 3\n")

	_, _, err := New(zaptest.NewLogger(t)).Open(context.Background(), path)
	require.Error(t, err)
	code, ok := domain.CodeFrom(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeInvalidArgument, code)
}

func TestApplyConfig(t *testing.T) {
	clearEnv(t)
	application := openApp(t, "")

	cfg := application.Config()
	cfg.Tools.Disabled = []string{string(domain.ToolArxivLookup)}
	cfg.Generator.Temperature = 0.9
	application.ApplyConfig(cfg)

	assert.False(t, application.Engine().ToolEnabled(domain.ToolArxivLookup))
	assert.InDelta(t, 0.9, application.Assistant().Config().Temperature, 1e-9)
	assert.Equal(t, cfg.Tools.Disabled, application.Config().Tools.Disabled)
}

func TestValidateConfig_Redacts(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "search:\n  serpapiKey: live-secret\ngenerator:\n  apiKey: ${QUANTUM_TEST_KEY}\n")
	t.Setenv("QUANTUM_TEST_KEY", "sk-test")

	cfg, err := New(zaptest.NewLogger(t)).ValidateConfig(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "***", cfg.Search.SerpAPIKey)
	assert.Equal(t, "***", cfg.Generator.APIKey)
}

func TestDoctor(t *testing.T) {
	clearEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"models":[]}`)
	}))
	defer srv.Close()
	path := writeConfig(t, fmt.Sprintf("leaderboard:\n  url: %s/api/leaderboard\n  timeoutSeconds: 2\n", srv.URL))

	report, err := New(zaptest.NewLogger(t)).Doctor(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, diagnostics.ExitOK, report.ExitCode, report.Error)
	assert.Equal(t, 2*time.Second, report.Timeout)
	assert.Equal(t, http.StatusOK, report.StatusCode)
}

func TestServe_ObservabilityEndpoints(t *testing.T) {
	clearEnv(t)
	addr := freePort(t)
	path := writeConfig(t, fmt.Sprintf(`leaderboard:
  refreshIntervalSeconds: 0
observability:
  listenAddress: %s
  enableMetrics: true
  enableHealthz: true
`, addr))
	application := openApp(t, path)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Serve(ctx, ServeOptions{ConfigPath: path}) }()

	base := "http://" + addr
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 20*time.Millisecond)

	application.Engine().Assess("leaderboard mmlu")
	resp, err := http.Get(base + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "quantum_tool_assessments_total")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestServe_ReloadsConfig(t *testing.T) {
	clearEnv(t)
	header := fmt.Sprintf("leaderboard:\n  refreshIntervalSeconds: 0\nobservability:\n  listenAddress: %s\n", freePort(t))
	path := writeConfig(t, header)
	application := openApp(t, path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = application.Serve(ctx, ServeOptions{ConfigPath: path}) }()

	// let the watcher register before writing
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(header+"tools:\n  disabled: [google_search]\n"), 0o600))

	require.Eventually(t, func() bool {
		return !application.Engine().ToolEnabled(domain.ToolWebSearch)
	}, 3*time.Second, 20*time.Millisecond)
}
