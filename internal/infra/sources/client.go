// Package sources holds the HTTP clients for every remote data source.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

const maxResponseBytes = 8 << 20

// Options configures a source client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *zap.Logger
	Metrics    domain.Metrics
}

type base struct {
	source  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
	metrics domain.Metrics
}

func newBase(source, defaultURL string, opts Options) base {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = time.Duration(domain.DefaultFetchTimeoutSeconds) * time.Second
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = domain.NoopMetrics{}
	}
	return base{
		source:  source,
		baseURL: baseURL,
		client:  client,
		logger:  logger.Named("sources").With(zap.String("source", source)),
		metrics: metrics,
	}
}

func (b base) get(ctx context.Context, path string, params url.Values, header http.Header) ([]byte, error) {
	target := b.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, domain.RemoteError(b.source, "build request", err)
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, domain.RemoteError(b.source, "request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, domain.RemoteError(b.source, "read body", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domain.RemoteError(b.source, "request", fmt.Errorf("%w: %d", domain.ErrRemoteStatus, resp.StatusCode))
	}
	return body, nil
}

func (b base) getJSON(ctx context.Context, path string, params url.Values, header http.Header, dst any) error {
	body, err := b.get(ctx, path, params, header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return domain.RemoteError(b.source, "decode", err)
	}
	return nil
}

// observe records the fetch outcome and logs failures at debug level.
func (b base) observe(count int, err error) {
	switch {
	case err != nil:
		b.metrics.ObserveFetch(b.source, domain.FetchStatusError)
		b.logger.Debug("remote fetch failed", zap.Error(err))
	case count == 0:
		b.metrics.ObserveFetch(b.source, domain.FetchStatusEmpty)
	default:
		b.metrics.ObserveFetch(b.source, domain.FetchStatusSuccess)
	}
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
