// Package diagnostics probes the connectivity of remote sources.
package diagnostics

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Exit codes returned by the doctor command, one per failing stage.
const (
	ExitOK         = 0
	ExitInvalidURL = 2
	ExitDNS        = 3
	ExitTLS        = 4
	ExitTimeout    = 5
	ExitProxy      = 6
	ExitRequest    = 7
)

const (
	previewLimit   = 400
	errorBodyLimit = 200
)

// HostResolver resolves a host name to addresses.
type HostResolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

type Options struct {
	Resolver   HostResolver
	HTTPClient *http.Client
	Logger     *zap.Logger
	Getenv     func(string) string
}

var proxyVars = []string{"HTTPS_PROXY", "HTTP_PROXY", "NO_PROXY"}

// Report is the outcome of a leaderboard connectivity check.
type Report struct {
	URL         string            `json:"url"`
	Timeout     time.Duration     `json:"timeout"`
	Proxy       map[string]string `json:"proxy,omitempty"`
	Addresses   []string          `json:"addresses,omitempty"`
	DNSLatency  time.Duration     `json:"dnsLatency,omitempty"`
	StatusCode  int               `json:"statusCode,omitempty"`
	ContentType string            `json:"contentType,omitempty"`
	Latency     time.Duration     `json:"latency,omitempty"`
	Preview     string            `json:"preview,omitempty"`
	Error       string            `json:"error,omitempty"`
	Hint        string            `json:"hint,omitempty"`
	ExitCode    int               `json:"exitCode"`
}

func (r Report) OK() bool { return r.ExitCode == ExitOK }

// CheckLeaderboard resolves the host of rawURL, then issues a GET and previews
// the body. The first failing stage sets ExitCode.
func CheckLeaderboard(ctx context.Context, rawURL string, timeout time.Duration, opts Options) Report {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("doctor")
	report := Report{URL: rawURL, Timeout: timeout, Proxy: proxySettings(opts.Getenv)}

	parsed, err := url.Parse(rawURL)
	if err != nil || !strings.HasPrefix(parsed.Scheme, "http") {
		report.ExitCode = ExitInvalidURL
		report.Error = fmt.Sprintf("URL invalide pour LMSYS_API_URL: %s", rawURL)
		return report
	}
	host := parsed.Hostname()
	if host == "" {
		report.ExitCode = ExitInvalidURL
		report.Error = fmt.Sprintf("Impossible d'extraire le nom d'hôte depuis %s", rawURL)
		return report
	}

	resolver := opts.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	start := time.Now()
	addrs, err := resolver.LookupHost(ctx, host)
	report.DNSLatency = time.Since(start)
	if err != nil {
		report.ExitCode = ExitDNS
		report.Error = fmt.Sprintf("Échec DNS pour %s: %v", host, err)
		logger.Warn("dns lookup failed", zap.String("host", host), zap.Error(err))
		return report
	}
	report.Addresses = uniqueSorted(addrs)

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		report.ExitCode = ExitInvalidURL
		report.Error = err.Error()
		return report
	}

	start = time.Now()
	resp, err := client.Do(req)
	report.Latency = time.Since(start)
	if err != nil {
		report.ExitCode, report.Hint = classify(err)
		report.Error = err.Error()
		logger.Warn("leaderboard request failed", zap.Int("exit_code", report.ExitCode), zap.Error(err))
		return report
	}
	defer resp.Body.Close()

	report.StatusCode = resp.StatusCode
	report.ContentType = resp.Header.Get("Content-Type")
	if report.ContentType == "" {
		report.ContentType = "?"
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		report.ExitCode = ExitRequest
		report.Preview = truncate(string(body), errorBodyLimit)
		report.Error = fmt.Sprintf("Réponse HTTP %d", resp.StatusCode)
		return report
	}
	report.Preview = preview(body)
	return report
}

func classify(err error) (int, string) {
	var certErr *tls.CertificateVerificationError
	var unknownAuthority x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	var recordErr tls.RecordHeaderError
	switch {
	case errors.As(err, &certErr), errors.As(err, &unknownAuthority),
		errors.As(err, &hostnameErr), errors.As(err, &recordErr):
		return ExitTLS, "Vérifiez les certificats racine et les outils de filtrage HTTPS."
	case strings.Contains(err.Error(), "proxyconnect"):
		return ExitProxy, "Vérifiez les variables HTTPS_PROXY/HTTP_PROXY."
	case errors.Is(err, context.DeadlineExceeded):
		return ExitTimeout, "Pare-feu/proxy ou coupure réseau probable."
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ExitTimeout, "Pare-feu/proxy ou coupure réseau probable."
	}
	return ExitRequest, ""
}

// preview keeps the first two keys of an object or the first two items of an
// array; other bodies are truncated text.
func preview(body []byte) string {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return truncate(string(body), previewLimit)
	}
	switch v := decoded.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		if len(keys) > 2 {
			keys = keys[:2]
		}
		trimmed := make(map[string]any, len(keys))
		for _, key := range keys {
			trimmed[key] = v[key]
		}
		decoded = trimmed
	case []any:
		if len(v) > 2 {
			decoded = v[:2]
		}
	}
	pretty, err := json.MarshalIndent(decoded, "", "  ")
	if err != nil {
		return truncate(string(body), previewLimit)
	}
	return string(pretty)
}

func proxySettings(getenv func(string) string) map[string]string {
	if getenv == nil {
		getenv = os.Getenv
	}
	found := make(map[string]string)
	for _, key := range proxyVars {
		value := getenv(key)
		if value == "" {
			value = getenv(strings.ToLower(key))
		}
		if value != "" {
			found[key] = value
		}
	}
	return RedactMap(found)
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}
