package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

const (
	SourceLMSYS     = "lmsys"
	LMSYSSourceName = "LMSYS API"
	LMSYSLink       = "https://chat.lmsys.org/?leaderboard"
)

type lmsysModel struct {
	Model   string   `json:"model"`
	Size    string   `json:"size"`
	MTBench *float64 `json:"mt_bench"`
	MMLU    *float64 `json:"mmlu"`
	Date    string   `json:"date"`
}

// LMSYS fetches the chatbot arena leaderboard snapshot.
type LMSYS struct {
	base
	path string
}

// NewLMSYS builds a client for a full leaderboard URL.
func NewLMSYS(opts Options, leaderboardURL string) (*LMSYS, error) {
	if leaderboardURL == "" {
		leaderboardURL = domain.DefaultLeaderboardURL
	}
	parsed, err := url.Parse(leaderboardURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid leaderboard url %q", leaderboardURL)
	}
	opts.BaseURL = parsed.Scheme + "://" + parsed.Host
	path := parsed.EscapedPath()
	if parsed.RawQuery != "" {
		path += "?" + parsed.RawQuery
	}
	return &LMSYS{base: newBase(SourceLMSYS, opts.BaseURL, opts), path: path}, nil
}

// Leaderboard returns every model of the snapshot as curated entries.
func (l *LMSYS) Leaderboard(ctx context.Context) ([]domain.CuratedEntry, error) {
	var payload struct {
		Models []lmsysModel `json:"models"`
	}
	if err := l.getJSON(ctx, l.path, nil, nil, &payload); err != nil {
		l.observe(0, err)
		return nil, err
	}
	if payload.Models == nil {
		err := domain.RemoteError(l.source, "decode", fmt.Errorf("%w: models field missing", domain.ErrEmptyResult))
		l.observe(0, err)
		return nil, err
	}

	entries := make([]domain.CuratedEntry, 0, len(payload.Models))
	for _, model := range payload.Models {
		name := strings.TrimSpace(model.Model)
		if name == "" {
			name = "Unknown"
		}
		size := model.Size
		if size == "" {
			size = "N/A"
		}
		entries = append(entries, domain.CuratedEntry{
			Model:   name,
			Size:    size,
			MTBench: model.MTBench,
			MMLU:    model.MMLU,
			Source:  LMSYSSourceName,
			Date:    model.Date,
			Link:    LMSYSLink,
		})
	}
	l.observe(len(entries), nil)
	return entries, nil
}
