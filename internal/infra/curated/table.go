// Package curated serves the MT-Bench leaderboard table, refreshed from a
// remote snapshot when reachable.
package curated

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/format"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/normalize"
)

// Fetcher retrieves a fresh leaderboard.
type Fetcher interface {
	Leaderboard(ctx context.Context) ([]domain.CuratedEntry, error)
}

// Options configures a Table.
type Options struct {
	Fetcher Fetcher
	Seed    []domain.CuratedEntry
	TTL     time.Duration
	TopN    int
	Now     func() time.Time
	Logger  *zap.Logger
	Metrics domain.Metrics
}

type snapshot struct {
	entries     []domain.CuratedEntry
	refreshedAt time.Time
}

// Table holds the seed entries and the latest remote snapshot. The snapshot
// is replaced wholesale on each successful refresh.
type Table struct {
	seed    []domain.CuratedEntry
	remote  atomic.Pointer[snapshot]
	fetcher Fetcher
	gate    *refreshGate
	ttl     time.Duration
	topN    int
	now     func() time.Time
	logger  *zap.Logger
	metrics domain.Metrics
}

func NewTable(opts Options) *Table {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = time.Duration(domain.DefaultLeaderboardTTLSeconds) * time.Second
	}
	topN := opts.TopN
	if topN <= 0 {
		topN = domain.DefaultCuratedTopN
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = domain.NoopMetrics{}
	}
	return &Table{
		seed:    append([]domain.CuratedEntry(nil), opts.Seed...),
		fetcher: opts.Fetcher,
		gate:    newRefreshGate(),
		ttl:     ttl,
		topN:    topN,
		now:     now,
		logger:  logger.Named("curated"),
		metrics: metrics,
	}
}

// Entries returns the remote snapshot when present, otherwise the seed.
func (t *Table) Entries() []domain.CuratedEntry {
	if snap := t.remote.Load(); snap != nil && len(snap.entries) > 0 {
		return snap.entries
	}
	return t.seed
}

// RefreshedAt reports when the remote snapshot was last replaced.
func (t *Table) RefreshedAt() (time.Time, bool) {
	snap := t.remote.Load()
	if snap == nil {
		return time.Time{}, false
	}
	return snap.refreshedAt, true
}

// Refresh replaces the snapshot from the fetcher. Without force, a snapshot
// younger than the TTL is kept. On failure the previous table stays in effect.
func (t *Table) Refresh(ctx context.Context, force bool) domain.RefreshStatus {
	if status, fresh := t.cachedStatus(force); fresh {
		return status
	}
	if err := t.gate.Acquire(ctx); err != nil {
		return t.failure(err)
	}
	defer t.gate.Release()

	// A concurrent refresh may have completed while waiting.
	if status, fresh := t.cachedStatus(force); fresh {
		return status
	}
	if t.fetcher == nil {
		return t.failure(domain.E(domain.CodeConfigurationMissing, "curated refresh", "no leaderboard source", nil))
	}

	entries, err := t.fetcher.Leaderboard(ctx)
	if err == nil && len(entries) == 0 {
		err = domain.E(domain.CodeEmptyResult, "curated refresh", "", domain.ErrEmptyResult)
	}
	if err != nil {
		return t.failure(err)
	}

	now := t.now()
	t.remote.Store(&snapshot{entries: entries, refreshedAt: now})
	t.metrics.ObserveCuratedRefresh(domain.RefreshOutcomeSuccess, len(entries))
	t.logger.Info("curated table refreshed", zap.Int("entries", len(entries)))
	return domain.RefreshStatus{Success: true, UpdatedAt: now, Count: len(entries)}
}

func (t *Table) cachedStatus(force bool) (domain.RefreshStatus, bool) {
	if force {
		return domain.RefreshStatus{}, false
	}
	snap := t.remote.Load()
	if snap == nil || len(snap.entries) == 0 || t.now().Sub(snap.refreshedAt) >= t.ttl {
		return domain.RefreshStatus{}, false
	}
	t.metrics.ObserveCuratedRefresh(domain.RefreshOutcomeCached, len(snap.entries))
	return domain.RefreshStatus{Cached: true, UpdatedAt: snap.refreshedAt, Count: len(snap.entries)}, true
}

func (t *Table) failure(err error) domain.RefreshStatus {
	count := len(t.Entries())
	t.metrics.ObserveCuratedRefresh(domain.RefreshOutcomeFailure, count)
	t.logger.Warn("curated table refresh failed", zap.Error(err))
	status := domain.RefreshStatus{Error: err.Error(), Count: count}
	if snap := t.remote.Load(); snap != nil {
		status.UpdatedAt = snap.refreshedAt
	}
	return status
}

// References reports whether the query names the MT-Bench leaderboard.
func References(query string) bool {
	lowered := strings.ToLower(query)
	return strings.Contains(lowered, "mt-bench") || strings.Contains(lowered, "mt bench")
}

// Select returns entries whose model name or alias appears in the query. When
// none match it returns the top entries by MT-Bench score; ties keep table order.
func (t *Table) Select(query string) []domain.CuratedEntry {
	entries := t.Entries()
	normalizedQuery := normalize.Text(query)

	var matches []domain.CuratedEntry
	for _, entry := range entries {
		if matchesEntry(entry, normalizedQuery) {
			matches = append(matches, entry)
		}
	}
	if len(matches) > 0 {
		return matches
	}

	ranked := append([]domain.CuratedEntry(nil), entries...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].PrimaryScore() > ranked[j].PrimaryScore() })
	if len(ranked) > t.topN {
		ranked = ranked[:t.topN]
	}
	return ranked
}

// Summary renders the selected entries, or "" when the table is empty.
func (t *Table) Summary(query string) string {
	return format.CuratedTable(t.Select(query))
}

func matchesEntry(entry domain.CuratedEntry, normalizedQuery string) bool {
	candidates := append([]string{entry.Model}, entry.Aliases...)
	for _, alias := range candidates {
		if alias == "" {
			continue
		}
		if strings.Contains(normalizedQuery, normalize.Text(alias)) {
			return true
		}
	}
	return false
}
