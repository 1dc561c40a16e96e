package curated

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/telemetry"
)

func score(v float64) *float64 { return &v }

type fakeFetcher struct {
	mu      sync.Mutex
	calls   int
	entries []domain.CuratedEntry
	err     error
}

func (f *fakeFetcher) Leaderboard(context.Context) ([]domain.CuratedEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.entries, f.err
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func seedTable(t *testing.T, opts Options) *Table {
	t.Helper()
	seed, err := Seed()
	require.NoError(t, err)
	opts.Seed = seed
	return NewTable(opts)
}

func models(entries []domain.CuratedEntry) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Model)
	}
	return out
}

func TestSeed(t *testing.T) {
	seed, err := Seed()
	require.NoError(t, err)
	require.Len(t, seed, 6)
	assert.Equal(t, "GPT-4 Turbo", seed[0].Model)
	assert.Nil(t, seed[0].MMLU)
	assert.InDelta(t, 9.32, seed[0].PrimaryScore(), 1e-9)
	assert.Equal(t, []string{"gpt-4-turbo", "gpt4-turbo"}, seed[0].Aliases)

	_, err = parseSeed([]byte("title = 'x'"))
	assert.Error(t, err)
}

func TestReferences(t *testing.T) {
	assert.True(t, References("Scores MT-Bench de Llama ?"))
	assert.True(t, References("mt bench"))
	assert.False(t, References("mtbench"))
}

func TestSelect_AliasMatch(t *testing.T) {
	table := seedTable(t, Options{})

	assert.Equal(t, []string{"Claude 3.5 Sonnet"}, models(table.Select("MT-Bench de claude-sonnet ?")))
	assert.Equal(t, []string{"GPT-4 Turbo", "Mistral Large 2"}, models(table.Select("mt-bench gpt4-turbo vs Mistral Large 2")))
}

func TestSelect_TopNStable(t *testing.T) {
	table := NewTable(Options{Seed: []domain.CuratedEntry{
		{Model: "alpha", MTBench: score(8)},
		{Model: "bravo", MTBench: score(9)},
		{Model: "zulu"},
		{Model: "delta", MTBench: score(8)},
		{Model: "xray", MTBench: score(8)},
		{Model: "foxtrot", MTBench: score(7)},
	}})

	assert.Equal(t, []string{"bravo", "alpha", "delta", "xray"}, models(table.Select("mt-bench")))
	assert.Equal(t, []string{"bravo", "alpha", "delta", "xray"}, models(table.Select("MT Bench classement")))
}

func TestSummary(t *testing.T) {
	table := seedTable(t, Options{})
	out := table.Summary("MT-Bench gemini-pro")
	assert.Contains(t, out, "| Gemini 1.5 Pro | ? | 8.63 | 85.9 | [Google (2024-05)](https://deepmind.google/technologies/gemini/) |")

	assert.Empty(t, NewTable(Options{}).Summary("mt-bench"))
}

func TestRefresh_SuccessSwapsAndCaches(t *testing.T) {
	now := time.Unix(1000, 0)
	fetcher := &fakeFetcher{entries: []domain.CuratedEntry{{Model: "Remote", MTBench: score(9.9)}}}
	table := seedTable(t, Options{Fetcher: fetcher, TTL: time.Hour, Now: func() time.Time { return now }})

	status := table.Refresh(context.Background(), false)
	assert.True(t, status.Success)
	assert.Equal(t, 1, status.Count)
	assert.Equal(t, []string{"Remote"}, models(table.Entries()))

	now = now.Add(30 * time.Minute)
	status = table.Refresh(context.Background(), false)
	assert.True(t, status.Cached)
	assert.Equal(t, 1, fetcher.Calls())

	status = table.Refresh(context.Background(), true)
	assert.True(t, status.Success)
	assert.Equal(t, 2, fetcher.Calls())

	now = now.Add(2 * time.Hour)
	table.Refresh(context.Background(), false)
	assert.Equal(t, 3, fetcher.Calls())
}

func TestRefresh_FailureKeepsPreviousTable(t *testing.T) {
	fetcher := &fakeFetcher{entries: []domain.CuratedEntry{{Model: "Remote"}}}
	table := seedTable(t, Options{Fetcher: fetcher})
	require.True(t, table.Refresh(context.Background(), true).Success)

	fetcher.entries = nil
	fetcher.err = errors.New("unreachable")
	status := table.Refresh(context.Background(), true)
	assert.False(t, status.Success)
	assert.Contains(t, status.Error, "unreachable")
	assert.Equal(t, []string{"Remote"}, models(table.Entries()))

	fetcher.err = nil
	status = table.Refresh(context.Background(), true)
	assert.NotEmpty(t, status.Error)
	assert.Equal(t, []string{"Remote"}, models(table.Entries()))
}

func TestRefresh_FailureWithoutSnapshotServesSeed(t *testing.T) {
	table := seedTable(t, Options{Fetcher: &fakeFetcher{err: errors.New("down")}})
	status := table.Refresh(context.Background(), false)

	assert.Equal(t, 6, status.Count)
	assert.Len(t, table.Entries(), 6)
	_, ok := table.RefreshedAt()
	assert.False(t, ok)
}

func TestScheduler_DisabledReturnsImmediately(t *testing.T) {
	fetcher := &fakeFetcher{}
	scheduler := NewScheduler(seedTable(t, Options{Fetcher: fetcher}), 0, nil)
	assert.False(t, scheduler.Enabled())

	done := make(chan struct{})
	go func() {
		scheduler.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled scheduler did not return")
	}
	assert.Zero(t, fetcher.Calls())
}

func TestScheduler_RefreshesUntilCanceled(t *testing.T) {
	fetcher := &fakeFetcher{entries: []domain.CuratedEntry{{Model: "Remote"}}}
	table := seedTable(t, Options{Fetcher: fetcher})
	scheduler := NewScheduler(table, 10*time.Millisecond, nil)
	health := telemetry.NewHealthTracker()
	scheduler.Monitor(health)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return fetcher.Calls() >= 2 }, time.Second, 5*time.Millisecond)
	checks := health.Report().Checks
	require.Len(t, checks, 1)
	assert.Equal(t, "curated_refresh", checks[0].Name)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Equal(t, []string{"Remote"}, models(table.Entries()))
	assert.Empty(t, health.Report().Checks)
}

func TestRefreshGate_SerializesAcquire(t *testing.T) {
	gate := newRefreshGate()
	ctx := context.Background()
	require.NoError(t, gate.Acquire(ctx))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, gate.Acquire(canceled), context.Canceled)

	gate.Release()
	require.NoError(t, gate.Acquire(ctx))
}
