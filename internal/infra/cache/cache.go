// Package cache stores fetched result sets keyed by tool namespace and composed terms.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

const (
	NamespaceHuggingFace = "hf"
	NamespaceBenchmarks  = "bench"
)

// Entry is one cached result set.
type Entry struct {
	Terms    string          `json:"terms"`
	Results  json.RawMessage `json:"results"`
	StoredAt time.Time       `json:"storedAt"`
}

// Store persists entries. Implementations never evict on their own account of
// age; freshness is decided by Cache on read.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Put(ctx context.Context, key string, entry Entry) error
	Close() error
}

// Key builds the store key for a namespace and composed terms.
func Key(namespace, terms string) string {
	return namespace + ":" + terms
}

// Options configures a Cache.
type Options struct {
	TTL     time.Duration
	Now     func() time.Time
	Logger  *zap.Logger
	Metrics domain.Metrics
}

// Cache applies the TTL-on-read policy over a Store.
type Cache struct {
	store   Store
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
	metrics domain.Metrics
}

func New(store Store, opts Options) *Cache {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = time.Duration(domain.DefaultCacheTTLSeconds) * time.Second
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
	if store == nil {
		store = NewMemory()
	}
	return &Cache{
		store:   store,
		ttl:     ttl,
		now:     now,
		logger:  logger.Named("cache"),
		metrics: metrics,
	}
}

// TTL returns the freshness window.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get decodes a fresh entry into dst. Stale, missing and undecodable entries
// are misses.
func (c *Cache) Get(ctx context.Context, namespace, terms string, dst any) bool {
	key := Key(namespace, terms)
	entry, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Debug("cache read failed", zap.String("key", key), zap.Error(err))
		ok = false
	}
	if ok && c.now().Sub(entry.StoredAt) >= c.ttl {
		ok = false
	}
	if ok {
		if err := json.Unmarshal(entry.Results, dst); err != nil {
			c.logger.Debug("cache entry decode failed", zap.String("key", key), zap.Error(err))
			ok = false
		}
	}
	result := domain.CacheMiss
	if ok {
		result = domain.CacheHit
	}
	c.metrics.ObserveCacheLookup(namespace, result)
	return ok
}

// Put overwrites the entry for namespace and terms.
func (c *Cache) Put(ctx context.Context, namespace, terms string, results any) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	entry := Entry{Terms: terms, Results: raw, StoredAt: c.now()}
	if err := c.store.Put(ctx, Key(namespace, terms), entry); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Close releases the underlying store.
func (c *Cache) Close() error {
	return c.store.Close()
}

// Fetch serves results for terms from the cache, calling fetch on a miss.
// Only non-empty results are stored; fetch errors are returned untouched.
func Fetch[T any](ctx context.Context, c *Cache, namespace, terms string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	var cached []T
	if c.Get(ctx, namespace, terms, &cached) {
		return cached, nil
	}
	results, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	// Empty sets are not stored so the next request asks the remote again.
	if len(results) > 0 {
		if err := c.Put(ctx, namespace, terms, results); err != nil {
			c.logger.Warn("cache write failed", zap.String("namespace", namespace), zap.Error(err))
		}
	}
	return results, nil
}
