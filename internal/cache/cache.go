package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/trescomas/findata/internal/metrics"
)

// Category selects the TTL applied to an entry at read time.
type Category string

const (
	Price      Category = "price"
	Historical Category = "historical"
	Filing     Category = "filing"
)

// DefaultTTL applies to categories with no configured TTL.
const DefaultTTL = time.Hour

// TTLs maps each category to its expiry. Passed in as configuration; the
// zero map falls back to DefaultTTL for everything.
type TTLs map[Category]time.Duration

// DefaultTTLs returns the standard expiry policy.
func DefaultTTLs() TTLs {
	return TTLs{
		Price:      time.Hour,
		Historical: 24 * time.Hour,
		Filing:     7 * 24 * time.Hour,
	}
}

func (t TTLs) ttl(cat Category) time.Duration {
	if d, ok := t[cat]; ok && d > 0 {
		return d
	}
	return DefaultTTL
}

// Store is the minimal backing-store surface the cache needs. Implemented
// by the Redis adapter in production and by an in-memory map in tests.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Keys(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, keys ...string) (int64, error)
}

// envelope wraps a cached value with the time it was stored. Never exposed
// outside this package.
type envelope struct {
	StoredAt int64           `json:"stored_at"` // unix seconds
	Value    json.RawMessage `json:"value"`
}

// Cache is a process-wide expiring key/value store. Safe for concurrent
// use as long as the backing Store is.
type Cache struct {
	store  Store // nil when disabled
	ttls   TTLs
	logger *slog.Logger

	now func() time.Time
}

// New creates a cache over the given backing store. A nil store yields a
// disabled cache.
func New(store Store, ttls TTLs, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	if ttls == nil {
		ttls = DefaultTTLs()
	}
	return &Cache{
		store:  store,
		ttls:   ttls,
		logger: logger,
		now:    time.Now,
	}
}

// Disabled reports whether the cache has no usable backing store.
func (c *Cache) Disabled() bool {
	return c.store == nil
}

// Get looks up key and decodes the cached value into dest. Returns false
// on a miss, an expired entry, a decode failure, or a disabled cache.
// Expired entries are left in place; reclamation is the backing store's
// concern.
func (c *Cache) Get(ctx context.Context, key string, cat Category, dest any) bool {
	if c.store == nil {
		metrics.CacheMisses.WithLabelValues(string(cat)).Inc()
		return false
	}

	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Error("cache read failed", "key", key, "error", err)
		metrics.CacheMisses.WithLabelValues(string(cat)).Inc()
		return false
	}
	if !found {
		metrics.CacheMisses.WithLabelValues(string(cat)).Inc()
		return false
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.logger.Warn("cache entry corrupt", "key", key, "error", err)
		metrics.CacheMisses.WithLabelValues(string(cat)).Inc()
		return false
	}

	age := c.now().Sub(time.Unix(env.StoredAt, 0))
	if age > c.ttls.ttl(cat) {
		c.logger.Debug("cache entry expired", "key", key, "age", age)
		metrics.CacheMisses.WithLabelValues(string(cat)).Inc()
		return false
	}

	if err := json.Unmarshal(env.Value, dest); err != nil {
		c.logger.Warn("cache value decode failed", "key", key, "error", err)
		metrics.CacheMisses.WithLabelValues(string(cat)).Inc()
		return false
	}

	metrics.CacheHits.WithLabelValues(string(cat)).Inc()
	return true
}

// Set stores value under key, stamped with the current time. Reports false
// when the cache is disabled or the write fails.
func (c *Cache) Set(ctx context.Context, key string, value any, cat Category) bool {
	if c.store == nil {
		return false
	}

	inner, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache value encode failed", "key", key, "error", err)
		return false
	}

	raw, err := json.Marshal(envelope{
		StoredAt: c.now().Unix(),
		Value:    inner,
	})
	if err != nil {
		c.logger.Warn("cache envelope encode failed", "key", key, "error", err)
		return false
	}

	if err := c.store.Set(ctx, key, raw); err != nil {
		c.logger.Error("cache write failed", "key", key, "error", err)
		return false
	}

	metrics.CacheSets.WithLabelValues(string(cat)).Inc()
	return true
}

// Clear removes entries whose key contains pattern as a substring; an empty
// pattern wipes everything. Returns the count removed.
func (c *Cache) Clear(ctx context.Context, pattern string) int {
	if c.store == nil {
		return 0
	}

	keys, err := c.store.Keys(ctx)
	if err != nil {
		c.logger.Error("cache key scan failed", "error", err)
		return 0
	}

	var matched []string
	for _, k := range keys {
		if pattern == "" || strings.Contains(k, pattern) {
			matched = append(matched, k)
		}
	}
	if len(matched) == 0 {
		return 0
	}

	n, err := c.store.Delete(ctx, matched...)
	if err != nil {
		c.logger.Error("cache clear failed", "pattern", pattern, "error", err)
		return 0
	}

	c.logger.Info("cache cleared", "pattern", pattern, "removed", n)
	return int(n)
}
