// Package config loads aggregator configuration from YAML with
// environment-variable expansion, defaulting, and validation.
package config

import (
	"time"

	"github.com/trescomas/findata/internal/cache"
	"github.com/trescomas/findata/internal/store"
)

// Config is the root configuration for an aggregator instance.
type Config struct {
	Instance   InstanceConfig   `yaml:"instance"`
	MarketData MarketDataConfig `yaml:"market_data"`
	Filings    FilingsConfig    `yaml:"filings"`
	Limits     LimitsConfig     `yaml:"limits"`
	Cache      CacheConfig      `yaml:"cache"`
	Database   DatabaseConfig   `yaml:"database"`
	Refresh    RefreshConfig    `yaml:"refresh"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// InstanceConfig identifies this aggregator.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// MarketDataConfig holds market-data provider settings.
type MarketDataConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// FilingsConfig holds regulatory-filings provider settings. The provider
// requires a descriptive User-Agent identifying the caller.
type FilingsConfig struct {
	DirectoryURL string        `yaml:"directory_url"`
	DataURL      string        `yaml:"data_url"`
	UserAgent    string        `yaml:"user_agent"`
	Timeout      time.Duration `yaml:"timeout"`
}

// LimitsConfig tunes the per-provider rate limiters.
type LimitsConfig struct {
	// Filings provider: fixed request spacing from a requests-per-second
	// ceiling.
	FilingsRPS float64 `yaml:"filings_rps"`

	// Market-data provider: windowed counter with exponential backoff.
	MarketWindow     time.Duration `yaml:"market_window"`
	MarketMinSpacing time.Duration `yaml:"market_min_spacing"`
	MarketThreshold  int           `yaml:"market_threshold"`
	MarketMaxDelay   time.Duration `yaml:"market_max_delay"`
}

// CacheConfig holds the Redis backing store settings. Leaving Redis.Addr
// empty runs the pipeline uncached.
type CacheConfig struct {
	Redis cache.RedisConfig `yaml:"redis"`

	PriceTTL      time.Duration `yaml:"price_ttl"`
	HistoricalTTL time.Duration `yaml:"historical_ttl"`
	FilingTTL     time.Duration `yaml:"filing_ttl"`
}

// TTLs converts the configured durations into the cache's category map.
func (c CacheConfig) TTLs() cache.TTLs {
	return cache.TTLs{
		cache.Price:      c.PriceTTL,
		cache.Historical: c.HistoricalTTL,
		cache.Filing:     c.FilingTTL,
	}
}

// DatabaseConfig holds the PostgreSQL document store connection. Leaving
// Postgres.Host empty disables persistence.
type DatabaseConfig struct {
	Postgres store.Config `yaml:"postgres"`
}

// RefreshConfig holds watchlist refresher settings.
type RefreshConfig struct {
	Interval  time.Duration `yaml:"interval"`
	Watchlist []string      `yaml:"watchlist"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
