package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultMarketDataURL = "https://query1.finance.yahoo.com"
	DefaultDirectoryURL  = "https://www.sec.gov"
	DefaultDataURL       = "https://data.sec.gov"
	DefaultAPITimeout    = 30 * time.Second

	DefaultFilingsRPS       = 10.0
	DefaultMarketWindow     = 1 * time.Hour
	DefaultMarketMinSpacing = 1 * time.Second
	DefaultMarketThreshold  = 5
	DefaultMarketMaxDelay   = 30 * time.Second

	DefaultPriceTTL      = 1 * time.Hour
	DefaultHistoricalTTL = 24 * time.Hour
	DefaultFilingTTL     = 7 * 24 * time.Hour

	DefaultDBPort    = 5432
	DefaultDBSSLMode = "prefer"
	DefaultMaxConns  = 10
	DefaultMinConns  = 2

	DefaultRefreshInterval = 1 * time.Hour

	DefaultMetricsPort = 9090
	DefaultMetricsPath = "/metrics"
)

func (c *Config) applyDefaults() {
	// Provider defaults
	if c.MarketData.BaseURL == "" {
		c.MarketData.BaseURL = DefaultMarketDataURL
	}
	if c.MarketData.Timeout == 0 {
		c.MarketData.Timeout = DefaultAPITimeout
	}
	if c.Filings.DirectoryURL == "" {
		c.Filings.DirectoryURL = DefaultDirectoryURL
	}
	if c.Filings.DataURL == "" {
		c.Filings.DataURL = DefaultDataURL
	}
	if c.Filings.Timeout == 0 {
		c.Filings.Timeout = DefaultAPITimeout
	}

	// Limiter defaults
	if c.Limits.FilingsRPS == 0 {
		c.Limits.FilingsRPS = DefaultFilingsRPS
	}
	if c.Limits.MarketWindow == 0 {
		c.Limits.MarketWindow = DefaultMarketWindow
	}
	if c.Limits.MarketMinSpacing == 0 {
		c.Limits.MarketMinSpacing = DefaultMarketMinSpacing
	}
	if c.Limits.MarketThreshold == 0 {
		c.Limits.MarketThreshold = DefaultMarketThreshold
	}
	if c.Limits.MarketMaxDelay == 0 {
		c.Limits.MarketMaxDelay = DefaultMarketMaxDelay
	}

	// Cache defaults
	if c.Cache.PriceTTL == 0 {
		c.Cache.PriceTTL = DefaultPriceTTL
	}
	if c.Cache.HistoricalTTL == 0 {
		c.Cache.HistoricalTTL = DefaultHistoricalTTL
	}
	if c.Cache.FilingTTL == 0 {
		c.Cache.FilingTTL = DefaultFilingTTL
	}

	// Database defaults (only when persistence is configured)
	if c.Database.Postgres.Host != "" {
		if c.Database.Postgres.Port == 0 {
			c.Database.Postgres.Port = DefaultDBPort
		}
		if c.Database.Postgres.SSLMode == "" {
			c.Database.Postgres.SSLMode = DefaultDBSSLMode
		}
		if c.Database.Postgres.MaxConns == 0 {
			c.Database.Postgres.MaxConns = DefaultMaxConns
		}
		if c.Database.Postgres.MinConns == 0 {
			c.Database.Postgres.MinConns = DefaultMinConns
		}
	}

	// Refresh defaults
	if c.Refresh.Interval == 0 {
		c.Refresh.Interval = DefaultRefreshInterval
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}
