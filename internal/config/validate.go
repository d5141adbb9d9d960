package config

import (
	"errors"
	"fmt"

	"github.com/trescomas/findata/internal/store"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.Filings.UserAgent == "" {
		return errors.New("filings.user_agent is required")
	}

	if c.Limits.FilingsRPS <= 0 {
		return errors.New("limits.filings_rps must be > 0")
	}
	if c.Limits.MarketThreshold < 1 {
		return errors.New("limits.market_threshold must be >= 1")
	}

	if c.Database.Postgres.Host != "" {
		if err := validateDB(&c.Database.Postgres); err != nil {
			return err
		}
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	return nil
}

func validateDB(db *store.Config) error {
	if db.Name == "" {
		return errors.New("database.postgres.name is required")
	}
	if db.User == "" {
		return errors.New("database.postgres.user is required")
	}
	if db.Password == "" {
		return errors.New("database.postgres.password is required")
	}
	if db.MaxConns < 1 {
		return errors.New("database.postgres.max_conns must be >= 1")
	}
	if db.MinConns < 0 {
		return errors.New("database.postgres.min_conns must be >= 0")
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("database.postgres.min_conns (%d) cannot exceed max_conns (%d)", db.MinConns, db.MaxConns)
	}
	return nil
}
