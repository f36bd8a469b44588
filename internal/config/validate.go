package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
// Credentials are required here; the viewer and report binaries skip
// validation because they never talk to the provider.
func (c *Config) Validate() error {
	if c.API.APIKey == "" {
		return errors.New("api.api_key is required")
	}
	if c.API.Identifier == "" {
		return errors.New("api.identifier is required")
	}
	if c.API.Password == "" {
		return errors.New("api.password is required")
	}

	if len(c.Analyzer.Categories) == 0 {
		return errors.New("analyzer.categories must name at least one category")
	}
	if c.Analyzer.RequestDelay < 0 {
		return errors.New("analyzer.request_delay must be >= 0")
	}
	if c.Analyzer.PingEvery < 1 {
		return errors.New("analyzer.ping_every must be >= 1")
	}
	for category, limit := range c.Analyzer.Limits {
		if limit < 0 {
			return fmt.Errorf("analyzer.limits[%s] must be >= 0, got %d", category, limit)
		}
	}

	switch c.Database.Driver {
	case "", "none":
	case "postgres":
		if err := c.Database.Postgres.validate("database.postgres"); err != nil {
			return err
		}
	case "sqlite":
		if c.Database.SQLite.Path == "" {
			return errors.New("database.sqlite.path is required")
		}
	default:
		return fmt.Errorf("database.driver must be none, postgres or sqlite, got %q", c.Database.Driver)
	}

	if c.Cache.Enabled && c.Cache.Addr == "" {
		return errors.New("cache.addr is required when cache is enabled")
	}

	if c.Viewer.Port < 1 || c.Viewer.Port > 65535 {
		return fmt.Errorf("viewer.port must be between 1 and 65535, got %d", c.Viewer.Port)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
