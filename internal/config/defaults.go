package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultLiveURL      = "https://api-capital.backend-capital.com"
	DefaultDemoURL      = "https://demo-api-capital.backend-capital.com"
	DefaultAPITimeout   = 30 * time.Second
	DefaultMaxRetries   = 3
	DefaultRequestDelay = 150 * time.Millisecond
	DefaultPingEvery    = 20
	DefaultCSVPath      = "capital_markets_analysis.csv"
	DefaultDBDriver     = "none"
	DefaultDBPort       = 5432
	DefaultDBSSLMode    = "prefer"
	DefaultMaxConns     = 5
	DefaultMinConns     = 1
	DefaultSQLitePath   = "data/capitalperf.db"
	DefaultCacheAddr    = "localhost:6379"
	DefaultViewerPort   = 5000
)

// DefaultCategories is the sweep used when the config names none.
var DefaultCategories = []string{
	"forex",
	"commodities",
	"shares",
	"indices",
	"etf",
	"cryptocurrencies",
}

func (c *Config) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		if c.API.Demo {
			c.API.BaseURL = DefaultDemoURL
		} else {
			c.API.BaseURL = DefaultLiveURL
		}
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}

	// Analyzer defaults
	if len(c.Analyzer.Categories) == 0 {
		c.Analyzer.Categories = append([]string(nil), DefaultCategories...)
	}
	if c.Analyzer.RequestDelay == 0 {
		c.Analyzer.RequestDelay = DefaultRequestDelay
	}
	if c.Analyzer.PingEvery == 0 {
		c.Analyzer.PingEvery = DefaultPingEvery
	}

	// Output defaults
	if c.Output.CSVPath == "" {
		c.Output.CSVPath = DefaultCSVPath
	}

	// Database defaults
	if c.Database.Driver == "" {
		c.Database.Driver = DefaultDBDriver
	}
	applyDBDefaults(&c.Database.Postgres)
	if c.Database.SQLite.Path == "" {
		c.Database.SQLite.Path = DefaultSQLitePath
	}

	// Cache defaults
	if c.Cache.Addr == "" {
		c.Cache.Addr = DefaultCacheAddr
	}

	// Viewer defaults
	if c.Viewer.Port == 0 {
		c.Viewer.Port = DefaultViewerPort
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
