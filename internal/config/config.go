package config

import "time"

// Config is the root configuration shared by the analyzer, viewer and
// report binaries.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	Output   OutputConfig   `yaml:"output"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Viewer   ViewerConfig   `yaml:"viewer"`
}

// APIConfig holds Capital.com API settings.
type APIConfig struct {
	Demo       bool          `yaml:"demo"`     // use the demo environment
	BaseURL    string        `yaml:"base_url"` // overrides the demo/live default when set
	APIKey     string        `yaml:"api_key"`
	Identifier string        `yaml:"identifier"`
	Password   string        `yaml:"password"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// AnalyzerConfig holds sweep settings.
type AnalyzerConfig struct {
	Categories   []string       `yaml:"categories"`
	Limits       map[string]int `yaml:"limits"` // per-category caps; 0 means unlimited
	RequestDelay time.Duration  `yaml:"request_delay"`
	PingEvery    int            `yaml:"ping_every"`
}

// OutputConfig holds result sink settings.
type OutputConfig struct {
	CSVPath string `yaml:"csv_path"`
}

// DatabaseConfig selects and configures the optional database sink.
type DatabaseConfig struct {
	Driver   string       `yaml:"driver"` // none, postgres or sqlite
	Postgres DBConfig     `yaml:"postgres"`
	SQLite   SQLiteConfig `yaml:"sqlite"`
}

// DBConfig holds a single PostgreSQL connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// SQLiteConfig holds the embedded database file location.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// CacheConfig holds Redis price cache settings.
type CacheConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ViewerConfig holds web viewer settings.
type ViewerConfig struct {
	Port int `yaml:"port"`
}
