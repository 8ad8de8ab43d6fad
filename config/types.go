package config

// Config represents the complete configuration structure
type Config struct {
	OMDb      OMDbConfig      `mapstructure:"omdb"`
	Watchlist WatchlistConfig `mapstructure:"watchlist"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// OMDbConfig holds the catalog API connection details
type OMDbConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"`
}

// WatchlistConfig holds watchlist persistence settings
type WatchlistConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
