package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Database DatabaseConfig `mapstructure:"database"`
	Filter   FilterConfig   `mapstructure:"filter"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// CatalogConfig holds the catalog service connection details
type CatalogConfig struct {
	URL          string        `mapstructure:"url"`
	ClientHeader string        `mapstructure:"client_header"`
	ClientID     string        `mapstructure:"client_id"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// DatabaseConfig holds the location of the local SQLite database
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// FilterConfig contains named filter expressions
type FilterConfig struct {
	Presets map[string]string `mapstructure:"presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
