package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/filter"
)

const (
	appDir    = ".marquee"
	envPrefix = "MARQUEE"
)

// Load loads the configuration from file and MARQUEE_* environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, appDir))
		}

		// Check /etc
		v.AddConfigPath("/etc/marquee/")
	}

	// Read config file; without an explicit path the environment may supply everything
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Catalog defaults; url and client_id are registered so env overrides apply
	v.SetDefault("catalog.url", "")
	v.SetDefault("catalog.client_id", "")
	v.SetDefault("catalog.client_header", catalog.DefaultClientHeader)
	v.SetDefault("catalog.timeout", 30*time.Second)

	// Database defaults
	v.SetDefault("database.path", defaultDatabasePath())

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "marquee.db"
	}
	return filepath.Join(home, appDir, "marquee.db")
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Catalog.URL == "" {
		return fmt.Errorf("catalog.url is required")
	}

	if cfg.Catalog.ClientID == "" {
		return fmt.Errorf("catalog.client_id is required")
	}

	if cfg.Catalog.ClientHeader == "" {
		return fmt.Errorf("catalog.client_header must not be empty")
	}

	if cfg.Catalog.Timeout <= 0 {
		return fmt.Errorf("catalog.timeout must be positive, got %s", cfg.Catalog.Timeout)
	}

	if cfg.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	// Presets must compile before anything runs
	if len(cfg.Filter.Presets) > 0 {
		if err := filter.NewManager().RegisterFilters(cfg.Filter.Presets); err != nil {
			return fmt.Errorf("invalid filter.presets: %w", err)
		}
	}

	return nil
}
