// Package config loads service configuration from an optional YAML file and
// NOTELINE_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the runtime configuration for the service.
type Config struct {
	// ListenAddress is the host:port the HTTP server binds to.
	ListenAddress string `mapstructure:"listen_address"`
	// DatabasePath is the SQLite database file path.
	DatabasePath string `mapstructure:"database_path"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
	// AllowedOrigins is the CORS origin allowlist.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from the given file (optional, may be empty) and
// the environment, applying defaults for anything unset.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("listen_address", ":8180")
	v.SetDefault("database_path", "noteline.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("allowed_origins", []string{"*"})

	v.SetEnvPrefix("NOTELINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return &cfg, nil
}
