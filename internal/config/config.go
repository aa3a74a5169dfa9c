package config

import (
	"fmt"
	"os"
)

// Config holds all tool settings, populated from environment variables.
// Command-line flags may override individual fields after Load.
type Config struct {
	DataDir   string // directory holding accident_<year>.csv.bz2 archives
	OutDir    string // directory for rendered maps and exported tables
	LogLevel  string
	LogFormat string
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	cfg := &Config{
		DataDir:   envOrDefault("FARS_DATA_DIR", "data"),
		OutDir:    envOrDefault("FARS_OUT_DIR", "out"),
		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "text"),
	}

	if cfg.DataDir == "" {
		return nil, fmt.Errorf("FARS_DATA_DIR must not be empty")
	}
	if !validLevels[cfg.LogLevel] {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
