// Package config loads the mdb configuration file. The surface is small on
// purpose: where the backend executable lives, how chatty it should be, and
// any collection roots beyond the working directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config is the persisted configuration.
type Config struct {
	// ServerPath overrides backend executable resolution. When set it must
	// point at an existing binary; a bad override is an error, not a hint.
	ServerPath string `toml:"server_path"`
	// LogLevel is passed to the backend through MDBASE_LOG
	LogLevel string `toml:"log_level"`
	// Roots lists collection roots to consider in addition to the one
	// found from the working directory
	Roots []string `toml:"roots"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{}
}

// DefaultPath returns the standard config file location, ~/.mdb/config.toml.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return filepath.Join(".mdb", "config.toml")
	}
	return filepath.Join(homeDir, ".mdb", "config.toml")
}

// LoadOrCreate reads the config at path, writing a default file when none
// exists yet.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return cfg, err
			}
			data, err := toml.Marshal(cfg)
			if err != nil {
				return cfg, err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}

	cfg.ServerPath = expandPath(strings.TrimSpace(cfg.ServerPath))
	cfg.LogLevel = strings.TrimSpace(cfg.LogLevel)
	for i, root := range cfg.Roots {
		cfg.Roots[i] = expandPath(strings.TrimSpace(root))
	}

	return cfg, nil
}

// expandPath resolves a leading ~/ against the home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil && homeDir != "" {
			return filepath.Join(homeDir, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
		}
	}
	return path
}
