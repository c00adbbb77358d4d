// Package config loads the app configuration file. A missing file is
// not an error; every field has a default rooted in the config
// directory. Command-line flags override file values at the call site.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape.
type Config struct {
	// Storage is a database file path or a Postgres connection string.
	Storage string `yaml:"storage"`
	// LogLevel is a zap level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
	// FreeEntryLimit overrides the free tier's entries-per-day
	// allowance. Zero means the built-in default.
	FreeEntryLimit int `yaml:"free_entry_limit"`
	// SessionPath and SecretPath hold the persisted sign-in token and
	// the token signing secret.
	SessionPath string `yaml:"session_path"`
	SecretPath  string `yaml:"secret_path"`
}

// Dir returns the kaizen config directory, ~/.config/kaizen.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "kaizen")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Default returns the configuration used when no file exists.
func Default() Config {
	dir := Dir()
	return Config{
		Storage:     filepath.Join(dir, "kaizen.db"),
		LogLevel:    "warn",
		SessionPath: filepath.Join(dir, "session"),
		SecretPath:  filepath.Join(dir, "secret"),
	}
}

// Load reads the config file at path, filling unset fields with
// defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if file.Storage != "" {
		cfg.Storage = file.Storage
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if file.FreeEntryLimit > 0 {
		cfg.FreeEntryLimit = file.FreeEntryLimit
	}
	if file.SessionPath != "" {
		cfg.SessionPath = file.SessionPath
	}
	if file.SecretPath != "" {
		cfg.SecretPath = file.SecretPath
	}
	return cfg, nil
}
