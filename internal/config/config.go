package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for spaq: where it caches parsed program
// snapshots, where the daemon's socket lives, and which files the scanner
// and ignore-matcher should consider.
type Config struct {
	// CacheDir is the directory spaq uses to persist PKB snapshots keyed by
	// source content hash (spec §10 "snapshot cache").
	CacheDir string `yaml:"cache_dir" env:"SPAQ_CACHE_DIR"`

	// SocketPath is the Unix socket spaqd listens on and spaq's CLI dials
	// for serve/stop/status/doctor. On Windows, or when it is not an
	// absolute path, spaqd listens on loopback TCP instead.
	SocketPath string `yaml:"socket_path" env:"SPAQ_SOCKET_PATH"`

	// IgnoreFileName is the name of the gitignore-style file the directory
	// scanner looks for when batch-parsing a project tree.
	IgnoreFileName string `yaml:"ignore_file_name" env:"SPAQ_IGNORE_FILE_NAME"`

	// AffectsCacheSize bounds the PKB's per-load memoized Affects and
	// Affects* results (spec §4.3 "Affects engine"), in number of start
	// statements whose result sets the LRU in pkg/cache keeps before it
	// starts evicting. AffectsBip results are not bounded by it.
	AffectsCacheSize int `yaml:"affects_cache_size" env:"SPAQ_AFFECTS_CACHE_SIZE"`

	// Debug enables verbose structured logging across spaq and spaqd.
	Debug bool `yaml:"debug" env:"SPAQ_DEBUG"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		CacheDir:         ".spaq/cache",
		SocketPath:       "/tmp/spaq.sock",
		IgnoreFileName:   ".spaqignore",
		AffectsCacheSize: 4096,
		Debug:            false,
	}
}

// globalConfigFilePath returns the global config file path (~/.spaq/config.yaml).
func globalConfigFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".spaq/config.yaml"
	}
	return filepath.Join(home, ".spaq", "config.yaml")
}

// projectConfigFilePath returns the project-level config file path (./.spaq/config.yaml).
func projectConfigFilePath() string {
	return ".spaq/config.yaml"
}

// Load reads configuration with the following priority (highest to lowest):
//  1. Environment variables
//  2. Project-level config (./.spaq/config.yaml)
//  3. Global config (~/.spaq/config.yaml)
//  4. Defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// 1. Load global config (~/.spaq/config.yaml)
	globalConfigPath := globalConfigFilePath()
	if data, err := os.ReadFile(globalConfigPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", globalConfigPath, err)
		}
	}

	// 2. Load project-level config (./.spaq/config.yaml) - overrides global
	projectConfigPath := projectConfigFilePath()
	if data, err := os.ReadFile(projectConfigPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", projectConfigPath, err)
		}
	}

	// 3. Override with environment variables
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile reads configuration from a specific YAML file path.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if data, err := os.ReadFile(path); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file path.
// It creates parent directories if they don't exist.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SPAQ_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("SPAQ_SOCKET_PATH"); v != "" {
		cfg.SocketPath = v
	}
	if v := os.Getenv("SPAQ_IGNORE_FILE_NAME"); v != "" {
		cfg.IgnoreFileName = v
	}
	if v := os.Getenv("SPAQ_AFFECTS_CACHE_SIZE"); v != "" {
		if i := parseInt(v); i > 0 {
			cfg.AffectsCacheSize = i
		}
	}
	if v := os.Getenv("SPAQ_DEBUG"); v != "" {
		cfg.Debug = v == "true" || v == "1" || v == "yes"
	}
}

// Validate checks that the configuration has valid required fields.
func (c *Config) Validate() error {
	if c.CacheDir == "" {
		return fmt.Errorf("cache_dir must not be empty")
	}
	if c.SocketPath == "" {
		return fmt.Errorf("socket_path must not be empty")
	}
	if c.IgnoreFileName == "" {
		return fmt.Errorf("ignore_file_name must not be empty")
	}
	if c.AffectsCacheSize <= 0 {
		return fmt.Errorf("affects_cache_size must be positive")
	}
	return nil
}

// parseInt attempts to parse a string as int.
func parseInt(s string) int {
	var i int
	if _, err := fmt.Sscanf(s, "%d", &i); err != nil {
		return 0
	}
	return i
}
