// Package config handles ocode configuration loading and management.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultPath returns the conventional config file location,
// ~/.ocode/config.toml.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".ocode", "config.toml")
}

// Default returns the default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".ocode")

	return &Config{
		Model: ModelConfig{
			URL:            "http://localhost:11434",
			Name:           "gemma3",
			TimeoutSeconds: 120,
			Temperature:    0.7,
		},
		Tools: ToolsConfig{
			CommandTimeoutSeconds: 30,
			MaxSearchResults:      10,
			MaxLogEntries:         10,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 3600,
			MaxEntries: 1000,
		},
		Permissions: PermissionsConfig{
			AutoApprove: false,
		},
		Paths: PathsConfig{
			DataDir:   dataDir,
			CacheDir:  filepath.Join(dataDir, "cache"),
			HistoryDB: filepath.Join(dataDir, "history.db"),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads the configuration from the given path.
// If the file doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return expandPaths(cfg), nil
}

// Save saves the configuration to the given path.
func (c *Config) Save(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	file, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	return encoder.Encode(c)
}

// expandPaths expands a leading ~ in path settings.
func expandPaths(cfg *Config) *Config {
	homeDir, _ := os.UserHomeDir()

	expand := func(p string) string {
		if p != "" && p[0] == '~' {
			return filepath.Join(homeDir, p[1:])
		}
		return p
	}

	cfg.Paths.DataDir = expand(cfg.Paths.DataDir)
	cfg.Paths.CacheDir = expand(cfg.Paths.CacheDir)
	cfg.Paths.HistoryDB = expand(cfg.Paths.HistoryDB)
	return cfg
}
