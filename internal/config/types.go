// Package config provides configuration types for ocode.
package config

// Config represents the main ocode configuration.
type Config struct {
	Model       ModelConfig       `toml:"model"`
	Tools       ToolsConfig       `toml:"tools"`
	Cache       CacheConfig       `toml:"cache"`
	Permissions PermissionsConfig `toml:"permissions"`
	Paths       PathsConfig       `toml:"paths"`
	Logging     LoggingConfig     `toml:"logging"`
}

// ModelConfig configures the Ollama backend.
type ModelConfig struct {
	URL            string  `toml:"url"`
	Name           string  `toml:"name"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	Temperature    float64 `toml:"temperature"`
}

// ToolsConfig configures the tool collaborators.
type ToolsConfig struct {
	CommandTimeoutSeconds int `toml:"command_timeout_seconds"`
	MaxSearchResults      int `toml:"max_search_results"`
	MaxLogEntries         int `toml:"max_log_entries"`
}

// CacheConfig configures the response cache.
type CacheConfig struct {
	Enabled    bool `toml:"enabled"`
	TTLSeconds int  `toml:"ttl_seconds"`
	MaxEntries int  `toml:"max_entries"`
}

// PermissionsConfig configures the approval gate.
type PermissionsConfig struct {
	AutoApprove bool `toml:"auto_approve"`
}

// PathsConfig contains file path settings.
type PathsConfig struct {
	DataDir   string `toml:"data_dir"`
	CacheDir  string `toml:"cache_dir"`
	HistoryDB string `toml:"history_db"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}
