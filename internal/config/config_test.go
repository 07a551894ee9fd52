package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:11434", cfg.Model.URL)
	assert.Equal(t, "gemma3", cfg.Model.Name)
	assert.Equal(t, 120, cfg.Model.TimeoutSeconds)
	assert.Equal(t, 30, cfg.Tools.CommandTimeoutSeconds)
	assert.Equal(t, 10, cfg.Tools.MaxSearchResults)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 3600, cfg.Cache.TTLSeconds)
	assert.Equal(t, 1000, cfg.Cache.MaxEntries)
	assert.False(t, cfg.Permissions.AutoApprove)
	assert.Contains(t, cfg.Paths.DataDir, ".ocode")
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))

	require.NoError(t, err)
	assert.Equal(t, "gemma3", cfg.Model.Name)
}

func TestLoad_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[model]
name = "llama3.2"

[permissions]
auto_approve = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "llama3.2", cfg.Model.Name)
	assert.True(t, cfg.Permissions.AutoApprove)
	// Untouched settings keep their defaults.
	assert.Equal(t, "http://localhost:11434", cfg.Model.URL)
	assert.Equal(t, 120, cfg.Model.TimeoutSeconds)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("model = {{"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_ExpandsTilde(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
data_dir = "~/custom-ocode"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, "custom-ocode"), cfg.Paths.DataDir)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := Default()
	cfg.Model.Name = "qwen2.5-coder"
	cfg.Cache.Enabled = false
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "qwen2.5-coder", loaded.Model.Name)
	assert.False(t, loaded.Cache.Enabled)
}

func TestDefaultPath(t *testing.T) {
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".ocode", "config.toml"), DefaultPath())
}
