package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigExplicit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(
		"window_width = 1280\nwindow_height = 720\nmaps_dir = \"/maps\"\nvolume = 0.4\nautoplay = false\n",
	), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1280, cfg.WindowWidth)
	assert.Equal(t, 720, cfg.WindowHeight)
	assert.Equal(t, "/maps", cfg.MapsDir)
	assert.Equal(t, 0.4, cfg.Volume)
	assert.False(t, cfg.Autoplay)
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadConfigClampsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(
		"window_width = 10\nwindow_height = 10\nvolume = 3.0\nmaps_dir = \"\"\n",
	), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig().WindowWidth, cfg.WindowWidth)
	assert.Equal(t, defaultConfig().WindowHeight, cfg.WindowHeight)
	assert.Equal(t, 1.0, cfg.Volume)
	assert.Equal(t, ".", cfg.MapsDir)
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("volume = 0.2\n"), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0.2, cfg.Volume)
	assert.Equal(t, defaultConfig().WindowWidth, cfg.WindowWidth)
	assert.True(t, cfg.Autoplay)
}
