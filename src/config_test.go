package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
window:
  width: 800
  height: 0
logLevel: debug
vbo:
  emulateQuads: true
  initialCapacity: 0
`), 0o644))
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, scr_width, cfg.Window.Width)
	assert.Equal(t, "glvbo", cfg.Window.Title)
	assert.True(t, cfg.VBO.EmulateQuads)
	assert.Equal(t, 1024, cfg.VBO.InitialCapacity)
	assert.Equal(t, slog.LevelDebug, cfg.slogLevel())

	cfg, err = loadConfig(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}
