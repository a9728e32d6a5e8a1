package vbo

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte("initialCapacity: 64\nemulateQuads: true\nmaxStackDepth: -1\n"))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.InitialCapacity)
	assert.True(t, cfg.EmulateQuads)
	assert.True(t, cfg.WarnMissingUniforms)
	assert.Equal(t, DefaultCullThreshold, cfg.CullThreshold)
	assert.Equal(t, DefaultMaxStackDepth, cfg.MaxStackDepth)

	_, err = ParseConfig([]byte("initialCapacity: [1"))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vbo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("maxVertices: 4096\nwarnMissingUniforms: false\n"), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4096, cfg.MaxVertices)
	assert.False(t, cfg.WarnMissingUniforms)
	assert.Equal(t, DefaultInitialCapacity, cfg.InitialCapacity)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoggerReportsFailures(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer SetLogger(nil)

	c, _ := newTestContext(t, DefaultConfig())
	b := c.NewBuffer(BufferOptions{})
	b.Vertex(0, 0, 0)
	assert.Contains(t, buf.String(), "vertex data outside begin/end")
	assert.Contains(t, buf.String(), "stock programs built")
}
