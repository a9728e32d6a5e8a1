package glrender

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ikemen-engine/glvbo/packages/vbo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadShader(t *testing.T) {
	vert, err := LoadShader("stock.vert")
	require.NoError(t, err)
	for ch := vbo.ChannelPosition; ch < vbo.ChannelAttribute0; ch++ {
		assert.Contains(t, vert, "in "+[]string{"vec4", "vec4", "vec3", "vec4", "vec3"}[ch]+" "+ch.AttributeName())
	}
	frag, err := LoadShader("stock.frag")
	require.NoError(t, err)
	for _, u := range []string{"fogMode", "clipPlanes[6]", "alphaRef", "wireColor", "interlace"} {
		assert.Contains(t, frag, u)
	}
	assert.NotContains(t, vert, "#version")

	_, err = LoadShader("nope")
	assert.Error(t, err)
}

func TestDirLoader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stock.frag.glsl"), []byte("// custom"), 0o644))
	load := DirLoader(dir)

	frag, err := load("stock.frag")
	require.NoError(t, err)
	assert.Equal(t, "// custom", frag)

	vert, err := load("stock.vert")
	require.NoError(t, err)
	assert.Contains(t, vert, "vbo_Position")
}

func TestPrimitiveModeLUT(t *testing.T) {
	for _, mode := range []vbo.PrimitiveMode{vbo.POINTS, vbo.LINES, vbo.LINE_LOOP, vbo.LINE_STRIP,
		vbo.TRIANGLES, vbo.TRIANGLE_STRIP, vbo.TRIANGLE_FAN} {
		_, ok := MapPrimitiveMode(mode)
		assert.True(t, ok, mode.String())
	}
	_, ok := MapPrimitiveMode(vbo.QUADS)
	assert.False(t, ok)
	_, ok = MapPrimitiveMode(vbo.QUAD_STRIP)
	assert.False(t, ok)
	assert.Len(t, blendLUT, 4)
}
