package meshio

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/ikemen-engine/glvbo/packages/vbo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meshes() []vbo.ExportedMesh {
	return []vbo.ExportedMesh{
		{
			Mode:      vbo.TRIANGLES,
			Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			Normals:   []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
			Triangles: [][3]int{{0, 1, 2}},
		},
		{
			Mode:      vbo.QUADS,
			Positions: []mgl32.Vec3{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}},
			TexCoords: []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
			Triangles: [][3]int{{0, 1, 2}, {0, 2, 3}},
		},
	}
}

func TestWriteOBJ(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, meshes()))
	want := `o mesh0_TRIANGLES
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
vn 0 0 1
vn 0 0 1
f 1//1 2//2 3//3
o mesh1_QUADS
v 0 0 1
v 1 0 1
v 1 1 1
v 0 1 1
vt 0 0
vt 1 0
vt 1 1
vt 0 1
f 4/1 5/2 6/3
f 4/1 6/3 7/4
`
	assert.Equal(t, want, buf.String())
}

func TestWriteSTL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSTL(&buf, meshes()))
	data := buf.Bytes()
	require.Len(t, data, 84+3*50)
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(data[80:84]))
	assert.Equal(t, "glvbo binary STL", string(bytes.TrimRight(data[:80], "\x00")))

	f := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
	}
	// first facet normal is +Z, second vertex (1,0,0)
	assert.Equal(t, float32(1), f(84+8))
	assert.Equal(t, float32(1), f(84+24))
	assert.Equal(t, []byte{0, 0}, data[84+48:84+50])
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, nil))
	assert.Empty(t, buf.String())
	require.NoError(t, WriteSTL(&buf, nil))
	assert.Len(t, buf.Bytes(), 84)
}
