package meshio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/ikemen-engine/glvbo/packages/vbo"
	"golang.org/x/mobile/exp/f32"
)

const stlHeader = "glvbo binary STL"

// WriteSTL writes the triangles of meshes as binary STL. Facet normals are
// computed from the winding.
func WriteSTL(w io.Writer, meshes []vbo.ExportedMesh) error {
	var count uint32
	for _, m := range meshes {
		count += uint32(len(m.Triangles))
	}
	var head [84]byte
	copy(head[:80], stlHeader)
	binary.LittleEndian.PutUint32(head[80:], count)
	if _, err := w.Write(head[:]); err != nil {
		return fmt.Errorf("write stl header: %w", err)
	}

	rec := make([]float32, 12)
	for _, m := range meshes {
		for _, tri := range m.Triangles {
			a, b, c := m.Positions[tri[0]], m.Positions[tri[1]], m.Positions[tri[2]]
			n := b.Sub(a).Cross(c.Sub(a))
			if n.Len() > 0 {
				n = n.Normalize()
			}
			for i, v := range [4]mgl32.Vec3{n, a, b, c} {
				copy(rec[i*3:], v[:])
			}
			data := append(f32.Bytes(binary.LittleEndian, rec...), 0, 0)
			if _, err := w.Write(data); err != nil {
				return fmt.Errorf("write stl facet: %w", err)
			}
		}
	}
	return nil
}
