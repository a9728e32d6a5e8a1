// Package meshio writes meshes captured by vbo export to common file formats.
package meshio

import (
	"bufio"
	"fmt"
	"io"

	"github.com/ikemen-engine/glvbo/packages/vbo"
)

// WriteOBJ writes meshes as Wavefront OBJ, one object per mesh. Indices are
// global and 1-based as the format requires.
func WriteOBJ(w io.Writer, meshes []vbo.ExportedMesh) error {
	bw := bufio.NewWriter(w)
	var nv, nt, nn int
	for i, m := range meshes {
		fmt.Fprintf(bw, "o mesh%d_%s\n", i, m.Mode)
		for _, p := range m.Positions {
			fmt.Fprintf(bw, "v %g %g %g\n", p[0], p[1], p[2])
		}
		for _, t := range m.TexCoords {
			fmt.Fprintf(bw, "vt %g %g\n", t[0], t[1])
		}
		for _, n := range m.Normals {
			fmt.Fprintf(bw, "vn %g %g %g\n", n[0], n[1], n[2])
		}
		for _, tri := range m.Triangles {
			bw.WriteString("f")
			for _, k := range tri {
				v := nv + k + 1
				switch {
				case m.TexCoords != nil && m.Normals != nil:
					fmt.Fprintf(bw, " %d/%d/%d", v, nt+k+1, nn+k+1)
				case m.TexCoords != nil:
					fmt.Fprintf(bw, " %d/%d", v, nt+k+1)
				case m.Normals != nil:
					fmt.Fprintf(bw, " %d//%d", v, nn+k+1)
				default:
					fmt.Fprintf(bw, " %d", v)
				}
			}
			bw.WriteString("\n")
		}
		nv += len(m.Positions)
		nt += len(m.TexCoords)
		nn += len(m.Normals)
	}
	return bw.Flush()
}
