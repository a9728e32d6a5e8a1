package vbo

type PrimitiveMode byte

const (
	POINTS PrimitiveMode = iota
	LINES
	LINE_LOOP
	LINE_STRIP
	TRIANGLES
	TRIANGLE_STRIP
	TRIANGLE_FAN
	QUADS
	QUAD_STRIP
	numPrimitiveModes
)

var primitiveNames = [...]string{
	POINTS:         "POINTS",
	LINES:          "LINES",
	LINE_LOOP:      "LINE_LOOP",
	LINE_STRIP:     "LINE_STRIP",
	TRIANGLES:      "TRIANGLES",
	TRIANGLE_STRIP: "TRIANGLE_STRIP",
	TRIANGLE_FAN:   "TRIANGLE_FAN",
	QUADS:          "QUADS",
	QUAD_STRIP:     "QUAD_STRIP",
}

func (m PrimitiveMode) String() string {
	if m.IsValid() {
		return primitiveNames[m]
	}
	return "PrimitiveMode(?)"
}

func (m PrimitiveMode) IsValid() bool {
	return m < numPrimitiveModes
}

// continuable reports whether a second begin/end run of the same mode can be
// appended to a compiled buffer.
func (m PrimitiveMode) continuable() bool {
	return m != LINE_STRIP && m != LINE_LOOP && m != TRIANGLE_FAN
}

func (m PrimitiveMode) isQuad() bool {
	return m == QUADS || m == QUAD_STRIP
}

// PrimitiveCount returns how many primitives n logical vertices of mode form.
func PrimitiveCount(mode PrimitiveMode, n int) int {
	var c int
	switch mode {
	case POINTS:
		c = n
	case LINES:
		c = n / 2
	case LINE_LOOP:
		if n >= 2 {
			c = n
		}
	case LINE_STRIP:
		c = n - 1
	case TRIANGLES:
		c = n / 3
	case TRIANGLE_STRIP, TRIANGLE_FAN:
		c = n - 2
	case QUADS:
		c = n / 4
	case QUAD_STRIP:
		c = (n - 2) / 2
	}
	if c < 0 {
		return 0
	}
	return c
}

// Triangulate lists the triangles that n stored vertices of mode render, in
// the winding the rasterizer sees them. Point and line modes have none.
func Triangulate(mode PrimitiveMode, n int) [][3]int {
	var tris [][3]int
	switch mode {
	case TRIANGLES:
		for i := 0; i+2 < n; i += 3 {
			tris = append(tris, [3]int{i, i + 1, i + 2})
		}
	case TRIANGLE_STRIP:
		for i := 0; i+2 < n; i++ {
			if i%2 == 0 {
				tris = append(tris, [3]int{i, i + 1, i + 2})
			} else {
				tris = append(tris, [3]int{i + 1, i, i + 2})
			}
		}
	case TRIANGLE_FAN:
		for i := 1; i+1 < n; i++ {
			tris = append(tris, [3]int{0, i, i + 1})
		}
	case QUADS:
		for i := 0; i+3 < n; i += 4 {
			tris = append(tris, [3]int{i, i + 1, i + 2}, [3]int{i, i + 2, i + 3})
		}
	case QUAD_STRIP:
		for i := 0; i+3 < n; i += 2 {
			tris = append(tris, [3]int{i, i + 1, i + 3}, [3]int{i, i + 3, i + 2})
		}
	}
	return tris
}
