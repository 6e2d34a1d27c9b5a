package gfx

import (
	"math"

	"github.com/wasm96/core/resource"
)

// DrawMesh fills every triangle of the mesh with the current draw color,
// model coordinates translated by (x, y) and rounded to pixel centers.
// Degenerate triangles contribute nothing.
func (s *Surface) DrawMesh(m *resource.Mesh, x, y int32) {
	if m == nil {
		return
	}

	for t := 0; t < m.Triangles(); t++ {
		v := m.Vertices[t*6 : t*6+6]
		s.Triangle(
			x+roundCoord(v[0]), y+roundCoord(v[1]),
			x+roundCoord(v[2]), y+roundCoord(v[3]),
			x+roundCoord(v[4]), y+roundCoord(v[5]),
		)
	}
}

func roundCoord(f float32) int32 {
	return int32(math.Round(float64(f)))
}
