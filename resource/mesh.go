package resource

import (
	"encoding/binary"
	"math"

	"github.com/wasm96/core/errors"
)

// Mesh is a triangle list in model space. The wire payload is little-endian
// f32 pairs, six floats (three x,y vertices) per triangle, no header.
type Mesh struct {
	// Vertices holds x,y interleaved; len is a multiple of 6.
	Vertices []float32
}

// Triangles is the number of triangles in the list.
func (m *Mesh) Triangles() int { return len(m.Vertices) / 6 }

// DecodeMesh validates and unpacks raw triangle-list bytes.
func DecodeMesh(data []byte) (*Mesh, error) {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, errors.InvalidInput(errors.PhaseResource, "mesh payload is not a whole number of f32 values")
	}

	count := len(data) / 4
	if count%6 != 0 {
		return nil, errors.InvalidInput(errors.PhaseResource, "mesh payload is not a whole number of triangles")
	}

	verts := make([]float32, count)
	for i := range verts {
		bits := binary.LittleEndian.Uint32(data[i*4:])
		f := math.Float32frombits(bits)
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return nil, errors.InvalidInput(errors.PhaseResource, "mesh vertex is not finite")
		}
		verts[i] = f
	}

	return &Mesh{Vertices: verts}, nil
}
