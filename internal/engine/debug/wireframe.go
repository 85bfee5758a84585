package debug

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/dicetray/internal/engine/collision"
)

// BoxWireframeVertexCount is the number of vertices for a box wireframe (12 edges × 2).
const BoxWireframeVertexCount = 24

// BoxWireframe creates line vertices for an axis-aligned box, [x, y, z]
// per vertex.
func BoxWireframe(minX, minY, minZ, maxX, maxY, maxZ float32) []float32 {
	return []float32{
		// Bottom face
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// TrayWireframe outlines the walled play area from the ground to the ceiling.
func TrayWireframe(halfX, halfZ, ceiling float64) []float32 {
	return BoxWireframe(
		float32(-halfX), 0, float32(-halfZ),
		float32(halfX), float32(ceiling), float32(halfZ),
	)
}

// HullWireframe returns the triangle edges of shape transformed to world
// space. Edges shared by two triangles appear once.
func HullWireframe(shape *collision.Shape, transform mgl64.Mat4) []float32 {
	type edge struct{ a, b int }
	seen := make(map[edge]bool)
	var out []float32
	for _, tri := range shape.Triangles {
		for k := 0; k < 3; k++ {
			a, b := tri[k], tri[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			e := edge{a, b}
			if seen[e] {
				continue
			}
			seen[e] = true
			for _, i := range []int{a, b} {
				p := mgl64.TransformCoordinate(shape.Vertices[i], transform)
				out = append(out, float32(p[0]), float32(p[1]), float32(p[2]))
			}
		}
	}
	return out
}
