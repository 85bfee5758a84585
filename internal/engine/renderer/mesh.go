package renderer

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/dicetray/internal/engine/model"
)

// Vertex is the interleaved GPU vertex layout: position, normal, texcoord.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	UV       [2]float32
}

const vertexSize = 8 * 4

// FaceRange is the span of the index buffer drawn with one face texture.
type FaceRange struct {
	Face  int
	First int32
	Count int32
}

// BuildMesh flattens m into flat-shaded vertices ordered face by face, with
// one FaceRange per face group.
func BuildMesh(m *model.Model) ([]Vertex, []uint32, []FaceRange) {
	vertices := make([]Vertex, 0, len(m.Triangles)*3)
	indices := make([]uint32, 0, len(m.Triangles)*3)
	ranges := make([]FaceRange, 0, len(m.Faces))

	normals := m.FaceNormals()
	for fi, f := range m.Faces {
		r := FaceRange{Face: fi, First: int32(len(indices))}
		n := vec3f(normals[fi][0], normals[fi][1], normals[fi][2])
		for _, ti := range f.Triangles {
			tri := m.Triangles[ti]
			for k := 0; k < 3; k++ {
				p, uv := tri.Positions[k], tri.UVs[k]
				indices = append(indices, uint32(len(vertices)))
				vertices = append(vertices, Vertex{
					Position: vec3f(p[0], p[1], p[2]),
					Normal:   n,
					UV:       [2]float32{float32(uv[0]), float32(uv[1])},
				})
			}
		}
		r.Count = int32(len(indices)) - r.First
		ranges = append(ranges, r)
	}
	return vertices, indices, ranges
}

// groundQuad returns a square on y = 0 with the given half size.
func groundQuad(half float32) ([]Vertex, []uint32) {
	up := [3]float32{0, 1, 0}
	v := []Vertex{
		{Position: [3]float32{-half, 0, -half}, Normal: up, UV: [2]float32{0, 0}},
		{Position: [3]float32{-half, 0, half}, Normal: up, UV: [2]float32{0, 1}},
		{Position: [3]float32{half, 0, half}, Normal: up, UV: [2]float32{1, 1}},
		{Position: [3]float32{half, 0, -half}, Normal: up, UV: [2]float32{1, 0}},
	}
	return v, []uint32{0, 1, 2, 0, 2, 3}
}

func vec3f(x, y, z float64) [3]float32 {
	return [3]float32{float32(x), float32(y), float32(z)}
}

// rgb converts c to a linear 0..1 vector scaled by intensity.
func rgb(c color.RGBA, intensity float32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(c.R) / 255 * intensity,
		float32(c.G) / 255 * intensity,
		float32(c.B) / 255 * intensity,
	}
}

func toMat32(m mgl64.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}
