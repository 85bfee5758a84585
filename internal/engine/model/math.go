package model

import (
	"github.com/go-gl/mathgl/mgl64"

	dmath "github.com/Faultbox/dicetray/pkg/math"
)

// vertexKeyDecimals is the precision used to merge face corners.
const vertexKeyDecimals = 6

// orientOutward flips a triangle's winding when its normal points toward the
// origin. Every die is convex and centered, so this yields outward normals.
func orientOutward(p [3]mgl64.Vec3) [3]mgl64.Vec3 {
	n, _ := dmath.TriangleNormal(p[0], p[1], p[2])
	c := p[0].Add(p[1]).Add(p[2])
	if n.Dot(c) < 0 {
		p[1], p[2] = p[2], p[1]
	}
	return p
}

// distinctVertices returns the unique corners of the given triangles, in
// first-seen order.
func distinctVertices(tris []Triangle, indices []int) []mgl64.Vec3 {
	seen := make(map[[3]int64]bool)
	var out []mgl64.Vec3
	for _, ti := range indices {
		for _, p := range tris[ti].Positions {
			k := dmath.QuantizedKey(p, vertexKeyDecimals)
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, p)
		}
	}
	return out
}

// scaleTo projects every point onto the sphere of the given radius.
func scaleTo(points []mgl64.Vec3, radius float64) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(points))
	for i, p := range points {
		out[i] = p.Normalize().Mul(radius)
	}
	return out
}
