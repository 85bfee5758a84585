package model

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/dicetray/internal/dice"
)

// buildD6 builds a cube of half-extent d.Radius with faces ordered +X, -X,
// +Y, -Y, +Z, -Z, two triangles each.
func buildD6(d dice.Descriptor) (*Model, error) {
	h := d.Radius
	var tris []Triangle
	var groups [][]int

	for axis := 0; axis < 3; axis++ {
		for _, sign := range []float64{1, -1} {
			b, c := (axis+1)%3, (axis+2)%3
			corner := func(sb, sc float64) mgl64.Vec3 {
				var p mgl64.Vec3
				p[axis] = sign * h
				p[b] = sb * h
				p[c] = sc * h
				return p
			}
			q := [4]mgl64.Vec3{corner(-1, -1), corner(1, -1), corner(1, 1), corner(-1, 1)}

			first := len(tris)
			tris = append(tris,
				Triangle{Positions: orientOutward([3]mgl64.Vec3{q[0], q[1], q[2]})},
				Triangle{Positions: orientOutward([3]mgl64.Vec3{q[0], q[2], q[3]})},
			)
			groups = append(groups, []int{first, first + 1})
		}
	}
	return assemble(d, tris, groups)
}
