package model

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/dicetray/internal/dice"
	dmath "github.com/Faultbox/dicetray/pkg/math"
)

// referenceSwitchCos is cos(25°). Normals closer than that to world-up build
// their tangent frame from world-right instead.
var referenceSwitchCos = math.Cos(25 * math.Pi / 180)

const minProjectedRadius = 1e-9

// TangentFrame returns two orthonormal in-plane axes for a face with the
// given outward normal. Seen from outside, u points right and v points up.
func TangentFrame(normal mgl64.Vec3) (u, v mgl64.Vec3) {
	ref := dmath.Up
	if math.Abs(normal.Dot(ref)) > referenceSwitchCos {
		ref = dmath.Right
	}
	u = ref.Cross(normal).Normalize()
	v = normal.Cross(u)
	return u, v
}

// ProjectUV flattens a face's vertices into texture coordinates.
// The result is centered on (0.5, 0.5) and scaled so the farthest vertex lies
// on the circle inscribed in the unit square. V grows downward, matching image
// rows.
func ProjectUV(vertices []mgl64.Vec3, normal mgl64.Vec3) ([]mgl64.Vec2, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("%d vertices: %w", len(vertices), dice.ErrDegenerateFace)
	}

	u, v := TangentFrame(normal)
	center := dmath.Centroid(vertices)

	flat := make([]mgl64.Vec2, len(vertices))
	var maxR float64
	for i, p := range vertices {
		d := p.Sub(center)
		flat[i] = mgl64.Vec2{d.Dot(u), d.Dot(v)}
		if r := flat[i].Len(); r > maxR {
			maxR = r
		}
	}
	if maxR < minProjectedRadius {
		return nil, fmt.Errorf("projected radius %g: %w", maxR, dice.ErrDegenerateFace)
	}

	// Collinear corners project onto a line; the face has no area.
	if !spansPlane(flat) {
		return nil, fmt.Errorf("collinear vertices: %w", dice.ErrDegenerateFace)
	}

	scale := 0.5 / maxR
	out := make([]mgl64.Vec2, len(flat))
	for i, f := range flat {
		out[i] = mgl64.Vec2{0.5 + f[0]*scale, 0.5 - f[1]*scale}
	}
	return out, nil
}

// spansPlane reports whether the 2D points are not all on one line.
func spansPlane(pts []mgl64.Vec2) bool {
	a := pts[0]
	for i := 1; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			ab := pts[i].Sub(a)
			ac := pts[j].Sub(a)
			if math.Abs(ab[0]*ac[1]-ab[1]*ac[0]) > 1e-12 {
				return true
			}
		}
	}
	return false
}
