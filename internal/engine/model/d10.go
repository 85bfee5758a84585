package model

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/dicetray/internal/dice"
)

// TrapezohedronRingRatio is ring height / apex height for a pentagonal
// trapezohedron whose kites are planar: 1 / (5 + 2√5).
var TrapezohedronRingRatio = 1 / (5 + 2*math.Sqrt(5))

// d10RingRadius is the ring radius relative to the apex height.
const d10RingRadius = 1.0

// buildD10 builds the pentagonal trapezohedron kite by kite. Face 2i is the
// upper kite between upper ring vertices i and i+1; face 2i+1 is the lower
// kite centered under upper ring vertex i.
func buildD10(d dice.Descriptor) (*Model, error) {
	apexH := d.Radius
	ringH := apexH * TrapezohedronRingRatio
	ringR := d.Radius * d10RingRadius

	top := mgl64.Vec3{0, apexH, 0}
	bottom := mgl64.Vec3{0, -apexH, 0}

	step := 2 * math.Pi / 5
	var upper, lower [5]mgl64.Vec3
	for i := 0; i < 5; i++ {
		a := step * float64(i)
		upper[i] = mgl64.Vec3{ringR * math.Cos(a), ringH, ringR * math.Sin(a)}
		b := a + step/2
		lower[i] = mgl64.Vec3{ringR * math.Cos(b), -ringH, ringR * math.Sin(b)}
	}

	var tris []Triangle
	var groups [][]int
	kite := func(a, b, c, e mgl64.Vec3) {
		first := len(tris)
		tris = append(tris,
			Triangle{Positions: orientOutward([3]mgl64.Vec3{a, b, c})},
			Triangle{Positions: orientOutward([3]mgl64.Vec3{a, c, e})},
		)
		groups = append(groups, []int{first, first + 1})
	}

	for i := 0; i < 5; i++ {
		next := (i + 1) % 5
		prev := (i + 4) % 5
		kite(top, upper[i], lower[i], upper[next])
		kite(bottom, lower[prev], upper[i], lower[i])
	}
	return assemble(d, tris, groups)
}
