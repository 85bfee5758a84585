package model

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/dicetray/internal/dice"
	dmath "github.com/Faultbox/dicetray/pkg/math"
)

// Corner numerals on the d4 sit this far from the face center toward each
// vertex, relative to the vertex's own distance.
const (
	d4NumeralReach = 0.55
	d4NumeralSize  = 0.26
)

// tetrahedronCorners are alternating corners of the unit cube. The face
// opposite corner k carries value k+1.
var tetrahedronCorners = []mgl64.Vec3{
	{1, 1, 1}, {-1, -1, 1}, {-1, 1, -1}, {1, -1, -1},
}

func tetrahedronVertices(radius float64) []mgl64.Vec3 {
	s := radius / math.Sqrt(3)
	out := make([]mgl64.Vec3, len(tetrahedronCorners))
	for i, c := range tetrahedronCorners {
		out[i] = c.Mul(s)
	}
	return out
}

// buildD4 builds the tetrahedron. Each face is one triangle with three
// numerals, one near each corner, showing the value of the face opposite that
// corner and pointing toward it. Whichever corner is up, all three visible
// faces show the same number there.
func buildD4(d dice.Descriptor) (*Model, error) {
	verts := tetrahedronVertices(d.Radius)

	tris := make([]Triangle, 4)
	groups := make([][]int, 4)
	for k := 0; k < 4; k++ {
		var p [3]mgl64.Vec3
		j := 0
		for i, v := range verts {
			if i != k {
				p[j] = v
				j++
			}
		}
		tris[k].Positions = orientOutward(p)
		groups[k] = []int{k}
	}

	m, err := assemble(d, tris, groups)
	if err != nil {
		return nil, err
	}

	cornerOf := make(map[[3]int64]int, len(verts))
	for i, v := range verts {
		cornerOf[dmath.QuantizedKey(v, vertexKeyDecimals)] = i
	}

	for fi := range m.Faces {
		f := &m.Faces[fi]
		f.Numerals = f.Numerals[:0]
		for vi, v := range f.Vertices {
			corner := cornerOf[dmath.QuantizedKey(v, vertexKeyDecimals)]
			dir := f.UVs[vi].Sub(mgl64.Vec2{0.5, 0.5})
			f.Numerals = append(f.Numerals, Numeral{
				Value:  d.Value(corner),
				Center: mgl64.Vec2{0.5, 0.5}.Add(dir.Mul(d4NumeralReach)),
				Angle:  math.Atan2(dir[0], -dir[1]),
				Size:   d4NumeralSize,
			})
		}
	}
	return m, nil
}
