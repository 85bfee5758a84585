// Package outcome reads the rolled value of a die from its orientation.
package outcome

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/dicetray/internal/dice"
	"github.com/Faultbox/dicetray/internal/engine/model"
	dmath "github.com/Faultbox/dicetray/pkg/math"
)

// tieEpsilon absorbs rounding so that faces at equal height resolve to the
// lower face index on every platform.
const tieEpsilon = 1e-9

// Read returns the value shown by a die of type t at orientation q.
// Only unknown types fail.
func Read(t dice.Type, q mgl64.Quat) (int, error) {
	m, err := model.Get(t)
	if err != nil {
		return 0, err
	}
	return ReadModel(m, q), nil
}

// ReadModel returns the value shown by m at orientation q. The result depends
// on the rotation only, not on scale or position.
func ReadModel(m *model.Model, q mgl64.Quat) int {
	face, _ := UpFace(m, q)
	return m.Descriptor.Value(face)
}

// UpFace returns the face that determines the result and the vertical
// component of its rotated normal. That is the face pointing most nearly up,
// or most nearly down for dice that read the face on the ground.
func UpFace(m *model.Model, q mgl64.Quat) (int, float64) {
	invert := m.Descriptor.InvertResult
	best := -1
	var bestDot float64

	for i, n := range m.FaceNormals() {
		d := q.Rotate(n).Dot(dmath.Up)
		switch {
		case best < 0:
		case invert && d < bestDot-tieEpsilon:
		case !invert && d > bestDot+tieEpsilon:
		default:
			continue
		}
		best, bestDot = i, d
	}
	return best, bestDot
}
