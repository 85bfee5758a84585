package math

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// QuatFromEuler builds an orientation from Euler angles in radians,
// applied in X, Y, Z order.
func QuatFromEuler(x, y, z float64) mgl64.Quat {
	qx := mgl64.QuatRotate(x, mgl64.Vec3{1, 0, 0})
	qy := mgl64.QuatRotate(y, mgl64.Vec3{0, 1, 0})
	qz := mgl64.QuatRotate(z, mgl64.Vec3{0, 0, 1})
	return qx.Mul(qy).Mul(qz).Normalize()
}

// RandomOrientation returns an orientation from three uniform Euler angles
// in [0, 2π).
func RandomOrientation(rng *rand.Rand) mgl64.Quat {
	return QuatFromEuler(
		rng.Float64()*2*math.Pi,
		rng.Float64()*2*math.Pi,
		rng.Float64()*2*math.Pi,
	)
}

// RotationTo returns the shortest unit rotation taking direction from onto
// direction to. Antiparallel inputs rotate half a turn about an axis
// perpendicular to from.
func RotationTo(from, to mgl64.Vec3) mgl64.Quat {
	from = from.Normalize()
	to = to.Normalize()
	d := from.Dot(to)
	if d > 1-1e-12 {
		return mgl64.QuatIdent()
	}
	if d < -1+1e-12 {
		return mgl64.QuatRotate(math.Pi, Orthonormal(from))
	}
	axis := from.Cross(to).Normalize()
	return mgl64.QuatRotate(math.Acos(d), axis).Normalize()
}

// IntegrateOrientation advances q by angular velocity w (radians per second)
// over dt seconds and renormalizes.
func IntegrateOrientation(q mgl64.Quat, w mgl64.Vec3, dt float64) mgl64.Quat {
	spin := mgl64.Quat{W: 0, V: w}.Mul(q)
	q.W += 0.5 * dt * spin.W
	q.V = q.V.Add(spin.V.Mul(0.5 * dt))
	return q.Normalize()
}
