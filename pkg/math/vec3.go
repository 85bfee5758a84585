// Package math provides vector and quaternion helpers for die geometry.
//
// The vector types themselves come from mgl64; this package adds the few
// operations the geometry and physics code needs on top of them.
package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Up is the world "up" axis.
var Up = mgl64.Vec3{0, 1, 0}

// Right is the world "right" axis.
var Right = mgl64.Vec3{1, 0, 0}

// Centroid returns the average of the given points.
func Centroid(points []mgl64.Vec3) mgl64.Vec3 {
	if len(points) == 0 {
		return mgl64.Vec3{}
	}
	var sum mgl64.Vec3
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(points)))
}

// TriangleNormal returns the unit normal of triangle (a, b, c) using
// counter-clockwise winding, and twice the triangle area.
// A zero area means the triangle is degenerate and the normal is zero.
func TriangleNormal(a, b, c mgl64.Vec3) (mgl64.Vec3, float64) {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Len()
	if l < 1e-12 {
		return mgl64.Vec3{}, 0
	}
	return n.Mul(1 / l), l
}

// QuantizedKey rounds v to the given number of decimals and returns a
// comparable key. Points that print identically at that precision share a key.
func QuantizedKey(v mgl64.Vec3, decimals int) [3]int64 {
	f := math.Pow(10, float64(decimals))
	var k [3]int64
	for i := 0; i < 3; i++ {
		k[i] = int64(math.Round(v[i] * f))
	}
	return k
}

// ApproxEqual reports whether a and b agree component-wise within eps.
func ApproxEqual(a, b mgl64.Vec3, eps float64) bool {
	return math.Abs(a[0]-b[0]) <= eps &&
		math.Abs(a[1]-b[1]) <= eps &&
		math.Abs(a[2]-b[2]) <= eps
}

// Orthonormal returns a unit vector perpendicular to n.
func Orthonormal(n mgl64.Vec3) mgl64.Vec3 {
	ref := Up
	if math.Abs(n.Dot(ref)) > 0.9 {
		ref = Right
	}
	return ref.Cross(n).Normalize()
}
