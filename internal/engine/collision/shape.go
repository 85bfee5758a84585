// Package collision derives rigid-body collision shapes from die models.
//
// Every shape is convex and centered on the origin. Hulls keep a deduplicated
// vertex set with triangle indices against it; boxes keep half-extents. Both
// expose the same vertex, face and plane view.
package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind distinguishes hull and box shapes.
type Kind int

const (
	KindHull Kind = iota
	KindBox
)

func (k Kind) String() string {
	if k == KindBox {
		return "box"
	}
	return "hull"
}

// Plane is an outward face plane: points p with Normal·p == D lie on it.
type Plane struct {
	Normal mgl64.Vec3
	D      float64
}

// Distance returns the signed distance of p above the plane.
func (p Plane) Distance(pt mgl64.Vec3) float64 {
	return p.Normal.Dot(pt) - p.D
}

// Shape is a convex collision shape in body space.
// Shapes are values shared between bodies; treat the slices as read-only.
type Shape struct {
	Kind Kind

	// HalfExtents is set for boxes only.
	HalfExtents mgl64.Vec3

	Vertices  []mgl64.Vec3
	Triangles [][3]int
	// Planes holds one plane per face group.
	Planes []Plane
	// Faces holds, per plane, the face corners as indices into Vertices,
	// ordered counter-clockwise around the plane normal.
	Faces [][]int

	radius float64
}

// NewBox returns a box with the given half-extents.
func NewBox(half mgl64.Vec3) *Shape {
	s := &Shape{Kind: KindBox, HalfExtents: half}
	for i := 0; i < 8; i++ {
		v := half
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				v[axis] = -v[axis]
			}
		}
		s.Vertices = append(s.Vertices, v)
	}
	for axis := 0; axis < 3; axis++ {
		for _, sign := range []float64{1, -1} {
			var n mgl64.Vec3
			n[axis] = sign
			s.Planes = append(s.Planes, Plane{Normal: n, D: half[axis]})
		}
	}
	s.Faces = faceLoops(s.Vertices, s.Planes)
	for _, quad := range s.Faces {
		if len(quad) == 4 {
			s.Triangles = append(s.Triangles, [3]int{quad[0], quad[1], quad[2]}, [3]int{quad[0], quad[2], quad[3]})
		}
	}
	s.radius = half.Len()
	return s
}

// faceOnPlane is how far a corner may sit off its face plane.
const faceOnPlane = 1e-6

// faceLoops collects the corners lying on each plane and orders them
// counter-clockwise as seen from outside.
func faceLoops(verts []mgl64.Vec3, planes []Plane) [][]int {
	out := make([][]int, len(planes))
	for pi, p := range planes {
		var loop []int
		var c mgl64.Vec3
		for i, v := range verts {
			if math.Abs(p.Distance(v)) < faceOnPlane*math.Max(1, p.D) {
				loop = append(loop, i)
				c = c.Add(v)
			}
		}
		if len(loop) < 3 {
			out[pi] = loop
			continue
		}
		c = c.Mul(1 / float64(len(loop)))
		u := verts[loop[0]].Sub(c)
		w := p.Normal.Cross(u)
		angle := func(i int) float64 {
			d := verts[i].Sub(c)
			return math.Atan2(d.Dot(w), d.Dot(u))
		}
		for i := 1; i < len(loop); i++ {
			for j := i; j > 0 && angle(loop[j]) < angle(loop[j-1]); j-- {
				loop[j], loop[j-1] = loop[j-1], loop[j]
			}
		}
		out[pi] = loop
	}
	return out
}

// BoundingRadius returns the distance of the farthest vertex from the origin.
func (s *Shape) BoundingRadius() float64 { return s.radius }

// Scaled returns a uniformly scaled copy. Topology is shared, so scaling is
// proportional to the vertex count only.
func (s *Shape) Scaled(f float64) *Shape {
	out := &Shape{
		Kind:        s.Kind,
		HalfExtents: s.HalfExtents.Mul(f),
		Vertices:    make([]mgl64.Vec3, len(s.Vertices)),
		Triangles:   s.Triangles,
		Planes:      make([]Plane, len(s.Planes)),
		Faces:       s.Faces,
		radius:      s.radius * f,
	}
	for i, v := range s.Vertices {
		out.Vertices[i] = v.Mul(f)
	}
	for i, p := range s.Planes {
		out.Planes[i] = Plane{Normal: p.Normal, D: p.D * f}
	}
	return out
}

// Support returns the vertex farthest along dir.
func (s *Shape) Support(dir mgl64.Vec3) mgl64.Vec3 {
	best := s.Vertices[0]
	bestDot := best.Dot(dir)
	for _, v := range s.Vertices[1:] {
		if d := v.Dot(dir); d > bestDot {
			best, bestDot = v, d
		}
	}
	return best
}

// Volume returns the enclosed volume.
func (s *Shape) Volume() float64 {
	if s.Kind == KindBox {
		h := s.HalfExtents
		return 8 * h[0] * h[1] * h[2]
	}
	var v float64
	for _, t := range s.Triangles {
		a, b, c := s.Vertices[t[0]], s.Vertices[t[1]], s.Vertices[t[2]]
		v += a.Dot(b.Cross(c)) / 6
	}
	return v
}

// Inertia returns the body-space inertia tensor for a uniform solid of the
// given mass.
func (s *Shape) Inertia(mass float64) mgl64.Mat3 {
	if s.Kind == KindBox {
		w, h, d := 2*s.HalfExtents[0], 2*s.HalfExtents[1], 2*s.HalfExtents[2]
		k := mass / 12
		return mgl64.Diag3(mgl64.Vec3{k * (h*h + d*d), k * (w*w + d*d), k * (w*w + h*h)})
	}

	// Second moments from tetrahedra fanned from the origin.
	var cov mgl64.Mat3
	var vol float64
	for _, t := range s.Triangles {
		a, b, c := s.Vertices[t[0]], s.Vertices[t[1]], s.Vertices[t[2]]
		det := a.Dot(b.Cross(c))
		vol += det / 6
		sum := a.Add(b).Add(c)
		m := outer(a, a).Add(outer(b, b)).Add(outer(c, c)).Add(outer(sum, sum))
		cov = cov.Add(m.Mul(det / 120))
	}
	if vol <= 0 {
		return mgl64.Ident3().Mul(mass)
	}
	cov = cov.Mul(mass / vol)
	tr := cov.At(0, 0) + cov.At(1, 1) + cov.At(2, 2)
	return mgl64.Ident3().Mul(tr).Sub(cov)
}

func outer(a, b mgl64.Vec3) mgl64.Mat3 {
	var m mgl64.Mat3
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			m.Set(r, c, a[r]*b[c])
		}
	}
	return m
}
