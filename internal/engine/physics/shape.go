package physics

import (
	"math"
	"sort"

	"github.com/akmonengine/feather/actor"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/dicetray/internal/engine/collision"
)

// maxPlaneContacts caps the contact points reported against one plane.
const maxPlaneContacts = 4

// hullShape exposes a convex die hull to feather.
type hullShape struct {
	hull *collision.Shape
	aabb actor.AABB
}

// featherShape returns a fresh feather shape for s. Boxes map to feather's
// own box; everything else is a hull.
func featherShape(s *collision.Shape) actor.ShapeInterface {
	if s.Kind == collision.KindBox {
		return &actor.Box{HalfExtents: s.HalfExtents}
	}
	return &hullShape{hull: s}
}

func (h *hullShape) ComputeAABB(tr actor.Transform) {
	lo := tr.Position.Add(tr.Rotation.Rotate(h.hull.Vertices[0]))
	hi := lo
	for _, v := range h.hull.Vertices[1:] {
		w := tr.Position.Add(tr.Rotation.Rotate(v))
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], w[i])
			hi[i] = math.Max(hi[i], w[i])
		}
	}
	h.aabb = actor.AABB{Min: lo, Max: hi}
}

func (h *hullShape) GetAABB() actor.AABB { return h.aabb }

func (h *hullShape) ComputeMass(density float64) float64 {
	return density * h.hull.Volume()
}

func (h *hullShape) ComputeInertia(mass float64) mgl64.Mat3 {
	return h.hull.Inertia(mass)
}

func (h *hullShape) Support(dir mgl64.Vec3) mgl64.Vec3 {
	return h.hull.Support(dir)
}

// GetContactFeature writes the corners of the face whose normal is closest
// to dir, in body space.
func (h *hullShape) GetContactFeature(dir mgl64.Vec3, out *[8]mgl64.Vec3, count *int) {
	best, bestDot := 0, math.Inf(-1)
	for i, p := range h.hull.Planes {
		if d := p.Normal.Dot(dir); d > bestDot {
			best, bestDot = i, d
		}
	}
	loop := h.hull.Faces[best]
	n := min(len(loop), len(out))
	for i := 0; i < n; i++ {
		out[i] = h.hull.Vertices[loop[i]]
	}
	*count = n
}

// CollideWithPlane reports the hull corners behind the plane n·p + d = 0,
// deepest first.
func (h *hullShape) CollideWithPlane(n mgl64.Vec3, d float64, tr actor.Transform) (bool, actor.PlaneContact) {
	var points actor.PlaneContact
	for _, v := range h.hull.Vertices {
		w := tr.Position.Add(tr.Rotation.Rotate(v))
		dist := w.Dot(n) + d
		if dist < 0 {
			points = append(points, actor.ContactPoint{
				Position:    w.Sub(n.Mul(dist)),
				Penetration: -dist,
			})
		}
	}
	if len(points) == 0 {
		return false, nil
	}
	if len(points) > maxPlaneContacts {
		sort.SliceStable(points, func(i, j int) bool {
			return points[i].Penetration > points[j].Penetration
		})
		points = points[:maxPlaneContacts]
	}
	return true, points
}
