// Package model builds the solid models for the six die shapes: triangles with
// texture coordinates, the grouping of triangles into numbered faces, and the
// outward normal of every face.
package model

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/dicetray/internal/dice"
	dmath "github.com/Faultbox/dicetray/pkg/math"
)

// Triangle is one triangle of a die mesh in model space.
// Positions are wound counter-clockwise as seen from outside the solid.
type Triangle struct {
	Positions [3]mgl64.Vec3
	UVs       [3]mgl64.Vec2
	Face      int
}

// Normal returns the unit normal and doubled area of the triangle.
func (t Triangle) Normal() (mgl64.Vec3, float64) {
	return dmath.TriangleNormal(t.Positions[0], t.Positions[1], t.Positions[2])
}

// Numeral is a glyph placed on a face texture.
type Numeral struct {
	Value int
	// Center is the glyph center in face texture space, (0,0) top-left.
	Center mgl64.Vec2
	// Angle is the clockwise rotation of the glyph's up direction in radians.
	Angle float64
	// Size is the glyph height as a fraction of the texture height.
	Size float64
}

// FaceGroup is one physical, numbered face of a die.
type FaceGroup struct {
	Index int
	// Triangles are indices into Model.Triangles. They are contiguous.
	Triangles []int
	Normal    mgl64.Vec3
	Centroid  mgl64.Vec3
	// Vertices are the distinct corners of the face and UVs their texture
	// coordinates, index for index.
	Vertices []mgl64.Vec3
	UVs      []mgl64.Vec2
	Value    int
	Numerals []Numeral
}

// Model is the solid model of one die type.
// Models returned by Get are shared and must not be modified; use Clone.
type Model struct {
	Type       dice.Type
	Descriptor dice.Descriptor
	Triangles  []Triangle
	Faces      []FaceGroup
}

// FaceNormals returns one outward unit normal per face, recomputed from the
// first triangle of each face group.
func (m *Model) FaceNormals() []mgl64.Vec3 {
	normals := make([]mgl64.Vec3, len(m.Faces))
	for i, f := range m.Faces {
		if len(f.Triangles) == 0 {
			normals[i] = f.Normal
			continue
		}
		n, area2 := m.Triangles[f.Triangles[0]].Normal()
		if area2 == 0 {
			n = f.Normal
		}
		normals[i] = n
	}
	return normals
}

// Vertices returns every triangle corner in triangle order (three per triangle).
func (m *Model) Vertices() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, 0, len(m.Triangles)*3)
	for _, t := range m.Triangles {
		out = append(out, t.Positions[:]...)
	}
	return out
}

// BoundingRadius returns the distance of the farthest vertex from the origin.
func (m *Model) BoundingRadius() float64 {
	var r float64
	for _, t := range m.Triangles {
		for _, p := range t.Positions {
			if l := p.Len(); l > r {
				r = l
			}
		}
	}
	return r
}

// Clone returns a deep copy that can be modified independently.
func (m *Model) Clone() *Model {
	c := &Model{
		Type:       m.Type,
		Descriptor: m.Descriptor,
		Triangles:  append([]Triangle(nil), m.Triangles...),
		Faces:      make([]FaceGroup, len(m.Faces)),
	}
	for i, f := range m.Faces {
		f.Triangles = append([]int(nil), f.Triangles...)
		f.Vertices = append([]mgl64.Vec3(nil), f.Vertices...)
		f.UVs = append([]mgl64.Vec2(nil), f.UVs...)
		f.Numerals = append([]Numeral(nil), f.Numerals...)
		c.Faces[i] = f
	}
	return c
}
