package model

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/dicetray/internal/dice"
	"github.com/Faultbox/dicetray/internal/logger"
	dmath "github.com/Faultbox/dicetray/pkg/math"
)

// Default numeral size as a fraction of the face texture.
const numeralSize = 0.45

// Build constructs the model for t from constants. It does not use the cache.
func Build(t dice.Type) (*Model, error) {
	d, err := dice.Lookup(t)
	if err != nil {
		return nil, err
	}

	var m *Model
	switch t {
	case dice.D4:
		m, err = buildD4(d)
	case dice.D6:
		m, err = buildD6(d)
	case dice.D8:
		m, err = buildClustered(d, octahedronVertices, octahedronIndices)
	case dice.D10:
		m, err = buildD10(d)
	case dice.D12:
		m, err = buildClustered(d, dodecahedronVertices(), dodecahedronIndices)
	case dice.D20:
		m, err = buildClustered(d, icosahedronVertices(), icosahedronIndices)
	}
	if err != nil {
		return nil, fmt.Errorf("building %v: %w", t, err)
	}

	if len(m.Faces) != d.FaceCount {
		return nil, fmt.Errorf("building %v: %d face groups, want %d: %w",
			t, len(m.Faces), d.FaceCount, dice.ErrDegenerateFace)
	}

	logger.Debug("die model built",
		zap.Stringer("type", t),
		zap.Int("triangles", len(m.Triangles)),
		zap.Int("faces", len(m.Faces)),
	)
	return m, nil
}

// buildClustered builds a regular solid from an indexed vertex table. The
// raw triangles carry no grouping; faces are recovered with ClusterFaces.
func buildClustered(d dice.Descriptor, unit []mgl64.Vec3, indices [][3]int) (*Model, error) {
	verts := scaleTo(unit, d.Radius)
	tris := make([]Triangle, len(indices))
	for i, idx := range indices {
		tris[i].Positions = orientOutward([3]mgl64.Vec3{verts[idx[0]], verts[idx[1]], verts[idx[2]]})
	}

	groups, err := ClusterFaces(tris)
	if err != nil {
		return nil, err
	}
	return assemble(d, tris, groups)
}

// assemble reorders triangles so each face group is contiguous, then fills in
// normals, centroids, texture coordinates, values and default numerals.
func assemble(d dice.Descriptor, tris []Triangle, groups [][]int) (*Model, error) {
	m := &Model{
		Type:       d.Type,
		Descriptor: d,
		Triangles:  make([]Triangle, 0, len(tris)),
		Faces:      make([]FaceGroup, len(groups)),
	}

	for fi, members := range groups {
		verts := distinctVertices(tris, members)

		var sum mgl64.Vec3
		for _, ti := range members {
			n, _ := tris[ti].Normal()
			sum = sum.Add(n)
		}
		if sum.Len() == 0 {
			return nil, fmt.Errorf("face %d: %w", fi, dice.ErrDegenerateFace)
		}
		normal := sum.Normalize()

		uvs, err := ProjectUV(verts, normal)
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", fi, err)
		}
		uvByKey := make(map[[3]int64]mgl64.Vec2, len(verts))
		for i, p := range verts {
			uvByKey[dmath.QuantizedKey(p, vertexKeyDecimals)] = uvs[i]
		}

		face := FaceGroup{
			Index:    fi,
			Normal:   normal,
			Centroid: dmath.Centroid(verts),
			Vertices: verts,
			UVs:      uvs,
			Value:    d.Value(fi),
		}
		face.Numerals = []Numeral{{
			Value:  face.Value,
			Center: mgl64.Vec2{0.5, 0.5},
			Size:   numeralSize,
		}}

		for _, ti := range members {
			t := tris[ti]
			t.Face = fi
			for j, p := range t.Positions {
				t.UVs[j] = uvByKey[dmath.QuantizedKey(p, vertexKeyDecimals)]
			}
			face.Triangles = append(face.Triangles, len(m.Triangles))
			m.Triangles = append(m.Triangles, t)
		}
		m.Faces[fi] = face
	}
	return m, nil
}
