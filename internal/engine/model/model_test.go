package model

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/dicetray/internal/dice"
	dmath "github.com/Faultbox/dicetray/pkg/math"
)

func mustGet(t *testing.T, ty dice.Type) *Model {
	t.Helper()
	m, err := Get(ty)
	if err != nil {
		t.Fatalf("Get(%v) returned error: %v", ty, err)
	}
	return m
}

func TestFaceCounts(t *testing.T) {
	for _, ty := range dice.Types {
		m := mustGet(t, ty)
		if len(m.Faces) != int(ty) {
			t.Errorf("%v: %d face groups, want %d", ty, len(m.Faces), int(ty))
		}
	}
}

func TestTriangleCounts(t *testing.T) {
	want := map[dice.Type]int{
		dice.D4: 4, dice.D6: 12, dice.D8: 8, dice.D10: 20, dice.D12: 36, dice.D20: 20,
	}
	for ty, n := range want {
		if got := len(mustGet(t, ty).Triangles); got != n {
			t.Errorf("%v: %d triangles, want %d", ty, got, n)
		}
	}
}

func TestFaceGroupsPartitionTriangles(t *testing.T) {
	for _, ty := range dice.Types {
		m := mustGet(t, ty)
		owner := make([]int, len(m.Triangles))
		for i := range owner {
			owner[i] = -1
		}
		next := 0
		for fi, f := range m.Faces {
			if f.Index != fi {
				t.Errorf("%v face %d: Index = %d", ty, fi, f.Index)
			}
			for _, ti := range f.Triangles {
				if owner[ti] != -1 {
					t.Errorf("%v: triangle %d in faces %d and %d", ty, ti, owner[ti], fi)
				}
				owner[ti] = fi
				if ti != next {
					t.Errorf("%v face %d: triangle %d not contiguous (want %d)", ty, fi, ti, next)
				}
				next++
				if m.Triangles[ti].Face != fi {
					t.Errorf("%v: triangle %d has Face %d, want %d", ty, ti, m.Triangles[ti].Face, fi)
				}
			}
		}
		for ti, o := range owner {
			if o == -1 {
				t.Errorf("%v: triangle %d belongs to no face", ty, ti)
			}
		}
	}
}

func TestNormalsAgreeWithinGroups(t *testing.T) {
	for _, ty := range dice.Types {
		m := mustGet(t, ty)
		for fi, f := range m.Faces {
			if math.Abs(f.Normal.Len()-1) > 1e-9 {
				t.Errorf("%v face %d: normal length %v", ty, fi, f.Normal.Len())
			}
			for _, ti := range f.Triangles {
				n, _ := m.Triangles[ti].Normal()
				if n.Dot(f.Normal) <= ClusterThreshold {
					t.Errorf("%v face %d: triangle %d normal %v disagrees with %v", ty, fi, ti, n, f.Normal)
				}
			}
		}
	}
}

func TestNoTwoFacesShareANormal(t *testing.T) {
	for _, ty := range dice.Types {
		normals := mustGet(t, ty).FaceNormals()
		for i := range normals {
			for j := i + 1; j < len(normals); j++ {
				if normals[i].Dot(normals[j]) > ClusterThreshold {
					t.Errorf("%v: faces %d and %d share normal %v", ty, i, j, normals[i])
				}
			}
		}
	}
}

func TestNormalsPointOutward(t *testing.T) {
	for _, ty := range dice.Types {
		m := mustGet(t, ty)
		for ti, tri := range m.Triangles {
			n, area2 := tri.Normal()
			if area2 == 0 {
				t.Fatalf("%v: triangle %d is degenerate", ty, ti)
			}
			c := dmath.Centroid(tri.Positions[:])
			if n.Dot(c) <= 0 {
				t.Errorf("%v: triangle %d winds inward", ty, ti)
			}
		}
	}
}

func TestVerticesOnCircumsphere(t *testing.T) {
	for _, ty := range []dice.Type{dice.D4, dice.D8, dice.D12, dice.D20} {
		m := mustGet(t, ty)
		r := m.Descriptor.Radius
		for _, p := range m.Vertices() {
			if math.Abs(p.Len()-r) > 1e-9 {
				t.Errorf("%v: vertex %v at distance %v, want %v", ty, p, p.Len(), r)
			}
		}
	}
}

func TestFaceValues(t *testing.T) {
	for _, ty := range dice.Types {
		m := mustGet(t, ty)
		for fi, f := range m.Faces {
			if want := m.Descriptor.Value(fi); f.Value != want {
				t.Errorf("%v face %d: value %d, want %d", ty, fi, f.Value, want)
			}
		}
	}
}

func TestD6OppositeFaces(t *testing.T) {
	m := mustGet(t, dice.D6)
	for pair := 0; pair < 3; pair++ {
		a, b := m.Faces[2*pair], m.Faces[2*pair+1]
		if a.Normal.Dot(b.Normal) > -0.999 {
			t.Errorf("faces %d and %d are not opposite: %v %v", a.Index, b.Index, a.Normal, b.Normal)
		}
		if a.Value+b.Value != 7 {
			t.Errorf("faces %d and %d: %d + %d != 7", a.Index, b.Index, a.Value, b.Value)
		}
	}
}

func TestD10ValuesAndPlanarity(t *testing.T) {
	m := mustGet(t, dice.D10)

	seen := make(map[int]bool)
	for _, f := range m.Faces {
		if f.Value < 0 || f.Value > 9 || seen[f.Value] {
			t.Errorf("face %d: unexpected or repeated value %d", f.Index, f.Value)
		}
		seen[f.Value] = true
	}
	if len(seen) != 10 {
		t.Errorf("expected values 0..9, got %v", seen)
	}

	for _, f := range m.Faces {
		if len(f.Vertices) != 4 {
			t.Fatalf("face %d: %d distinct vertices, want 4", f.Index, len(f.Vertices))
		}
		a, b, c := f.Vertices[0], f.Vertices[1], f.Vertices[2]
		n := b.Sub(a).Cross(c.Sub(a)).Normalize()
		for _, p := range f.Vertices {
			if d := math.Abs(n.Dot(p.Sub(a))); d > 1e-9 {
				t.Errorf("face %d: vertex %v is %g off the kite plane", f.Index, p, d)
			}
		}
	}
}

func TestD4CornerNumerals(t *testing.T) {
	m := mustGet(t, dice.D4)
	corners := tetrahedronVertices(m.Descriptor.Radius)

	for k, corner := range corners {
		adjacent := 0
		for _, f := range m.Faces {
			vi := -1
			for i, v := range f.Vertices {
				if dmath.ApproxEqual(v, corner, 1e-9) {
					vi = i
				}
			}
			if vi < 0 {
				if f.Index != k {
					t.Errorf("face %d should touch corner %d", f.Index, k)
				}
				continue
			}
			adjacent++

			if len(f.Numerals) != 3 {
				t.Fatalf("face %d: %d numerals, want 3", f.Index, len(f.Numerals))
			}

			// The numeral closest to this corner's texture position.
			best, bestDist := -1, math.Inf(1)
			for ni, n := range f.Numerals {
				if d := n.Center.Sub(f.UVs[vi]).Len(); d < bestDist {
					best, bestDist = ni, d
				}
			}
			if got := f.Numerals[best].Value; got != k+1 {
				t.Errorf("face %d: numeral near corner %d shows %d, want %d", f.Index, k, got, k+1)
			}
		}
		if adjacent != 3 {
			t.Errorf("corner %d touches %d faces, want 3", k, adjacent)
		}
	}
}

func TestD4NumeralsPointAtCorners(t *testing.T) {
	m := mustGet(t, dice.D4)
	for _, f := range m.Faces {
		for i, n := range f.Numerals {
			dir := f.UVs[i].Sub(n.Center).Normalize()
			// Glyph up (0,-1) rotated clockwise by Angle.
			up := mgl64.Vec2{math.Sin(n.Angle), -math.Cos(n.Angle)}
			if up.Dot(dir) < 0.999 {
				t.Errorf("face %d numeral %d points %v, corner is toward %v", f.Index, i, up, dir)
			}
		}
	}
}

func TestUVsCenteredAndInscribed(t *testing.T) {
	for _, ty := range dice.Types {
		m := mustGet(t, ty)
		for _, f := range m.Faces {
			var maxR float64
			for _, uv := range f.UVs {
				if uv[0] < -1e-9 || uv[0] > 1+1e-9 || uv[1] < -1e-9 || uv[1] > 1+1e-9 {
					t.Errorf("%v face %d: uv %v outside unit square", ty, f.Index, uv)
				}
				maxR = math.Max(maxR, uv.Sub(mgl64.Vec2{0.5, 0.5}).Len())
			}
			if math.Abs(maxR-0.5) > 1e-9 {
				t.Errorf("%v face %d: farthest uv at %v from center, want 0.5", ty, f.Index, maxR)
			}
		}
		for ti, tri := range m.Triangles {
			f := m.Faces[tri.Face]
			for j, p := range tri.Positions {
				found := false
				for vi, v := range f.Vertices {
					if dmath.ApproxEqual(v, p, 1e-9) && tri.UVs[j] == f.UVs[vi] {
						found = true
					}
				}
				if !found {
					t.Errorf("%v triangle %d corner %d: uv %v not taken from its face", ty, ti, j, tri.UVs[j])
				}
			}
		}
	}
}

func TestRegularFaceUVsCentered(t *testing.T) {
	// Regular polygons have their vertex centroid at the texture center.
	for _, ty := range []dice.Type{dice.D4, dice.D6, dice.D8, dice.D12, dice.D20} {
		for _, f := range mustGet(t, ty).Faces {
			var sum mgl64.Vec2
			for _, uv := range f.UVs {
				sum = sum.Add(uv)
			}
			c := sum.Mul(1 / float64(len(f.UVs)))
			if c.Sub(mgl64.Vec2{0.5, 0.5}).Len() > 1e-9 {
				t.Errorf("%v face %d: uv centroid %v", ty, f.Index, c)
			}
		}
	}
}

func TestGetUnknownType(t *testing.T) {
	if _, err := Get(dice.Type(7)); !errors.Is(err, dice.ErrUnknownDieType) {
		t.Errorf("Get(7) error = %v, want ErrUnknownDieType", err)
	}
	if _, err := Build(dice.Type(100)); !errors.Is(err, dice.ErrUnknownDieType) {
		t.Errorf("Build(100) error = %v, want ErrUnknownDieType", err)
	}
	// Other types are unaffected.
	mustGet(t, dice.D20)
}

func TestGetIsCached(t *testing.T) {
	a := mustGet(t, dice.D12)
	b := mustGet(t, dice.D12)
	if a != b {
		t.Error("Get should return the shared model")
	}
}

func TestNewIsIndependent(t *testing.T) {
	shared := mustGet(t, dice.D8)
	c, err := New(dice.D8)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if c == shared {
		t.Fatal("New returned the shared model")
	}
	c.Faces[0].Numerals[0].Value = 99
	c.Triangles[0].UVs[0] = mgl64.Vec2{9, 9}
	if shared.Faces[0].Numerals[0].Value == 99 || shared.Triangles[0].UVs[0] == (mgl64.Vec2{9, 9}) {
		t.Error("modifying a clone changed the shared model")
	}
}

func TestBuildIsReproducible(t *testing.T) {
	for _, ty := range dice.Types {
		a, err := Build(ty)
		if err != nil {
			t.Fatalf("Build(%v): %v", ty, err)
		}
		b, _ := Build(ty)
		an, bn := a.FaceNormals(), b.FaceNormals()
		for i := range an {
			if an[i] != bn[i] {
				t.Errorf("%v face %d: normal %v then %v", ty, i, an[i], bn[i])
			}
		}
	}
}

func TestTrapezohedronRingRatio(t *testing.T) {
	want := (5 - 2*math.Sqrt(5)) / 5
	if math.Abs(TrapezohedronRingRatio-want) > 1e-12 {
		t.Errorf("ring ratio = %v, want %v", TrapezohedronRingRatio, want)
	}
}
