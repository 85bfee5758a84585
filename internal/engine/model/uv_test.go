package model

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/dicetray/internal/dice"
)

func TestTangentFrameOrthonormal(t *testing.T) {
	normals := []mgl64.Vec3{
		{0, 1, 0}, {0, -1, 0}, {1, 0, 0}, {0, 0, 1},
		mgl64.Vec3{0.1, 1, 0}.Normalize(),
		mgl64.Vec3{1, 1, 1}.Normalize(),
	}
	for _, n := range normals {
		u, v := TangentFrame(n)
		if math.Abs(u.Len()-1) > 1e-9 || math.Abs(v.Len()-1) > 1e-9 {
			t.Errorf("normal %v: axes not unit (%v, %v)", n, u.Len(), v.Len())
		}
		if math.Abs(u.Dot(v)) > 1e-9 || math.Abs(u.Dot(n)) > 1e-9 || math.Abs(v.Dot(n)) > 1e-9 {
			t.Errorf("normal %v: frame not orthogonal", n)
		}
		// Right-handed: u × v = n.
		if u.Cross(v).Sub(n).Len() > 1e-9 {
			t.Errorf("normal %v: u × v = %v", n, u.Cross(v))
		}
	}
}

func TestTangentFrameSideFaceIsUpright(t *testing.T) {
	u, v := TangentFrame(mgl64.Vec3{0, 0, 1})
	if u.Sub(mgl64.Vec3{1, 0, 0}).Len() > 1e-9 {
		t.Errorf("u = %v, want +X", u)
	}
	if v.Sub(mgl64.Vec3{0, 1, 0}).Len() > 1e-9 {
		t.Errorf("v = %v, want +Y", v)
	}
}

func TestProjectUVSquare(t *testing.T) {
	verts := []mgl64.Vec3{{-1, -1, 3}, {1, -1, 3}, {1, 1, 3}, {-1, 1, 3}}
	uvs, err := ProjectUV(verts, mgl64.Vec3{0, 0, 1})
	if err != nil {
		t.Fatalf("ProjectUV returned error: %v", err)
	}
	s := 0.5 / math.Sqrt2
	want := []mgl64.Vec2{
		{0.5 - s, 0.5 + s}, {0.5 + s, 0.5 + s}, {0.5 + s, 0.5 - s}, {0.5 - s, 0.5 - s},
	}
	for i := range want {
		if uvs[i].Sub(want[i]).Len() > 1e-9 {
			t.Errorf("uv[%d] = %v, want %v", i, uvs[i], want[i])
		}
	}
}

func TestProjectUVScaleInvariant(t *testing.T) {
	base := []mgl64.Vec3{{0, 0, 0}, {2, 0, 0}, {1, 3, 0}}
	n := mgl64.Vec3{0, 0, 1}
	a, err := ProjectUV(base, n)
	if err != nil {
		t.Fatalf("ProjectUV returned error: %v", err)
	}
	scaled := make([]mgl64.Vec3, len(base))
	for i, p := range base {
		scaled[i] = p.Mul(7.5).Add(mgl64.Vec3{4, -2, 1})
	}
	b, err := ProjectUV(scaled, n)
	if err != nil {
		t.Fatalf("ProjectUV returned error: %v", err)
	}
	for i := range a {
		if a[i].Sub(b[i]).Len() > 1e-9 {
			t.Errorf("uv[%d]: %v vs %v after scaling", i, a[i], b[i])
		}
	}
}

func TestProjectUVDegenerate(t *testing.T) {
	tests := []struct {
		name  string
		verts []mgl64.Vec3
	}{
		{"too few", []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}}},
		{"coincident", []mgl64.Vec3{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}}},
		{"collinear", []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ProjectUV(tt.verts, mgl64.Vec3{0, 0, 1})
			if !errors.Is(err, dice.ErrDegenerateFace) {
				t.Errorf("error = %v, want ErrDegenerateFace", err)
			}
		})
	}
}
