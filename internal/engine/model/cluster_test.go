package model

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/dicetray/internal/dice"
)

func tri(a, b, c mgl64.Vec3) Triangle {
	return Triangle{Positions: [3]mgl64.Vec3{a, b, c}}
}

func TestClusterFacesSubdividedSquare(t *testing.T) {
	// A unit square in the XY plane fanned into four triangles around its center.
	c := mgl64.Vec3{0.5, 0.5, 0}
	corners := []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	var tris []Triangle
	for i := range corners {
		tris = append(tris, tri(c, corners[i], corners[(i+1)%4]))
	}

	groups, err := ClusterFaces(tris)
	if err != nil {
		t.Fatalf("ClusterFaces returned error: %v", err)
	}
	if !reflect.DeepEqual(groups, [][]int{{0, 1, 2, 3}}) {
		t.Errorf("groups = %v, want one group of four", groups)
	}
}

func TestClusterFacesSeparatesTiltedFaces(t *testing.T) {
	tilt := 5 * math.Pi / 180
	flat := tri(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0})
	tilted := tri(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, math.Tan(tilt)}, mgl64.Vec3{0, 1, 0})
	nearly := tri(mgl64.Vec3{2, 0, 0}, mgl64.Vec3{3, 0, 0.001}, mgl64.Vec3{2, 1, 0})

	groups, err := ClusterFaces([]Triangle{flat, tilted, nearly})
	if err != nil {
		t.Fatalf("ClusterFaces returned error: %v", err)
	}
	want := [][]int{{0, 2}, {1}}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("groups = %v, want %v", groups, want)
	}
}

func TestClusterFacesOrderedByFirstTriangle(t *testing.T) {
	up := tri(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{1, 0, 0})
	side := tri(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 1})
	groups, err := ClusterFaces([]Triangle{side, up, side, up})
	if err != nil {
		t.Fatalf("ClusterFaces returned error: %v", err)
	}
	want := [][]int{{0, 2}, {1, 3}}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("groups = %v, want %v", groups, want)
	}
}

func TestClusterFacesDegenerate(t *testing.T) {
	bad := tri(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{2, 2, 2})
	if _, err := ClusterFaces([]Triangle{bad}); !errors.Is(err, dice.ErrDegenerateFace) {
		t.Errorf("error = %v, want ErrDegenerateFace", err)
	}
}

func TestClusterThresholdAgainstGeneratedSolids(t *testing.T) {
	// The tolerance must neither split nor merge faces of the clustered solids.
	for _, ty := range []dice.Type{dice.D8, dice.D12, dice.D20} {
		d := dice.MustLookup(ty)
		var unit []mgl64.Vec3
		var idx [][3]int
		switch ty {
		case dice.D8:
			unit, idx = octahedronVertices, octahedronIndices
		case dice.D12:
			unit, idx = dodecahedronVertices(), dodecahedronIndices
		case dice.D20:
			unit, idx = icosahedronVertices(), icosahedronIndices
		}
		verts := scaleTo(unit, d.Radius)
		tris := make([]Triangle, len(idx))
		for i, ix := range idx {
			tris[i].Positions = orientOutward([3]mgl64.Vec3{verts[ix[0]], verts[ix[1]], verts[ix[2]]})
		}
		groups, err := ClusterFaces(tris)
		if err != nil {
			t.Fatalf("%v: %v", ty, err)
		}
		if len(groups) != d.FaceCount {
			t.Errorf("%v: %d clusters, want %d", ty, len(groups), d.FaceCount)
		}
	}
}
