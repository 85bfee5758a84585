package model

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/dicetray/internal/dice"
)

// ClusterThreshold is the minimum normal dot product for two triangles to
// belong to the same face (about 2.56 degrees).
const ClusterThreshold = 0.999

// ClusterFaces partitions a flat triangle list into faces by normal
// similarity. Each cluster is represented by the normal of its first
// triangle. Clusters are ordered by the index of their first triangle, so the
// result is stable for a given mesh.
//
// This is a tolerance test, not a topological adjacency computation: two
// parallel faces on opposite sides of a non-convex mesh would merge.
func ClusterFaces(tris []Triangle) ([][]int, error) {
	type cluster struct {
		normal  mgl64.Vec3
		members []int
	}
	var clusters []*cluster

	for i, t := range tris {
		n, area2 := t.Normal()
		if area2 == 0 {
			return nil, fmt.Errorf("triangle %d: %w", i, dice.ErrDegenerateFace)
		}

		var home *cluster
		for _, c := range clusters {
			if c.normal.Dot(n) > ClusterThreshold {
				home = c
				break
			}
		}
		if home == nil {
			home = &cluster{normal: n}
			clusters = append(clusters, home)
		}
		home.members = append(home.members, i)
	}

	sort.SliceStable(clusters, func(a, b int) bool {
		return clusters[a].members[0] < clusters[b].members[0]
	})

	out := make([][]int, len(clusters))
	for i, c := range clusters {
		out[i] = c.members
	}
	return out, nil
}
