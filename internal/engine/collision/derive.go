package collision

import (
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/dicetray/internal/dice"
	"github.com/Faultbox/dicetray/internal/engine/model"
	"github.com/Faultbox/dicetray/internal/logger"
	dmath "github.com/Faultbox/dicetray/pkg/math"
)

// hullKeyDecimals is the precision used to merge hull vertices.
const hullKeyDecimals = 4

// Derive builds the nominal collision shape for a model: a box for the d6,
// otherwise a hull over the model's deduplicated vertices.
func Derive(m *model.Model) *Shape {
	if m.Type == dice.D6 {
		var half mgl64.Vec3
		for _, p := range m.Vertices() {
			for axis := 0; axis < 3; axis++ {
				half[axis] = math.Max(half[axis], math.Abs(p[axis]))
			}
		}
		return NewBox(half)
	}

	s := &Shape{Kind: KindHull}
	index := make(map[[3]int64]int)
	vertex := func(p mgl64.Vec3) int {
		k := dmath.QuantizedKey(p, hullKeyDecimals)
		if i, ok := index[k]; ok {
			return i
		}
		index[k] = len(s.Vertices)
		s.Vertices = append(s.Vertices, p)
		if l := p.Len(); l > s.radius {
			s.radius = l
		}
		return index[k]
	}

	for _, t := range m.Triangles {
		s.Triangles = append(s.Triangles, [3]int{
			vertex(t.Positions[0]), vertex(t.Positions[1]), vertex(t.Positions[2]),
		})
	}
	for _, f := range m.Faces {
		s.Planes = append(s.Planes, Plane{Normal: f.Normal, D: f.Normal.Dot(f.Centroid)})
	}
	s.Faces = faceLoops(s.Vertices, s.Planes)
	return s
}

type entry struct {
	once  sync.Once
	shape *Shape
}

var cache = func() map[dice.Type]*entry {
	m := make(map[dice.Type]*entry, len(dice.Types))
	for _, t := range dice.Types {
		m[t] = &entry{}
	}
	return m
}()

// For returns the shared nominal shape for t. The result is read-only; use
// Scaled to get a per-instance shape.
func For(t dice.Type) (*Shape, error) {
	e, ok := cache[t]
	if !ok {
		return nil, fmt.Errorf("%w: %v", dice.ErrUnknownDieType, t)
	}
	var err error
	e.once.Do(func() {
		var m *model.Model
		m, err = model.Get(t)
		if err != nil {
			return
		}
		e.shape = Derive(m)
		logger.Debug("collision shape derived",
			zap.Stringer("type", t),
			zap.Stringer("kind", e.shape.Kind),
			zap.Int("vertices", len(e.shape.Vertices)),
		)
	})
	if err != nil {
		return nil, err
	}
	return e.shape, nil
}
