package tray

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/dicetray/internal/dice"
	"github.com/Faultbox/dicetray/internal/engine/collision"
	"github.com/Faultbox/dicetray/internal/engine/model"
)

// ID identifies a die instance. IDs increase monotonically and are never
// reused within a registry.
type ID int

// State is the throw lifecycle of one instance.
type State int

const (
	Idle State = iota
	Launched
	Settling
	Settled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Launched:
		return "launched"
	case Settling:
		return "settling"
	case Settled:
		return "settled"
	}
	return "unknown"
}

// Instance is one die on the tray.
type Instance struct {
	ID    ID
	Type  dice.Type
	Model *model.Model
	Body  Body

	// Shape is the collision shape at the current Scale.
	Shape *collision.Shape
	Scale float64

	// Value is nil until the instance settles after a throw.
	Value *int
	State State

	Color color.RGBA
}

// Transform returns the model-to-world matrix including the display scale.
func (i *Instance) Transform() mgl64.Mat4 {
	p := i.Body.Position()
	return mgl64.Translate3D(p[0], p[1], p[2]).
		Mul4(i.Body.Orientation().Mat4()).
		Mul4(mgl64.Scale3D(i.Scale, i.Scale, i.Scale))
}

// Result is the settled value of one instance.
type Result struct {
	InstanceID ID
	Type       dice.Type
	Value      int
}

// Total sums result values.
func Total(results []Result) int {
	sum := 0
	for _, r := range results {
		sum += r.Value
	}
	return sum
}
