package tray

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/dicetray/internal/engine/collision"
	"github.com/Faultbox/dicetray/internal/engine/physics"
)

// Body is the rigid body of one die as seen by the registry.
type Body interface {
	Position() mgl64.Vec3
	SetPosition(mgl64.Vec3)
	Orientation() mgl64.Quat
	SetOrientation(mgl64.Quat)
	SetVelocity(mgl64.Vec3)
	SetAngularVelocity(mgl64.Vec3)

	Sleeping() bool
	Sleep()
	WakeUp()

	SetMass(float64)
	SetShape(*collision.Shape)
	UpdateMassProperties()
}

// World creates and destroys bodies. Stepping is left to the owner of the
// world.
type World interface {
	Spawn(shape *collision.Shape, mass float64) Body
	Despawn(Body)
}

// PhysicsWorld adapts a physics.World to World.
func PhysicsWorld(w *physics.World) World {
	return physicsWorld{w}
}

type physicsWorld struct {
	w *physics.World
}

func (p physicsWorld) Spawn(shape *collision.Shape, mass float64) Body {
	b := physics.NewBody(shape, mass)
	p.w.AddBody(b)
	return b
}

func (p physicsWorld) Despawn(b Body) {
	if pb, ok := b.(*physics.Body); ok {
		p.w.RemoveBody(pb)
	}
}
