package physics

import (
	"github.com/akmonengine/feather/actor"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/dicetray/internal/engine/collision"
)

// Body is a dynamic die body backed by a feather rigid body.
//
// A body put to sleep with Sleep is parked: it leaves contact solving until
// WakeUp, so a die stored under the ground is not pushed back up. Bodies that
// come to rest on their own stay in the simulation and wake on contact.
type Body struct {
	rb    *actor.RigidBody
	shape *collision.Shape
	mass  float64

	world  *World
	parked bool
	// idle is the time spent below the sleep speed.
	idle float64
}

// NewBody returns an awake body at the origin. mass must be positive.
func NewBody(shape *collision.Shape, mass float64) *Body {
	b := &Body{shape: shape, mass: mass}
	tr := actor.NewTransform()
	tr.InverseRotation = tr.Rotation.Inverse()
	b.rb = b.newRigidBody(tr)
	return b
}

// newRigidBody builds a feather body for the current shape and mass. feather
// derives mass from density, so the density is chosen to give b.mass.
func (b *Body) newRigidBody(tr actor.Transform) *actor.RigidBody {
	density := 0.0
	if v := b.shape.Volume(); v > 0 {
		density = b.mass / v
	}
	rb := actor.NewRigidBody(tr, featherShape(b.shape), actor.BodyTypeDynamic, density)
	rb.Id = b
	if b.world != nil {
		b.world.dressDie(rb)
	}
	return rb
}

func (b *Body) Position() mgl64.Vec3        { return b.rb.Transform.Position }
func (b *Body) Orientation() mgl64.Quat     { return b.rb.Transform.Rotation }
func (b *Body) Velocity() mgl64.Vec3        { return b.rb.Velocity }
func (b *Body) AngularVelocity() mgl64.Vec3 { return b.rb.AngularVelocity }
func (b *Body) Shape() *collision.Shape     { return b.shape }
func (b *Body) Mass() float64               { return b.mass }

// Sleeping reports whether the body is parked or at rest.
func (b *Body) Sleeping() bool { return b.parked || b.rb.IsSleeping }

func (b *Body) SetPosition(p mgl64.Vec3) {
	b.rb.Transform.Position = p
	b.rb.PreviousTransform.Position = p
	b.rb.Shape.ComputeAABB(b.rb.Transform)
}

func (b *Body) SetOrientation(q mgl64.Quat) {
	q = q.Normalize()
	b.rb.Transform.Rotation = q
	b.rb.Transform.InverseRotation = q.Inverse()
	b.rb.PreviousTransform.Rotation = q
	b.rb.Shape.ComputeAABB(b.rb.Transform)
}

func (b *Body) SetVelocity(v mgl64.Vec3) {
	b.rb.Velocity = v
	b.rb.PresolveVelocity = v
}

func (b *Body) SetAngularVelocity(w mgl64.Vec3) {
	b.rb.AngularVelocity = w
	b.rb.PresolveAngularVelocity = w
}

// SetMass changes the mass. Call UpdateMassProperties afterwards.
func (b *Body) SetMass(m float64) { b.mass = m }

// SetShape swaps the collision shape. Call UpdateMassProperties afterwards.
func (b *Body) SetShape(s *collision.Shape) { b.shape = s }

// UpdateMassProperties rebuilds the rigid body for the current mass and
// shape, keeping its pose, velocities and sleep state.
func (b *Body) UpdateMassProperties() {
	old := b.rb
	rb := b.newRigidBody(old.Transform)
	rb.PreviousTransform = old.PreviousTransform
	rb.Velocity, rb.PresolveVelocity = old.Velocity, old.PresolveVelocity
	rb.AngularVelocity, rb.PresolveAngularVelocity = old.AngularVelocity, old.PresolveAngularVelocity
	rb.IsSleeping, rb.SleepTimer = old.IsSleeping, old.SleepTimer
	b.rb = rb

	if b.world != nil && !b.parked {
		b.world.fw.RemoveBody(old)
		b.world.fw.AddBody(rb)
	}
}

// WakeUp makes a sleeping or parked body simulate again.
func (b *Body) WakeUp() {
	b.rb.WakeUp()
	b.idle = 0
	if b.parked {
		b.parked = false
		if b.world != nil {
			b.world.fw.AddBody(b.rb)
		}
	}
}

// Sleep stops and parks the body until WakeUp.
func (b *Body) Sleep() {
	b.rb.Sleep()
	b.rb.PresolveVelocity = mgl64.Vec3{}
	b.rb.PresolveAngularVelocity = mgl64.Vec3{}
	b.idle = 0
	if b.parked {
		return
	}
	b.parked = true
	if b.world != nil {
		b.world.fw.RemoveBody(b.rb)
	}
}

// Transform returns the body-to-world matrix.
func (b *Body) Transform() mgl64.Mat4 {
	p := b.rb.Transform.Position
	return mgl64.Translate3D(p[0], p[1], p[2]).Mul4(b.rb.Transform.Rotation.Mat4())
}
