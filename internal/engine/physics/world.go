package physics

import (
	"math"

	"github.com/akmonengine/feather"
	"github.com/akmonengine/feather/actor"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/dicetray/internal/logger"
)

// Broad-phase grid: cells a little larger than the biggest die.
const (
	gridCellSize = 2.0
	gridCells    = 1024
)

// surface is the per-body half of a contact material.
type surface struct {
	friction    float64
	restitution float64
}

// World owns the dynamic bodies and the static tray planes.
type World struct {
	cfg    Config
	fw     *feather.World
	bodies []*Body
	log    *zap.Logger

	die  surface
	tray surface

	walls       [4]*actor.Plane
	accumulator float64
}

// NewWorld creates a world with a ground plane at y = 0, a ceiling, and
// walls around cfg's play bounds.
func NewWorld(cfg Config) *World {
	if cfg.FixedStep <= 0 {
		cfg.FixedStep = DefaultConfig().FixedStep
	}
	if cfg.MaxSubSteps <= 0 {
		cfg.MaxSubSteps = 1
	}
	if cfg.Substeps <= 0 {
		cfg.Substeps = DefaultConfig().Substeps
	}
	w := &World{
		cfg: cfg,
		fw: &feather.World{
			Gravity:     cfg.Gravity,
			Substeps:    cfg.Substeps,
			SpatialGrid: feather.NewSpatialGrid(gridCellSize, gridCells),
			Workers:     1,
			Events:      feather.NewEvents(),
		},
		log: logger.Named("physics"),
	}
	w.die, w.tray = surfaces(cfg.DiceDice, cfg.DiceGround)

	w.addPlane(mgl64.Vec3{0, 1, 0}, 0)
	w.addPlane(mgl64.Vec3{0, -1, 0}, cfg.Ceiling)
	w.walls = [4]*actor.Plane{
		w.addPlane(mgl64.Vec3{0, 0, 1}, 0),  // back
		w.addPlane(mgl64.Vec3{0, 0, -1}, 0), // front
		w.addPlane(mgl64.Vec3{1, 0, 0}, 0),  // left
		w.addPlane(mgl64.Vec3{-1, 0, 0}, 0), // right
	}
	w.SetBounds(cfg.HalfX, cfg.HalfZ)

	w.fw.Events.Subscribe(feather.ON_WAKE, func(e feather.Event) {
		if ev, ok := e.(feather.WakeEvent); ok {
			if b, ok := ev.Body.Id.(*Body); ok {
				p := b.Position()
				w.log.Debug("body woken", zap.Float64s("position", p[:]))
			}
		}
	})
	return w
}

// surfaces splits the two pair materials into per-body values. feather
// combines friction by geometric mean and restitution by average, so a die
// gets the dice-dice values and the tray planes get whatever recombines into
// the dice-ground values.
func surfaces(diceDice, diceGround Material) (die, tray surface) {
	die = surface{friction: diceDice.Friction, restitution: diceDice.Restitution}
	if die.friction > 0 {
		tray.friction = diceGround.Friction * diceGround.Friction / die.friction
	}
	tray.restitution = math.Max(0, 2*diceGround.Restitution-die.restitution)
	return die, tray
}

// dampingRate converts a per-second loss fraction to feather's exponential
// rate.
func dampingRate(loss float64) float64 {
	if loss <= 0 {
		return 0
	}
	return -math.Log1p(-math.Min(loss, 0.999999))
}

// addPlane adds a static plane n·p + d = 0 facing along n.
func (w *World) addPlane(n mgl64.Vec3, d float64) *actor.Plane {
	tr := actor.NewTransform()
	tr.InverseRotation = tr.Rotation.Inverse()
	plane := &actor.Plane{Normal: n, Distance: d}
	rb := actor.NewRigidBody(tr, plane, actor.BodyTypeStatic, 0)
	rb.Material.StaticFriction = w.tray.friction
	rb.Material.DynamicFriction = w.tray.friction
	rb.Material.Restitution = w.tray.restitution
	w.fw.AddBody(rb)
	return plane
}

// dressDie applies the die surface and damping to a dynamic body.
func (w *World) dressDie(rb *actor.RigidBody) {
	rb.Material.StaticFriction = w.die.friction
	rb.Material.DynamicFriction = w.die.friction
	rb.Material.Restitution = w.die.restitution
	rb.Material.LinearDamping = dampingRate(w.cfg.LinearDamping)
	rb.Material.AngularDamping = dampingRate(w.cfg.AngularDamping)
}

// Config returns the world constants.
func (w *World) Config() Config { return w.cfg }

// SetBounds moves the four walls so the open area spans ±halfX by ±halfZ.
// Sizes below MinHalfExtent are raised to it. Sleeping bodies are not woken.
func (w *World) SetBounds(halfX, halfZ float64) {
	halfX = math.Max(halfX, MinHalfExtent)
	halfZ = math.Max(halfZ, MinHalfExtent)
	w.cfg.HalfX, w.cfg.HalfZ = halfX, halfZ
	w.walls[0].Distance = halfZ
	w.walls[1].Distance = halfZ
	w.walls[2].Distance = halfX
	w.walls[3].Distance = halfX
}

// Bounds returns the current play-area half sizes.
func (w *World) Bounds() (halfX, halfZ float64) { return w.cfg.HalfX, w.cfg.HalfZ }

// AddBody adds b to the world. Adding a body twice is a no-op.
func (w *World) AddBody(b *Body) {
	if b.world == w {
		return
	}
	b.world = w
	w.dressDie(b.rb)
	w.bodies = append(w.bodies, b)
	if !b.parked {
		w.fw.AddBody(b.rb)
	}
}

// RemoveBody removes b. It reports whether b was in the world.
func (w *World) RemoveBody(b *Body) bool {
	for i, o := range w.bodies {
		if o == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			if !b.parked {
				w.fw.RemoveBody(b.rb)
			}
			b.world = nil
			return true
		}
	}
	return false
}

// Bodies returns the bodies in insertion order.
func (w *World) Bodies() []*Body { return w.bodies }

// Step advances the simulation by dt seconds of wall time in fixed steps.
// At most MaxSubSteps steps run per call; leftover time beyond that is
// dropped so a stalled caller does not trigger a burst of catch-up steps.
// It returns the number of steps taken.
func (w *World) Step(dt float64) int {
	if dt <= 0 {
		return 0
	}
	h := w.cfg.FixedStep
	w.accumulator += dt

	steps := 0
	for w.accumulator >= h && steps < w.cfg.MaxSubSteps {
		w.fw.Step(h)
		for _, b := range w.bodies {
			w.updateSleep(b, h)
		}
		w.accumulator -= h
		steps++
	}
	if w.accumulator >= h {
		w.accumulator = 0
	}
	return steps
}

// updateSleep puts b to sleep once its own speed has stayed below the limit
// for SleepTime. Contacts never reset the timer of an awake body; a sleeping
// body wakes only when a contact pushes it faster than feather's wake speed.
func (w *World) updateSleep(b *Body, h float64) {
	if b.Sleeping() {
		// No restitution from pre-sleep motion.
		b.rb.PresolveVelocity = mgl64.Vec3{}
		b.rb.PresolveAngularVelocity = mgl64.Vec3{}
		b.idle = 0
		return
	}
	limit := w.cfg.SleepSpeed
	if b.rb.Velocity.Len() >= limit || b.rb.AngularVelocity.Len() >= limit {
		b.idle = 0
		return
	}
	b.idle += h
	if b.idle >= w.cfg.SleepTime {
		b.rb.Sleep()
		b.rb.PresolveVelocity = mgl64.Vec3{}
		b.rb.PresolveAngularVelocity = mgl64.Vec3{}
		b.idle = 0
	}
}

// AllSleeping reports whether every dynamic body is asleep.
func (w *World) AllSleeping() bool {
	for _, b := range w.bodies {
		if !b.Sleeping() {
			return false
		}
	}
	return true
}
