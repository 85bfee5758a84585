// Package tray manages the dice on the table: creating and removing
// instances, rescaling them by population, throwing them, and reporting
// values once a throw has come to rest.
package tray

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"image/color"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/dicetray/internal/dice"
	"github.com/Faultbox/dicetray/internal/engine/collision"
	"github.com/Faultbox/dicetray/internal/engine/model"
	"github.com/Faultbox/dicetray/internal/engine/outcome"
	"github.com/Faultbox/dicetray/internal/logger"
	dmath "github.com/Faultbox/dicetray/pkg/math"
)

// DefaultSettleDelay is how long after launch a session starts polling for
// rest.
const DefaultSettleDelay = 150 * time.Millisecond

// ParkedPosition is where idle dice wait before their first throw.
var ParkedPosition = mgl64.Vec3{0, -10, 0}

// Launch parameters.
const (
	launchSpacing = 1.8
	launchJitter  = 0.15
	launchHeight  = 2.5
	launchStagger = 0.3
	launchDepth   = 1.0
	launchDrop    = -5.0
	launchDrift   = 0.25
	launchSpin    = 4.0
)

// Options configures a Registry. Zero values select defaults.
type Options struct {
	// Rand drives launch positions and spins. Defaults to a generator seeded
	// from crypto/rand.
	Rand *rand.Rand
	// Clock stamps throws. Defaults to time.Now.
	Clock       func() time.Time
	SettleDelay time.Duration
	// Colors overrides the base color per type.
	Colors map[dice.Type]color.RGBA
	Logger *zap.Logger
}

// Registry owns the die instances on the tray and their throw sessions.
// It is not safe for concurrent use; drive it from one loop.
type Registry struct {
	world       World
	rng         *rand.Rand
	clock       func() time.Time
	settleDelay time.Duration
	colors      map[dice.Type]color.RGBA
	log         *zap.Logger

	nextID    ID
	instances []*Instance
	pending   []*Session
	listeners []func([]Result)
	scale     float64
}

// NewRegistry returns an empty registry whose bodies live in world.
func NewRegistry(world World, opts Options) *Registry {
	r := &Registry{
		world:       world,
		rng:         opts.Rand,
		clock:       opts.Clock,
		settleDelay: opts.SettleDelay,
		colors:      make(map[dice.Type]color.RGBA),
		log:         opts.Logger,
		scale:       ScaleFor(0),
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewSource(newSeed()))
	}
	if r.clock == nil {
		r.clock = time.Now
	}
	if r.settleDelay <= 0 {
		r.settleDelay = DefaultSettleDelay
	}
	if r.log == nil {
		r.log = logger.Named("tray")
	}
	for t, c := range opts.Colors {
		r.colors[t] = c
	}
	return r
}

// newSeed reads a seed from crypto/rand, falling back to the clock.
func newSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// Color returns the base color for t, honoring overrides.
func (r *Registry) Color(t dice.Type) color.RGBA {
	if c, ok := r.colors[t]; ok {
		return c
	}
	return dice.Color(t)
}

// SetColor recolors one instance.
func (r *Registry) SetColor(id ID, c color.RGBA) error {
	inst := r.Instance(id)
	if inst == nil {
		return fmt.Errorf("%w: %d", ErrUnknownInstance, id)
	}
	inst.Color = c
	return nil
}

// OnSettled registers fn to be called with the results of every session
// that settles.
func (r *Registry) OnSettled(fn func([]Result)) {
	r.listeners = append(r.listeners, fn)
}

// Scale returns the scale currently applied to every instance.
func (r *Registry) Scale() float64 { return r.scale }

// Create adds an idle die of type t and rescales the tray.
func (r *Registry) Create(t dice.Type) (ID, error) {
	m, err := model.New(t)
	if err != nil {
		return 0, err
	}
	nominal, err := collision.For(t)
	if err != nil {
		return 0, err
	}

	s := ScaleFor(len(r.instances) + 1)
	shape := nominal.Scaled(s)
	body := r.world.Spawn(shape, MassFor(s))
	body.SetPosition(ParkedPosition)
	body.Sleep()

	inst := &Instance{
		ID:    r.nextID,
		Type:  t,
		Model: m,
		Body:  body,
		Shape: shape,
		Scale: s,
		State: Idle,
		Color: r.Color(t),
	}
	r.nextID++
	r.instances = append(r.instances, inst)
	r.rescale()

	r.log.Debug("die created", zap.Int("id", int(inst.ID)), zap.Stringer("type", t),
		zap.Int("population", len(r.instances)))
	return inst.ID, nil
}

// Remove takes a die off the tray. It reports whether id was present.
func (r *Registry) Remove(id ID) bool {
	for i, inst := range r.instances {
		if inst.ID != id {
			continue
		}
		r.world.Despawn(inst.Body)
		r.instances = append(r.instances[:i], r.instances[i+1:]...)
		for _, s := range r.pending {
			s.drop(id)
		}
		r.rescale()
		r.log.Debug("die removed", zap.Int("id", int(id)), zap.Int("population", len(r.instances)))
		return true
	}
	return false
}

// Clear removes every die and abandons pending sessions.
func (r *Registry) Clear() {
	for _, inst := range r.instances {
		r.world.Despawn(inst.Body)
	}
	r.instances = nil
	r.pending = nil
	r.scale = ScaleFor(0)
}

// Instances returns the dice in creation order.
func (r *Registry) Instances() []*Instance {
	return append([]*Instance(nil), r.instances...)
}

// Instance returns the die with the given ID, or nil.
func (r *Registry) Instance(id ID) *Instance {
	for _, inst := range r.instances {
		if inst.ID == id {
			return inst
		}
	}
	return nil
}

// Results returns the value of every die that has one, in creation order.
func (r *Registry) Results() []Result {
	var out []Result
	for _, inst := range r.instances {
		if inst.Value != nil {
			out = append(out, Result{InstanceID: inst.ID, Type: inst.Type, Value: *inst.Value})
		}
	}
	return out
}

// Pending reports whether any throw is still rolling.
func (r *Registry) Pending() bool { return len(r.pending) > 0 }

// rescale applies the population scale to every instance.
func (r *Registry) rescale() {
	s := ScaleFor(len(r.instances))
	r.scale = s
	for _, inst := range r.instances {
		nominal, err := collision.For(inst.Type)
		if err != nil {
			continue // instance types were validated on Create
		}
		inst.Scale = s
		inst.Shape = nominal.Scaled(s)
		inst.Body.SetShape(inst.Shape)
		inst.Body.SetMass(MassFor(s))
		inst.Body.UpdateMassProperties()
	}
}

// Throw launches the given dice, or every die when ids is empty.
// Dice thrown again before an earlier session settles leave that session.
func (r *Registry) Throw(ids ...ID) (*Session, error) {
	var toThrow []*Instance
	if len(ids) == 0 {
		toThrow = append(toThrow, r.instances...)
	} else {
		seen := make(map[ID]bool, len(ids))
		for _, id := range ids {
			inst := r.Instance(id)
			if inst == nil {
				return nil, fmt.Errorf("%w: %d", ErrUnknownInstance, id)
			}
			if !seen[id] {
				seen[id] = true
				toThrow = append(toThrow, inst)
			}
		}
	}
	if len(toThrow) == 0 {
		return nil, ErrNothingToThrow
	}

	sess := &Session{ID: uuid.New(), LaunchedAt: r.clock()}
	for _, inst := range toThrow {
		for _, old := range r.pending {
			old.drop(inst.ID)
		}
		sess.members = append(sess.members, inst.ID)
	}

	s := r.scale
	n := float64(len(toThrow))
	for i, inst := range toThrow {
		inst.Value = nil
		inst.State = Launched

		fi := float64(i)
		b := inst.Body
		b.WakeUp()
		b.SetPosition(mgl64.Vec3{
			(fi-(n-1)/2)*launchSpacing*s + r.uniform(launchJitter),
			launchHeight + fi*launchStagger + r.rng.Float64()*launchStagger,
			r.uniform(launchDepth),
		})
		b.SetVelocity(mgl64.Vec3{r.uniform(launchDrift), launchDrop, r.uniform(launchDrift)})
		b.SetAngularVelocity(mgl64.Vec3{r.uniform(launchSpin), r.uniform(launchSpin), r.uniform(launchSpin)})
		b.SetOrientation(dmath.RandomOrientation(r.rng))

		inst.State = Settling
	}
	r.pending = append(r.pending, sess)

	r.log.Info("dice thrown", zap.Stringer("session", sess.ID), zap.Int("dice", len(toThrow)),
		zap.Float64("scale", s))
	return sess, nil
}

// uniform returns a value in [-half, half).
func (r *Registry) uniform(half float64) float64 {
	return (r.rng.Float64()*2 - 1) * half
}

// Tick polls pending sessions. Call it once per frame after stepping the
// world. A session settles when every remaining die sleeps, no sooner than
// the settle delay after launch.
func (r *Registry) Tick(now time.Time) {
	if len(r.pending) == 0 {
		return
	}
	kept := r.pending[:0]
	var settled []*Session
	for _, s := range r.pending {
		switch {
		case len(s.members) == 0:
			r.log.Debug("session abandoned", zap.Stringer("session", s.ID))
		case now.Sub(s.LaunchedAt) < r.settleDelay || !r.allSleeping(s):
			kept = append(kept, s)
		default:
			settled = append(settled, s)
		}
	}
	for i := len(kept); i < len(r.pending); i++ {
		r.pending[i] = nil
	}
	r.pending = kept

	for _, s := range settled {
		r.resolve(s, now)
	}
}

func (r *Registry) allSleeping(s *Session) bool {
	for _, id := range s.members {
		if inst := r.Instance(id); inst != nil && !inst.Body.Sleeping() {
			return false
		}
	}
	return true
}

func (r *Registry) resolve(s *Session, now time.Time) {
	for _, id := range s.members {
		inst := r.Instance(id)
		if inst == nil {
			continue
		}
		v := outcome.ReadModel(inst.Model, inst.Body.Orientation())
		inst.Value = &v
		inst.State = Settled
		s.results = append(s.results, Result{InstanceID: id, Type: inst.Type, Value: v})
	}
	s.resolved = true

	r.log.Info("dice settled",
		zap.Stringer("session", s.ID),
		zap.Int("dice", len(s.results)),
		zap.Int("total", Total(s.results)),
		zap.Duration("elapsed", now.Sub(s.LaunchedAt)),
	)
	for _, fn := range r.listeners {
		fn(s.Results())
	}
}
