// Package table runs a tray on the reference physics world: it owns the
// world, the registry and a simulated clock, and is shared by the viewer
// and the headless tool.
package table

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/dicetray/internal/config"
	"github.com/Faultbox/dicetray/internal/dice"
	"github.com/Faultbox/dicetray/internal/engine/physics"
	"github.com/Faultbox/dicetray/internal/logger"
	"github.com/Faultbox/dicetray/internal/tray"
)

// ErrRollTimeout is returned by Roll when the dice do not come to rest in
// the allotted simulated time.
var ErrRollTimeout = errors.New("dice did not settle")

// Options configures a Table.
type Options struct {
	// Rand seeds launches; nil selects a random seed.
	Rand *rand.Rand
	// Start is the simulated clock origin; zero selects time.Now.
	Start time.Time
}

// Table is a tray of dice on a physics world.
type Table struct {
	cfg   *config.Config
	world *physics.World
	reg   *tray.Registry
	log   *zap.Logger

	now  time.Time
	last []tray.Result
}

// New builds the world and registry from cfg and places the start pool.
func New(cfg *config.Config, opts Options) (*Table, error) {
	colors, err := cfg.DiceColors()
	if err != nil {
		return nil, err
	}
	pool, err := cfg.StartPool()
	if err != nil {
		return nil, err
	}

	t := &Table{
		cfg:   cfg,
		world: physics.NewWorld(cfg.Physics.World()),
		log:   logger.Named("table"),
		now:   opts.Start,
	}
	if t.now.IsZero() {
		t.now = time.Now()
	}
	t.reg = tray.NewRegistry(tray.PhysicsWorld(t.world), tray.Options{
		Rand:        opts.Rand,
		Clock:       func() time.Time { return t.now },
		SettleDelay: cfg.Tray.SettleDelay,
		Colors:      colors,
	})
	t.reg.OnSettled(func(results []tray.Result) {
		t.last = results
	})

	if err := t.Load(pool); err != nil {
		return nil, err
	}
	return t, nil
}

// Registry returns the dice registry.
func (t *Table) Registry() *tray.Registry { return t.reg }

// World returns the physics world.
func (t *Table) World() *physics.World { return t.world }

// Now returns the simulated clock.
func (t *Table) Now() time.Time { return t.now }

// SetBounds moves the walls.
func (t *Table) SetBounds(halfX, halfZ float64) {
	t.world.SetBounds(halfX, halfZ)
	hx, hz := t.world.Bounds()
	t.log.Debug("play bounds", zap.Float64("half_x", hx), zap.Float64("half_z", hz))
}

// Add places one more die of type d.
func (t *Table) Add(d dice.Type) (tray.ID, error) {
	return t.reg.Create(d)
}

// RemoveNewest removes the most recently added die of type d.
func (t *Table) RemoveNewest(d dice.Type) bool {
	insts := t.reg.Instances()
	for i := len(insts) - 1; i >= 0; i-- {
		if insts[i].Type == d {
			return t.reg.Remove(insts[i].ID)
		}
	}
	return false
}

// Load replaces the dice on the table with pool.
func (t *Table) Load(pool []dice.Type) error {
	t.reg.Clear()
	t.last = nil
	for _, d := range pool {
		if _, err := t.reg.Create(d); err != nil {
			return fmt.Errorf("loading pool: %w", err)
		}
	}
	return nil
}

// LoadPreset replaces the dice with the preset at index i of the built-in
// and user presets.
func (t *Table) LoadPreset(i int) (dice.Preset, error) {
	all, err := t.cfg.AllPresets()
	if err != nil {
		return dice.Preset{}, err
	}
	if i < 0 || i >= len(all) {
		return dice.Preset{}, fmt.Errorf("no preset %d (%d available)", i+1, len(all))
	}
	p := all[i]
	if err := t.Load(p.Dice); err != nil {
		return dice.Preset{}, err
	}
	t.log.Info("preset loaded", zap.String("name", p.Name), zap.String("dice", dice.DescribePool(p.Dice)))
	return p, nil
}

// Pool returns the types of the dice on the table in creation order.
func (t *Table) Pool() []dice.Type {
	insts := t.reg.Instances()
	out := make([]dice.Type, len(insts))
	for i, inst := range insts {
		out[i] = inst.Type
	}
	return out
}

// Throw launches every die.
func (t *Table) Throw() (*tray.Session, error) {
	return t.reg.Throw()
}

// Advance moves the simulation forward by dt seconds and polls settlement.
func (t *Table) Advance(dt float64) {
	t.now = t.now.Add(time.Duration(dt * float64(time.Second)))
	t.world.Step(dt)
	t.reg.Tick(t.now)
}

// Last returns the results of the most recently settled throw.
func (t *Table) Last() []tray.Result { return t.last }

// Roll throws every die and steps the world at the fixed timestep until
// the throw settles or limit of simulated time passes.
func (t *Table) Roll(limit time.Duration) ([]tray.Result, error) {
	sess, err := t.Throw()
	if err != nil {
		return nil, err
	}
	step := t.world.Config().FixedStep
	deadline := t.now.Add(limit)
	for !sess.Resolved() {
		if t.now.After(deadline) {
			return nil, fmt.Errorf("%w after %v", ErrRollTimeout, limit)
		}
		t.Advance(step)
	}
	return sess.Results(), nil
}
