package tray

import (
	"errors"
	"image/color"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/dicetray/internal/dice"
	"github.com/Faultbox/dicetray/internal/engine/collision"
	"github.com/Faultbox/dicetray/internal/engine/physics"
	dmath "github.com/Faultbox/dicetray/pkg/math"
)

type fakeBody struct {
	pos      mgl64.Vec3
	rot      mgl64.Quat
	vel, ang mgl64.Vec3
	sleeping bool
	mass     float64
	shape    *collision.Shape
	updates  int
}

func (b *fakeBody) Position() mgl64.Vec3 { return b.pos }
func (b *fakeBody) SetPosition(p mgl64.Vec3) { b.pos = p }
func (b *fakeBody) Orientation() mgl64.Quat { return b.rot }
func (b *fakeBody) SetOrientation(q mgl64.Quat) { b.rot = q }
func (b *fakeBody) SetVelocity(v mgl64.Vec3) { b.vel = v }
func (b *fakeBody) SetAngularVelocity(w mgl64.Vec3) { b.ang = w }
func (b *fakeBody) Sleeping() bool { return b.sleeping }
func (b *fakeBody) Sleep() { b.sleeping = true }
func (b *fakeBody) WakeUp() { b.sleeping = false }
func (b *fakeBody) SetMass(m float64) { b.mass = m }
func (b *fakeBody) SetShape(s *collision.Shape) { b.shape = s }
func (b *fakeBody) UpdateMassProperties() { b.updates++ }

type fakeWorld struct {
	bodies map[*fakeBody]bool
}

func newFakeWorld() *fakeWorld { return &fakeWorld{bodies: map[*fakeBody]bool{}} }

func (w *fakeWorld) Spawn(shape *collision.Shape, mass float64) Body {
	b := &fakeBody{rot: mgl64.QuatIdent(), shape: shape, mass: mass}
	w.bodies[b] = true
	return b
}

func (w *fakeWorld) Despawn(b Body) { delete(w.bodies, b.(*fakeBody)) }

// settleAll puts every body to sleep at rest.
func (w *fakeWorld) settleAll() {
	for b := range w.bodies {
		b.sleeping = true
	}
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestRegistry() (*Registry, *fakeWorld, *clock) {
	w := newFakeWorld()
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	r := NewRegistry(w, Options{Rand: rand.New(rand.NewSource(42)), Clock: c.now})
	return r, w, c
}

func mustCreate(t *testing.T, r *Registry, ty dice.Type) ID {
	t.Helper()
	id, err := r.Create(ty)
	if err != nil {
		t.Fatalf("Create(%v): %v", ty, err)
	}
	return id
}

func TestScaleFor(t *testing.T) {
	tests := []struct {
		n    int
		want float64
	}{
		{0, 2}, {1, 2}, {2, 1.5}, {3, 1.4}, {4, 1.4}, {6, 1.4},
		{7, 1}, {10, 1}, {11, 0.65}, {40, 0.65},
	}
	for _, tt := range tests {
		if got := ScaleFor(tt.n); got != tt.want {
			t.Errorf("ScaleFor(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestScaleThresholds(t *testing.T) {
	r, _, _ := newTestRegistry()
	nominal, err := collision.For(dice.D20)
	if err != nil {
		t.Fatalf("collision.For: %v", err)
	}

	check := func(n int, want float64) {
		t.Helper()
		if got := len(r.Instances()); got != n {
			t.Fatalf("population %d, want %d", got, n)
		}
		for _, inst := range r.Instances() {
			if inst.Scale != want {
				t.Errorf("n=%d id=%d: scale %v, want %v", n, inst.ID, inst.Scale, want)
			}
			b := inst.Body.(*fakeBody)
			if math.Abs(b.mass-want*want*want) > 1e-12 {
				t.Errorf("n=%d id=%d: mass %v, want %v", n, inst.ID, b.mass, want*want*want)
			}
			if b.shape != inst.Shape {
				t.Errorf("n=%d id=%d: body shape is stale", n, inst.ID)
			}
			if rad := inst.Shape.BoundingRadius(); math.Abs(rad-want*nominal.BoundingRadius()) > 1e-9 {
				t.Errorf("n=%d id=%d: shape radius %v, want %v", n, inst.ID, rad, want*nominal.BoundingRadius())
			}
		}
	}

	mustCreate(t, r, dice.D20)
	check(1, 2)
	mustCreate(t, r, dice.D20)
	check(2, 1.5)
	for i := 0; i < 3; i++ {
		mustCreate(t, r, dice.D20)
	}
	check(5, 1.4)
	for i := 0; i < 6; i++ {
		mustCreate(t, r, dice.D20)
	}
	check(11, 0.65)

	// Scaling back down follows removals.
	for _, inst := range r.Instances()[:9] {
		r.Remove(inst.ID)
	}
	check(2, 1.5)
}

func TestIDsAreNeverReused(t *testing.T) {
	r, _, _ := newTestRegistry()
	a := mustCreate(t, r, dice.D6)
	b := mustCreate(t, r, dice.D6)
	if !r.Remove(a) {
		t.Fatal("Remove(a) = false")
	}
	c := mustCreate(t, r, dice.D6)
	if c == a || c == b || c < b {
		t.Errorf("ids %d, %d then %d", a, b, c)
	}
	if r.Instance(a) != nil {
		t.Error("removed instance still reachable")
	}
	if r.Remove(a) {
		t.Error("second Remove should report false")
	}
}

func TestCreateUnknownType(t *testing.T) {
	r, w, _ := newTestRegistry()
	if _, err := r.Create(dice.Type(3)); !errors.Is(err, dice.ErrUnknownDieType) {
		t.Errorf("error = %v, want ErrUnknownDieType", err)
	}
	if len(w.bodies) != 0 || len(r.Instances()) != 0 {
		t.Error("failed create left state behind")
	}
}

func TestCreatedDiceAreParked(t *testing.T) {
	r, _, _ := newTestRegistry()
	id := mustCreate(t, r, dice.D8)
	inst := r.Instance(id)
	if inst.State != Idle || inst.Value != nil {
		t.Errorf("new instance state %v value %v", inst.State, inst.Value)
	}
	if !inst.Body.Sleeping() || inst.Body.Position() != ParkedPosition {
		t.Error("new instance should sleep at the parked position")
	}
	if inst.Model.Type != dice.D8 {
		t.Errorf("model type %v", inst.Model.Type)
	}
}

func TestThrowFiveD6(t *testing.T) {
	r, w, c := newTestRegistry()
	for i := 0; i < 5; i++ {
		mustCreate(t, r, dice.D6)
	}

	var calls [][]Result
	r.OnSettled(func(rs []Result) { calls = append(calls, rs) })

	sess, err := r.Throw()
	if err != nil {
		t.Fatalf("Throw: %v", err)
	}
	if len(sess.Members()) != 5 {
		t.Fatalf("session has %d members", len(sess.Members()))
	}
	for _, inst := range r.Instances() {
		if inst.State != Settling || inst.Value != nil || inst.Body.Sleeping() {
			t.Errorf("id %d: state %v after throw", inst.ID, inst.State)
		}
	}

	// Settled bodies inside the delay are not read yet.
	w.settleAll()
	c.t = c.t.Add(100 * time.Millisecond)
	r.Tick(c.t)
	if len(calls) != 0 || sess.Resolved() {
		t.Fatal("session resolved before the settle delay")
	}

	c.t = c.t.Add(100 * time.Millisecond)
	r.Tick(c.t)
	r.Tick(c.t.Add(time.Second))
	if len(calls) != 1 {
		t.Fatalf("OnSettled fired %d times, want 1", len(calls))
	}
	if len(calls[0]) != 5 {
		t.Fatalf("%d results, want 5", len(calls[0]))
	}
	for _, res := range calls[0] {
		if res.Type != dice.D6 || res.Value < 1 || res.Value > 6 {
			t.Errorf("result %+v", res)
		}
	}
	if !sess.Resolved() || len(sess.Results()) != 5 {
		t.Error("session not marked resolved")
	}
	if r.Pending() {
		t.Error("registry still pending")
	}
	for _, inst := range r.Instances() {
		if inst.State != Settled || inst.Value == nil {
			t.Errorf("id %d: state %v value %v", inst.ID, inst.State, inst.Value)
		}
	}
	if len(r.Results()) != 5 || Total(r.Results()) != Total(calls[0]) {
		t.Error("registry results disagree with the callback")
	}
}

func TestSettleReadsOrientation(t *testing.T) {
	r, w, c := newTestRegistry()
	id := mustCreate(t, r, dice.D6)
	if _, err := r.Throw(id); err != nil {
		t.Fatalf("Throw: %v", err)
	}
	// Rest the die with its -X face (value 6) up.
	inst := r.Instance(id)
	inst.Body.SetOrientation(dmath.RotationTo(mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{0, 1, 0}))
	w.settleAll()
	r.Tick(c.t.Add(time.Second))

	if inst.Value == nil || *inst.Value != 6 {
		t.Errorf("value = %v, want 6", inst.Value)
	}
}

func TestWaitsForEveryBody(t *testing.T) {
	r, _, c := newTestRegistry()
	a := mustCreate(t, r, dice.D6)
	b := mustCreate(t, r, dice.D12)
	fired := 0
	r.OnSettled(func([]Result) { fired++ })
	if _, err := r.Throw(); err != nil {
		t.Fatalf("Throw: %v", err)
	}

	r.Instance(a).Body.Sleep()
	r.Tick(c.t.Add(time.Second))
	if fired != 0 {
		t.Fatal("settled while a die was still rolling")
	}
	r.Instance(b).Body.Sleep()
	r.Tick(c.t.Add(2 * time.Second))
	if fired != 1 {
		t.Errorf("fired %d times, want 1", fired)
	}
}

func TestRemoveDuringThrow(t *testing.T) {
	r, w, c := newTestRegistry()
	a := mustCreate(t, r, dice.D6)
	b := mustCreate(t, r, dice.D20)

	var got []Result
	r.OnSettled(func(rs []Result) { got = rs })
	sess, err := r.Throw()
	if err != nil {
		t.Fatalf("Throw: %v", err)
	}

	// b never settles, but it is removed.
	r.Instance(a).Body.Sleep()
	r.Remove(b)
	if len(sess.Members()) != 1 || sess.Members()[0] != a {
		t.Errorf("members after removal = %v", sess.Members())
	}
	if len(w.bodies) != 1 {
		t.Errorf("%d bodies in the world, want 1", len(w.bodies))
	}
	r.Tick(c.t.Add(time.Second))

	if len(got) != 1 || got[0].InstanceID != a {
		t.Errorf("results = %+v, want only instance %d", got, a)
	}
}

func TestSessionOfRemovedDiceIsDropped(t *testing.T) {
	r, _, c := newTestRegistry()
	a := mustCreate(t, r, dice.D4)
	fired := 0
	r.OnSettled(func([]Result) { fired++ })
	if _, err := r.Throw(a); err != nil {
		t.Fatalf("Throw: %v", err)
	}
	r.Remove(a)
	r.Tick(c.t.Add(time.Second))
	if fired != 0 {
		t.Error("callback fired for a session with no dice")
	}
	if r.Pending() {
		t.Error("empty session still pending")
	}
}

func TestRethrowSupersedes(t *testing.T) {
	r, w, c := newTestRegistry()
	a := mustCreate(t, r, dice.D6)
	b := mustCreate(t, r, dice.D6)

	var calls [][]Result
	r.OnSettled(func(rs []Result) { calls = append(calls, rs) })

	first, _ := r.Throw()
	c.t = c.t.Add(50 * time.Millisecond)
	second, err := r.Throw(b)
	if err != nil {
		t.Fatalf("Throw: %v", err)
	}
	if m := first.Members(); len(m) != 1 || m[0] != a {
		t.Errorf("first session members = %v, want [%d]", m, a)
	}

	w.settleAll()
	r.Tick(c.t.Add(time.Second))
	if len(calls) != 2 {
		t.Fatalf("%d callbacks, want 2", len(calls))
	}
	if len(first.Results()) != 1 || len(second.Results()) != 1 ||
		first.Results()[0].InstanceID != a || second.Results()[0].InstanceID != b {
		t.Errorf("first %+v second %+v", first.Results(), second.Results())
	}
}

func TestThrowErrors(t *testing.T) {
	r, _, _ := newTestRegistry()
	if _, err := r.Throw(); !errors.Is(err, ErrNothingToThrow) {
		t.Errorf("empty tray: error = %v", err)
	}
	mustCreate(t, r, dice.D6)
	if _, err := r.Throw(99); !errors.Is(err, ErrUnknownInstance) {
		t.Errorf("unknown id: error = %v", err)
	}
}

func TestThrowLaunchParameters(t *testing.T) {
	r, _, _ := newTestRegistry()
	for i := 0; i < 4; i++ {
		mustCreate(t, r, dice.D8)
	}
	if _, err := r.Throw(); err != nil {
		t.Fatalf("Throw: %v", err)
	}
	s := r.Scale()
	for i, inst := range r.Instances() {
		b := inst.Body.(*fakeBody)
		wantX := (float64(i) - 1.5) * 1.8 * s
		if math.Abs(b.pos[0]-wantX) > 0.15 {
			t.Errorf("die %d: x = %v, want %v ± 0.15", i, b.pos[0], wantX)
		}
		minY := 2.5 + 0.3*float64(i)
		if b.pos[1] < minY || b.pos[1] > minY+0.3 {
			t.Errorf("die %d: y = %v, want [%v, %v]", i, b.pos[1], minY, minY+0.3)
		}
		if math.Abs(b.pos[2]) > 1 {
			t.Errorf("die %d: z = %v", i, b.pos[2])
		}
		if b.vel[1] != -5 || math.Abs(b.vel[0]) > 0.25 || math.Abs(b.vel[2]) > 0.25 {
			t.Errorf("die %d: velocity %v", i, b.vel)
		}
		for k := 0; k < 3; k++ {
			if math.Abs(b.ang[k]) > 4 {
				t.Errorf("die %d: spin %v", i, b.ang)
			}
		}
		if math.Abs(b.rot.Len()-1) > 1e-9 {
			t.Errorf("die %d: orientation not unit", i)
		}
	}
}

func TestClear(t *testing.T) {
	r, w, _ := newTestRegistry()
	mustCreate(t, r, dice.D6)
	mustCreate(t, r, dice.D10)
	if _, err := r.Throw(); err != nil {
		t.Fatalf("Throw: %v", err)
	}
	r.Clear()
	if len(r.Instances()) != 0 || len(w.bodies) != 0 || r.Pending() {
		t.Error("Clear left dice or sessions behind")
	}
	id := mustCreate(t, r, dice.D6)
	if id < 2 {
		t.Errorf("id %d reused after Clear", id)
	}
}

func TestColors(t *testing.T) {
	red := dice.MustLookup(dice.D4).Color
	w := newFakeWorld()
	gold, _ := dice.ParseHexColor("#c49b1a")
	r := NewRegistry(w, Options{Colors: map[dice.Type]color.RGBA{dice.D6: gold}})

	if r.Color(dice.D4) != red {
		t.Errorf("d4 color = %v", r.Color(dice.D4))
	}
	if r.Color(dice.D6) != gold {
		t.Errorf("d6 override = %v", r.Color(dice.D6))
	}
	id, _ := r.Create(dice.D6)
	if r.Instance(id).Color != gold {
		t.Error("instance did not take the override color")
	}
	teal, _ := dice.ParseHexColor("#00b894")
	if err := r.SetColor(id, teal); err != nil || r.Instance(id).Color != teal {
		t.Errorf("SetColor: %v", err)
	}
	if err := r.SetColor(999, teal); !errors.Is(err, ErrUnknownInstance) {
		t.Errorf("SetColor(999) = %v", err)
	}
}

func TestTransformIncludesScale(t *testing.T) {
	r, _, _ := newTestRegistry()
	id := mustCreate(t, r, dice.D20)
	inst := r.Instance(id)
	inst.Body.SetPosition(mgl64.Vec3{1, 2, 3})
	p := inst.Transform().Mul4x1(mgl64.Vec4{1, 0, 0, 1})
	if p.Vec3().Sub(mgl64.Vec3{3, 2, 3}).Len() > 1e-12 {
		t.Errorf("transformed point %v, want {3 2 3}", p)
	}
}

func TestTotal(t *testing.T) {
	if got := Total([]Result{{Value: 3}, {Value: 6}, {Value: 0}}); got != 9 {
		t.Errorf("Total = %d, want 9", got)
	}
	if Total(nil) != 0 {
		t.Error("Total(nil) != 0")
	}
}

func TestThrowSettlesInPhysicsWorld(t *testing.T) {
	world := physics.NewWorld(physics.DefaultConfig())
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	r := NewRegistry(PhysicsWorld(world), Options{Rand: rand.New(rand.NewSource(3)), Clock: c.now})
	for i := 0; i < 5; i++ {
		mustCreate(t, r, dice.D6)
	}

	var calls [][]Result
	r.OnSettled(func(rs []Result) { calls = append(calls, rs) })
	if _, err := r.Throw(); err != nil {
		t.Fatalf("Throw: %v", err)
	}

	step := time.Second / 60
	for i := 0; i < 60*30 && len(calls) == 0; i++ {
		world.Step(step.Seconds())
		c.t = c.t.Add(step)
		r.Tick(c.t)
	}
	if len(calls) != 1 {
		t.Fatalf("OnSettled fired %d times in 30 simulated seconds", len(calls))
	}
	if len(calls[0]) != 5 {
		t.Fatalf("%d results, want 5", len(calls[0]))
	}
	for _, res := range calls[0] {
		if res.Value < 1 || res.Value > 6 {
			t.Errorf("result %+v out of range", res)
		}
	}
	if len(world.Bodies()) != 5 {
		t.Errorf("%d bodies in the world", len(world.Bodies()))
	}
}
