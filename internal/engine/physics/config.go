// Package physics runs the dice tray on feather rigid bodies: a fixed-step
// world with a ground plane, four walls, a ceiling and sleep detection tuned
// for dice. It runs on the caller's goroutine.
package physics

import "github.com/go-gl/mathgl/mgl64"

// Material is the contact response between two kinds of surface.
type Material struct {
	Friction    float64 `yaml:"friction"`
	Restitution float64 `yaml:"restitution"`
}

// Config holds the world constants.
type Config struct {
	Gravity     mgl64.Vec3 `yaml:"-"`
	FixedStep   float64    `yaml:"fixed_step"`
	MaxSubSteps int        `yaml:"max_sub_steps"`
	// Substeps is the number of solver substeps per fixed step.
	Substeps int `yaml:"substeps"`

	// DiceGround applies to dice against the ground, walls and ceiling.
	DiceGround Material `yaml:"dice_ground"`
	DiceDice   Material `yaml:"dice_dice"`

	// Damping is the fraction of speed lost per second, in [0, 1).
	LinearDamping  float64 `yaml:"linear_damping"`
	AngularDamping float64 `yaml:"angular_damping"`

	// A body whose linear and angular speed stay below SleepSpeed for
	// SleepTime seconds falls asleep.
	SleepSpeed float64 `yaml:"sleep_speed"`
	SleepTime  float64 `yaml:"sleep_time"`

	Ceiling float64 `yaml:"ceiling"`
	HalfX   float64 `yaml:"half_x"`
	HalfZ   float64 `yaml:"half_z"`
}

// DefaultConfig returns the tuned tray constants.
func DefaultConfig() Config {
	return Config{
		Gravity:        mgl64.Vec3{0, -40, 0},
		FixedStep:      1.0 / 60,
		MaxSubSteps:    3,
		Substeps:       10,
		DiceGround:     Material{Friction: 0.5, Restitution: 0.2},
		DiceDice:       Material{Friction: 0.4, Restitution: 0.3},
		LinearDamping:  0.6,
		AngularDamping: 0.6,
		SleepSpeed:     0.2,
		SleepTime:      0.1,
		Ceiling:        10,
		HalfX:          6,
		HalfZ:          4,
	}
}

// MinHalfExtent is the smallest accepted play-area half size.
const MinHalfExtent = 2.0
