// Package config handles dicetray configuration loading and management.
package config

import (
	"time"

	"github.com/Faultbox/dicetray/internal/engine/physics"
	"github.com/Faultbox/dicetray/internal/engine/texture"
	"github.com/Faultbox/dicetray/internal/tray"
)

// Config holds all settings.
type Config struct {
	Window  WindowConfig   `yaml:"window"`
	Physics PhysicsConfig  `yaml:"physics"`
	Tray    TrayConfig     `yaml:"tray"`
	Dice    DiceConfig     `yaml:"dice"`
	Presets []PresetConfig `yaml:"presets"`
	Logging LoggingConfig  `yaml:"logging"`

	source string
}

// WindowConfig holds viewer display settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
	ShowFPS    bool `yaml:"show_fps"`
}

// PhysicsConfig holds the world constants. Gravity is the downward
// acceleration along Y.
type PhysicsConfig struct {
	Gravity        float64          `yaml:"gravity"`
	FixedStep      float64          `yaml:"fixed_step"`
	MaxSubSteps    int              `yaml:"max_sub_steps"`
	Substeps       int              `yaml:"substeps"`
	DiceGround     physics.Material `yaml:"dice_ground"`
	DiceDice       physics.Material `yaml:"dice_dice"`
	LinearDamping  float64          `yaml:"linear_damping"`
	AngularDamping float64          `yaml:"angular_damping"`
	SleepSpeed     float64          `yaml:"sleep_speed"`
	SleepTime      float64          `yaml:"sleep_time"`
	Ceiling        float64          `yaml:"ceiling"`

	// HalfX and HalfZ bound the play area. When FitBounds is set the viewer
	// derives them from the camera instead.
	HalfX     float64 `yaml:"half_x"`
	HalfZ     float64 `yaml:"half_z"`
	FitBounds bool    `yaml:"fit_bounds"`
}

// TrayConfig holds throw settings.
type TrayConfig struct {
	SettleDelay time.Duration `yaml:"settle_delay"`
	// Dice is the pool placed on the tray at startup, e.g. "2d6+d20".
	Dice string `yaml:"dice"`
}

// DiceConfig holds die appearance settings.
type DiceConfig struct {
	// Colors maps a type token ("d6") to a palette name or hex color.
	Colors      map[string]string `yaml:"colors"`
	TextureSize int               `yaml:"texture_size"`
}

// PresetConfig is a user preset.
type PresetConfig struct {
	Name string `yaml:"name"`
	Dice string `yaml:"dice"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the tuned defaults.
func Default() *Config {
	pc := physics.DefaultConfig()
	return &Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Physics: PhysicsConfig{
			Gravity:        -pc.Gravity[1],
			FixedStep:      pc.FixedStep,
			MaxSubSteps:    pc.MaxSubSteps,
			Substeps:       pc.Substeps,
			DiceGround:     pc.DiceGround,
			DiceDice:       pc.DiceDice,
			LinearDamping:  pc.LinearDamping,
			AngularDamping: pc.AngularDamping,
			SleepSpeed:     pc.SleepSpeed,
			SleepTime:      pc.SleepTime,
			Ceiling:        pc.Ceiling,
			HalfX:          pc.HalfX,
			HalfZ:          pc.HalfZ,
			FitBounds:      true,
		},
		Tray: TrayConfig{
			SettleDelay: tray.DefaultSettleDelay,
			Dice:        "2d6",
		},
		Dice: DiceConfig{
			Colors:      map[string]string{},
			TextureSize: texture.DefaultSize,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// World converts the physics section to world constants.
func (p PhysicsConfig) World() physics.Config {
	cfg := physics.DefaultConfig()
	cfg.Gravity[1] = -p.Gravity
	cfg.FixedStep = p.FixedStep
	cfg.MaxSubSteps = p.MaxSubSteps
	cfg.Substeps = p.Substeps
	cfg.DiceGround = p.DiceGround
	cfg.DiceDice = p.DiceDice
	cfg.LinearDamping = p.LinearDamping
	cfg.AngularDamping = p.AngularDamping
	cfg.SleepSpeed = p.SleepSpeed
	cfg.SleepTime = p.SleepTime
	cfg.Ceiling = p.Ceiling
	cfg.HalfX = p.HalfX
	cfg.HalfZ = p.HalfZ
	return cfg
}
