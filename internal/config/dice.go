package config

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/Faultbox/dicetray/internal/dice"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// DiceColors resolves the color overrides.
func (c *Config) DiceColors() (map[dice.Type]color.RGBA, error) {
	out := make(map[dice.Type]color.RGBA, len(c.Dice.Colors))
	for token, v := range c.Dice.Colors {
		t, err := dice.Parse(token)
		if err != nil {
			return nil, fmt.Errorf("%w: dice.colors: %w", ErrInvalid, err)
		}
		col, err := dice.LookupColor(v)
		if err != nil {
			return nil, fmt.Errorf("%w: dice.colors.%s: %w", ErrInvalid, token, err)
		}
		out[t] = col
	}
	return out, nil
}

// StartPool returns the dice to place on the tray at startup.
func (c *Config) StartPool() ([]dice.Type, error) {
	if c.Tray.Dice == "" {
		return nil, nil
	}
	pool, err := dice.ParsePool(c.Tray.Dice)
	if err != nil {
		return nil, fmt.Errorf("%w: tray.dice: %w", ErrInvalid, err)
	}
	return pool, nil
}

// AllPresets returns the built-in presets followed by the user presets. A
// user preset with a built-in name replaces it in place.
func (c *Config) AllPresets() ([]dice.Preset, error) {
	out := dice.BuiltinPresets()
	for _, p := range c.Presets {
		pool, err := dice.ParsePool(p.Dice)
		if err != nil {
			return nil, fmt.Errorf("%w: preset %q: %w", ErrInvalid, p.Name, err)
		}
		preset := dice.Preset{Name: p.Name, Dice: pool}
		replaced := false
		for i := range out {
			if out[i].Name == p.Name {
				out[i] = preset
				replaced = true
			}
		}
		if !replaced {
			out = append(out, preset)
		}
	}
	return out, nil
}

// FindPreset looks up a preset by name.
func (c *Config) FindPreset(name string) (dice.Preset, bool, error) {
	all, err := c.AllPresets()
	if err != nil {
		return dice.Preset{}, false, err
	}
	for _, p := range all {
		if p.Name == name {
			return p, true, nil
		}
	}
	return dice.Preset{}, false, nil
}

// SavePreset stores pool under name, replacing a user preset of that name.
func (c *Config) SavePreset(name string, pool []dice.Type) {
	c.DeletePreset(name)
	c.Presets = append(c.Presets, PresetConfig{Name: name, Dice: dice.DescribePool(pool)})
}

// DeletePreset removes the user preset called name. It reports whether one
// was removed.
func (c *Config) DeletePreset(name string) bool {
	kept := c.Presets[:0]
	removed := false
	for _, p := range c.Presets {
		if p.Name == name {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	c.Presets = kept
	return removed
}

// Validate checks the sections that can be wrong in a hand-edited file.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Physics.FixedStep <= 0 || c.Physics.MaxSubSteps <= 0 {
		return fmt.Errorf("%w: physics step %v x%d", ErrInvalid, c.Physics.FixedStep, c.Physics.MaxSubSteps)
	}
	if c.Physics.LinearDamping < 0 || c.Physics.LinearDamping >= 1 ||
		c.Physics.AngularDamping < 0 || c.Physics.AngularDamping >= 1 {
		return fmt.Errorf("%w: damping must be in [0, 1)", ErrInvalid)
	}
	if _, err := c.DiceColors(); err != nil {
		return err
	}
	if _, err := c.StartPool(); err != nil {
		return err
	}
	if _, err := c.AllPresets(); err != nil {
		return err
	}
	return nil
}
