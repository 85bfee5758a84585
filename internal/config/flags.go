package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/Faultbox/dicetray/internal/dice"
)

// Flags are the command-line overrides for one run.
type Flags struct {
	Config     string
	Debug      bool
	Windowed   bool
	Fullscreen bool
	Width      int
	Height     int
	Dice       string
	Preset     string
	Colors     ColorFlags
}

// ColorFlags collects repeated -color type=color pairs.
type ColorFlags map[string]string

func (c ColorFlags) String() string {
	parts := make([]string, 0, len(c))
	for k, v := range c {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (c ColorFlags) Set(s string) error {
	token, value, ok := strings.Cut(s, "=")
	if !ok || token == "" || value == "" {
		return fmt.Errorf("want type=color, got %q", s)
	}
	c[strings.ToLower(token)] = value
	return nil
}

// RegisterFlags defines the viewer flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{Colors: ColorFlags{}}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&f.Windowed, "windowed", false, "Run in windowed mode")
	fs.BoolVar(&f.Fullscreen, "fullscreen", false, "Run in fullscreen mode")
	fs.IntVar(&f.Width, "width", 0, "Window width")
	fs.IntVar(&f.Height, "height", 0, "Window height")
	fs.StringVar(&f.Dice, "dice", "", "Dice to place on the tray, e.g. 2d6+d20")
	fs.StringVar(&f.Preset, "preset", "", "Start with the dice of a named preset")
	fs.Var(f.Colors, "color", "Override a die color, e.g. d6=red (repeatable)")
	return f
}

// apply overlays the flags on cfg. Presets resolve against cfg, so call it
// after the file has been merged.
func (f *Flags) apply(cfg *Config) error {
	if f.Debug {
		cfg.Logging.Level = "debug"
		cfg.Window.ShowFPS = true
	}
	if f.Windowed {
		cfg.Window.Fullscreen = false
	}
	if f.Fullscreen {
		cfg.Window.Fullscreen = true
	}
	if f.Width > 0 {
		cfg.Window.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Window.Height = f.Height
	}
	if len(f.Colors) > 0 && cfg.Dice.Colors == nil {
		cfg.Dice.Colors = make(map[string]string, len(f.Colors))
	}
	for token, v := range f.Colors {
		cfg.Dice.Colors[token] = v
	}

	switch {
	case f.Dice != "" && f.Preset != "":
		return fmt.Errorf("%w: -dice and -preset are exclusive", ErrInvalid)
	case f.Dice != "":
		cfg.Tray.Dice = f.Dice
	case f.Preset != "":
		p, ok, err := cfg.FindPreset(f.Preset)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: unknown preset %q", ErrInvalid, f.Preset)
		}
		cfg.Tray.Dice = dice.DescribePool(p.Dice)
	}
	return nil
}
