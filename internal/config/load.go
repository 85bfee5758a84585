package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory and in
// ConfigDir.
const FileName = "dicetray.yaml"

// Load builds the viewer config: defaults, then the file named by -config
// or found by Locate, then flags. The result is validated, so StartPool,
// DiceColors and AllPresets cannot fail on it.
func Load(f *Flags) (*Config, error) {
	if f == nil {
		f = &Flags{}
	}
	path := f.Config
	if path == "" {
		path = Locate()
	}
	cfg, err := build(path)
	if err != nil {
		return nil, err
	}
	if err := f.apply(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads defaults overlaid with the file at path, without flags or
// lookup. An empty path yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg, err := build(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func build(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if err := loadFromFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	cfg.source = path
	return cfg, nil
}

// Locate returns the first config file that exists: FileName in the working
// directory, then in ConfigDir. It returns "" when there is none.
func Locate() string {
	for _, path := range []string{FileName, filepath.Join(ConfigDir(), FileName)} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Dicetray")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Dicetray")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "dicetray")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "dicetray")
	}
}

// loadFromFile merges the YAML file at path into cfg. Unknown keys are
// rejected so a misspelt section does not silently fall back to defaults.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
