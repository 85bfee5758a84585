package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Source returns the file the config was loaded from, or "".
func (c *Config) Source() string { return c.source }

// Save writes the config back to the file it was loaded from, or to
// FileName in ConfigDir when it came from defaults alone. User presets
// saved from the viewer persist this way.
func (c *Config) Save() error {
	path := c.source
	if path == "" {
		path = filepath.Join(ConfigDir(), FileName)
	}
	if err := c.SaveTo(path); err != nil {
		return err
	}
	c.source = path
	return nil
}

// SaveTo writes the config to a specific path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}
