package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// EnvConfig names a config file when --config is not given.
const EnvConfig = "MESHGRAPH_CONFIG"

const fileName = "config.yaml"

// Load builds the configuration from defaults, then the first config file
// found (--config, $MESHGRAPH_CONFIG, ./config.yaml, ConfigDir), then flags.
// Positional arguments are mesh paths.
func Load() (*Config, error) {
	cfg := Default()

	if path := resolveConfigPath(); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg, flag.Args())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveConfigPath() string {
	if p := ConfigPath(); p != "" {
		return p
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return findConfigFile()
}

// findConfigFile returns the first existing default config location.
func findConfigFile() string {
	for _, path := range []string{fileName, filepath.Join(ConfigDir(), fileName)} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user config directory for meshgraph.
func ConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "meshgraph")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "meshgraph")
}

// loadFromFile merges a YAML file into cfg. Unknown keys are errors so a
// misspelt setting does not silently fall back to its default.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate rejects settings the viewer cannot start with.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Render.FOV <= 0 || c.Render.FOV >= 180:
		return fmt.Errorf("%w: fov %v", ErrInvalid, c.Render.FOV)
	case c.Render.Near <= 0 || c.Render.Far <= c.Render.Near:
		return fmt.Errorf("%w: clip planes %v..%v", ErrInvalid, c.Render.Near, c.Render.Far)
	case c.Camera.MoveSpeed < 0 || c.Camera.TurnSpeed < 0 || c.Camera.MouseSensitivity < 0:
		return fmt.Errorf("%w: negative camera speed", ErrInvalid)
	case c.Meshes.Debounce < 0:
		return fmt.Errorf("%w: debounce %v", ErrInvalid, c.Meshes.Debounce)
	}
	return nil
}
