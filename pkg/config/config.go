// Package config holds the shaker host configuration: controller endpoints,
// listen address and the motion geometry. Geometry values are injected into
// the profile calculator and dispatcher rather than read from globals, so
// tests can vary them freely.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Coordinate is a fixed position in the controller's working units (mm).
// A Z of 0 is a sentinel meaning "omit the Z axis in positioning commands".
type Coordinate struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Geometry holds the fixed motion constants.
type Geometry struct {
	// Center is the default shaking center.
	Center Coordinate `yaml:"center"`

	// OrbitalRadius is the orbital pattern amplitude (mm).
	OrbitalRadius float64 `yaml:"orbital_radius"`

	// LinearAmplitude is the linear pattern half-stroke (mm).
	LinearAmplitude float64 `yaml:"linear_amplitude"`

	// HelicalRadius is the helical pattern XY amplitude (mm).
	HelicalRadius float64 `yaml:"helical_radius"`

	// HelicalZAmplitude is the helical pattern peak-to-peak Z travel (mm).
	HelicalZAmplitude float64 `yaml:"helical_z_amplitude"`

	// Targets maps named positions the orbital pattern can center on.
	Targets map[string]Coordinate `yaml:"targets"`
}

// Feedrates holds the commanded-speed limits and defaults (mm/min).
type Feedrates struct {
	// Minimum floors every computed feed rate to avoid stalled motion.
	Minimum float64 `yaml:"minimum"`

	// MaxZ is the controller's rated Z-axis ceiling; helical moves are
	// clamped to it.
	MaxZ float64 `yaml:"max_z"`

	// Traverse is the rapid positioning speed for G0 moves.
	Traverse float64 `yaml:"traverse"`

	// Position is the speed for named-target G1 positioning moves.
	Position float64 `yaml:"position"`
}

// Controller holds the Moonraker endpoint configuration.
type Controller struct {
	// BaseURL of the Moonraker HTTP API, e.g. "http://192.168.0.192:7125".
	BaseURL string `yaml:"base_url"`

	// WebsocketURL of the Moonraker telemetry socket.
	WebsocketURL string `yaml:"websocket_url"`

	// TimeoutSec bounds each outbound HTTP call.
	TimeoutSec float64 `yaml:"timeout_sec"`
}

// Config aggregates all shaker host configuration.
type Config struct {
	// ListenAddr is the HTTP address the host serves on.
	ListenAddr string `yaml:"listen_addr"`

	Controller Controller `yaml:"controller"`
	Geometry   Geometry   `yaml:"geometry"`
	Feedrates  Feedrates  `yaml:"feedrates"`
}

// Default returns the built-in configuration matching the shaker hardware.
func Default() *Config {
	return &Config{
		ListenAddr: ":8000",
		Controller: Controller{
			BaseURL:      "http://192.168.0.192:7125",
			WebsocketURL: "ws://192.168.0.192:7125/websocket",
			TimeoutSec:   30,
		},
		Geometry: Geometry{
			Center:            Coordinate{X: 150, Y: 150, Z: 10},
			OrbitalRadius:     5.0,
			LinearAmplitude:   25.0,
			HelicalRadius:     10.0,
			HelicalZAmplitude: 5.0,
			Targets: map[string]Coordinate{
				"target_A": {X: 100, Y: 150, Z: 0},
				"target_B": {X: 150, Y: 100, Z: 0},
			},
		},
		Feedrates: Feedrates{
			Minimum:  2000,
			MaxZ:     900,
			Traverse: 6000,
			Position: 3000,
		},
	}
}

// Load reads a YAML file and overlays it on the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for impossible values.
func (c *Config) Validate() error {
	if c.Controller.BaseURL == "" {
		return fmt.Errorf("controller.base_url is required")
	}
	if c.Controller.WebsocketURL == "" {
		return fmt.Errorf("controller.websocket_url is required")
	}
	if c.Controller.TimeoutSec <= 0 {
		return fmt.Errorf("controller.timeout_sec must be positive, got %v", c.Controller.TimeoutSec)
	}
	if c.Geometry.OrbitalRadius <= 0 {
		return fmt.Errorf("geometry.orbital_radius must be positive, got %v", c.Geometry.OrbitalRadius)
	}
	if c.Geometry.LinearAmplitude <= 0 {
		return fmt.Errorf("geometry.linear_amplitude must be positive, got %v", c.Geometry.LinearAmplitude)
	}
	if c.Geometry.HelicalRadius <= 0 {
		return fmt.Errorf("geometry.helical_radius must be positive, got %v", c.Geometry.HelicalRadius)
	}
	if c.Geometry.HelicalZAmplitude <= 0 {
		return fmt.Errorf("geometry.helical_z_amplitude must be positive, got %v", c.Geometry.HelicalZAmplitude)
	}
	if c.Feedrates.Minimum <= 0 {
		return fmt.Errorf("feedrates.minimum must be positive, got %v", c.Feedrates.Minimum)
	}
	if c.Feedrates.MaxZ <= 0 {
		return fmt.Errorf("feedrates.max_z must be positive, got %v", c.Feedrates.MaxZ)
	}
	if c.Feedrates.Traverse <= 0 {
		return fmt.Errorf("feedrates.traverse must be positive, got %v", c.Feedrates.Traverse)
	}
	if c.Feedrates.Position <= 0 {
		return fmt.Errorf("feedrates.position must be positive, got %v", c.Feedrates.Position)
	}
	return nil
}

// Target looks up a named coordinate.
func (g *Geometry) Target(name string) (Coordinate, bool) {
	c, ok := g.Targets[name]
	return c, ok
}
