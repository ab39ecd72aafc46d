package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultMatchesHardware(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	g := cfg.Geometry
	if g.Center != (Coordinate{X: 150, Y: 150, Z: 10}) {
		t.Errorf("center = %+v", g.Center)
	}
	if g.OrbitalRadius != 5.0 {
		t.Errorf("orbital radius = %v, want 5.0", g.OrbitalRadius)
	}
	if g.LinearAmplitude != 25.0 {
		t.Errorf("linear amplitude = %v, want 25.0", g.LinearAmplitude)
	}
	if g.HelicalRadius != 10.0 {
		t.Errorf("helical radius = %v, want 10.0", g.HelicalRadius)
	}
	if g.HelicalZAmplitude != 5.0 {
		t.Errorf("helical z amplitude = %v, want 5.0", g.HelicalZAmplitude)
	}

	if cfg.Feedrates.Minimum != 2000 {
		t.Errorf("minimum feedrate = %v, want 2000", cfg.Feedrates.Minimum)
	}
	if cfg.Feedrates.MaxZ != 900 {
		t.Errorf("max z feedrate = %v, want 900", cfg.Feedrates.MaxZ)
	}

	a, ok := g.Target("target_A")
	if !ok || a != (Coordinate{X: 100, Y: 150, Z: 0}) {
		t.Errorf("target_A = %+v ok=%v", a, ok)
	}
	b, ok := g.Target("target_B")
	if !ok || b != (Coordinate{X: 150, Y: 100, Z: 0}) {
		t.Errorf("target_B = %+v ok=%v", b, ok)
	}
	if _, ok := g.Target("target_C"); ok {
		t.Error("target_C should not exist")
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shaker.yaml")
	content := []byte(`
listen_addr: ":9000"
controller:
  base_url: "http://10.0.0.5:7125"
  websocket_url: "ws://10.0.0.5:7125/websocket"
geometry:
  orbital_radius: 7.5
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ListenAddr != ":9000" {
		t.Errorf("listen_addr = %q", cfg.ListenAddr)
	}
	if cfg.Controller.BaseURL != "http://10.0.0.5:7125" {
		t.Errorf("base_url = %q", cfg.Controller.BaseURL)
	}
	if cfg.Geometry.OrbitalRadius != 7.5 {
		t.Errorf("orbital_radius = %v, want overlay 7.5", cfg.Geometry.OrbitalRadius)
	}
	// Untouched values keep their defaults
	if cfg.Geometry.LinearAmplitude != 25.0 {
		t.Errorf("linear_amplitude = %v, want default 25.0", cfg.Geometry.LinearAmplitude)
	}
	if cfg.Controller.TimeoutSec != 30 {
		t.Errorf("timeout_sec = %v, want default 30", cfg.Controller.TimeoutSec)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("feedrates:\n  minimum: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for negative minimum feedrate")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/shaker.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
