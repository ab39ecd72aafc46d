package gcode

import (
	"strings"
	"testing"

	"shaker-host/pkg/config"
	"shaker-host/pkg/motion"
)

func newEncoder() (*Encoder, *motion.Calculator) {
	cfg := config.Default()
	return NewEncoder(cfg.Feedrates), motion.NewCalculator(cfg.Geometry, cfg.Feedrates)
}

func TestOrbitalScriptShape(t *testing.T) {
	enc, calc := newEncoder()
	p := calc.Orbital(60, 1.0, nil)
	seq := enc.Script(p)

	lines := strings.Split(seq.String(), "\n")
	// G21 + G0 + 51 samples + M400
	if len(lines) != 54 {
		t.Fatalf("line count = %d, want 54", len(lines))
	}
	if !strings.HasPrefix(lines[0], "G21") {
		t.Errorf("line 0 = %q, want units declaration", lines[0])
	}
	if !strings.HasPrefix(lines[1], "G0 X150.0000 Y150.0000 F6000") {
		t.Errorf("line 1 = %q, want rapid to center", lines[1])
	}
	if !strings.HasPrefix(lines[2], "G1 X155.0000 Y150.0000 F2000") {
		t.Errorf("line 2 = %q, want first sample at angle 0", lines[2])
	}
	if !strings.HasPrefix(lines[len(lines)-1], "M400") {
		t.Errorf("last line = %q, want wait", lines[len(lines)-1])
	}
	// Orbital must not re-zero in-script; its origin return is dispatched
	// separately.
	if strings.Contains(seq.String(), "G92") {
		t.Error("orbital script must not contain G92")
	}
}

func TestLinearScriptTeardown(t *testing.T) {
	enc, calc := newEncoder()
	p := calc.Linear(60, 1.0)
	seq := enc.Script(p)

	lines := strings.Split(seq.String(), "\n")
	// G21 + G0 + 50 samples + G0 return + M400 + G92
	if len(lines) != 55 {
		t.Fatalf("line count = %d, want 55", len(lines))
	}
	n := len(lines)
	if !strings.HasPrefix(lines[n-3], "G0 X150.0000 Y150.0000 F6000") {
		t.Errorf("return line = %q", lines[n-3])
	}
	if !strings.HasPrefix(lines[n-2], "M400") {
		t.Errorf("wait line = %q", lines[n-2])
	}
	if !strings.HasPrefix(lines[n-1], "G92 X150.0000 Y150.0000 ;") {
		t.Errorf("re-zero line = %q", lines[n-1])
	}
	// Linear center has no Z; neither setup nor teardown may carry one.
	if strings.Contains(seq.String(), "Z") {
		t.Error("linear script must not reference the Z axis")
	}
}

func TestHelicalScriptCarriesZ(t *testing.T) {
	enc, calc := newEncoder()
	p := calc.Helical3D(60, 1.0)
	seq := enc.Script(p)

	lines := strings.Split(seq.String(), "\n")
	if !strings.HasPrefix(lines[1], "G0 X150.0000 Y150.0000 Z10.0000 F6000") {
		t.Errorf("setup line = %q, want Z included", lines[1])
	}
	if !strings.Contains(lines[2], "Z") {
		t.Errorf("sample line = %q, want Z word", lines[2])
	}
	if !strings.Contains(lines[2], "F900") {
		t.Errorf("sample line = %q, want clamped feed rate 900", lines[2])
	}
	last := lines[len(lines)-1]
	if !strings.HasPrefix(last, "G92 X150.0000 Y150.0000 Z10.0000") {
		t.Errorf("re-zero line = %q, want Z included", last)
	}
}

func TestZeroSampleScript(t *testing.T) {
	enc, calc := newEncoder()
	p := calc.Linear(60, 0.01)
	seq := enc.Script(p)

	// Setup plus immediate teardown: G21, G0, G0, M400, G92.
	if seq.Len() != 5 {
		t.Errorf("line count = %d, want 5 (setup + teardown only)", seq.Len())
	}
}

func TestScriptDeterminism(t *testing.T) {
	enc, calc := newEncoder()

	a := enc.Script(calc.Orbital(77, 3.3, nil)).String()
	b := enc.Script(calc.Orbital(77, 3.3, nil)).String()
	if a != b {
		t.Error("identical inputs produced different scripts")
	}
}

func TestReturnToOrigin(t *testing.T) {
	enc, _ := newEncoder()
	seq := enc.ReturnToOrigin(config.Coordinate{X: 150, Y: 150})

	lines := strings.Split(seq.String(), "\n")
	if len(lines) != 2 {
		t.Fatalf("line count = %d, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "G0 X150.0000 Y150.0000 F6000") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "M400") {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestPositionTo(t *testing.T) {
	enc, _ := newEncoder()

	// Z of 0 is the sentinel: omit the Z word.
	got := enc.PositionTo(config.Coordinate{X: 100, Y: 150, Z: 0})
	if got != "G1 X100 Y150 F3000" {
		t.Errorf("PositionTo = %q", got)
	}

	got = enc.PositionTo(config.Coordinate{X: 100, Y: 150, Z: 4})
	if got != "G1 X100 Y150 Z4 F3000" {
		t.Errorf("PositionTo with Z = %q", got)
	}
}

func TestCommentsAreAnnotationsOnly(t *testing.T) {
	enc, calc := newEncoder()
	seq := enc.Script(calc.Orbital(60, 1.0, nil))

	for _, line := range strings.Split(seq.String(), "\n") {
		cmd := line
		if i := strings.Index(line, ";"); i >= 0 {
			cmd = line[:i]
		}
		if strings.TrimSpace(cmd) == "" {
			t.Errorf("line %q has no command before the comment", line)
		}
	}
}
