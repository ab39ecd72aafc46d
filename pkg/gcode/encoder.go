// Package gcode renders motion profiles into the textual command sequences
// the controller executes. One line per command; a ";"-prefixed comment may
// follow a command and carries no meaning to the controller.
package gcode

import (
	"fmt"
	"strings"

	"shaker-host/pkg/config"
	"shaker-host/pkg/motion"
)

// Fixed controller commands.
const (
	// CmdUnits declares millimeter units.
	CmdUnits = "G21 ; set units to millimeters"

	// CmdWait blocks until all queued motion completes.
	CmdWait = "M400 ; wait for all moves to complete"

	// CmdHomeAll homes every axis.
	CmdHomeAll = "G28"

	// CmdHomeXY homes the X and Y axes only.
	CmdHomeXY = "G28 X Y"

	// CmdPause is Moonraker's pause macro.
	CmdPause = "pause"
)

// Sequence is an ordered list of controller commands. Append-only while
// building; rendered once and then treated as immutable.
type Sequence struct {
	lines []string
}

// Add appends one command line.
func (s *Sequence) Add(line string) {
	s.lines = append(s.lines, line)
}

// Addf appends one formatted command line.
func (s *Sequence) Addf(format string, args ...interface{}) {
	s.lines = append(s.lines, fmt.Sprintf(format, args...))
}

// Len returns the number of command lines.
func (s *Sequence) Len() int {
	return len(s.lines)
}

// String renders the sequence as a newline-joined script.
func (s *Sequence) String() string {
	return strings.Join(s.lines, "\n")
}

// Encoder renders profiles using the configured feed rates.
type Encoder struct {
	rates config.Feedrates
}

// NewEncoder creates an encoder bound to the given feed-rate settings.
func NewEncoder(rates config.Feedrates) *Encoder {
	return &Encoder{rates: rates}
}

// hasZ reports whether a center coordinate carries a Z axis. Z of 0 is the
// sentinel for "omit Z".
func hasZ(c config.Coordinate) bool {
	return c.Z != 0
}

// rapidTo renders a G0 rapid move to a coordinate at the traverse speed.
func (e *Encoder) rapidTo(c config.Coordinate, comment string) string {
	if hasZ(c) {
		return fmt.Sprintf("G0 X%.4f Y%.4f Z%.4f F%d ; %s", c.X, c.Y, c.Z, int(e.rates.Traverse), comment)
	}
	return fmt.Sprintf("G0 X%.4f Y%.4f F%d ; %s", c.X, c.Y, int(e.rates.Traverse), comment)
}

// resetTo renders a G92 redefining the position reference to a coordinate.
func (e *Encoder) resetTo(c config.Coordinate) string {
	if hasZ(c) {
		return fmt.Sprintf("G92 X%.4f Y%.4f Z%.4f ; reset position reference to center", c.X, c.Y, c.Z)
	}
	return fmt.Sprintf("G92 X%.4f Y%.4f ; reset position reference to center", c.X, c.Y)
}

// Script renders the full command sequence for a motion profile:
// units declaration, rapid to the pattern center, one G1 per sample at the
// profile's feed rate, then the pattern's teardown. Linear and helical
// return to center and re-zero in-script so floating point drift across
// samples cannot shift the logical origin; orbital ends with the wait only,
// its return to the shared origin is a separate dispatch step.
func (e *Encoder) Script(p motion.Profile) *Sequence {
	seq := &Sequence{}
	seq.Add(CmdUnits)
	seq.Add(e.rapidTo(p.Center, "move to pattern center"))

	feed := int(p.FeedRate)
	for _, pt := range p.Points {
		if pt.HasZ {
			seq.Addf("G1 X%.4f Y%.4f Z%.4f F%d", pt.X, pt.Y, pt.Z, feed)
		} else {
			seq.Addf("G1 X%.4f Y%.4f F%d", pt.X, pt.Y, feed)
		}
	}

	switch p.Pattern {
	case motion.Orbital:
		seq.Add(CmdWait)
	default:
		seq.Add(e.rapidTo(p.Center, "return to pattern center"))
		seq.Add(CmdWait)
		seq.Add(e.resetTo(p.Center))
	}

	return seq
}

// ReturnToOrigin renders the sequence that parks the device at a fixed
// origin after an orbital run: rapid move plus wait.
func (e *Encoder) ReturnToOrigin(origin config.Coordinate) *Sequence {
	seq := &Sequence{}
	seq.Add(e.rapidTo(origin, "return to origin"))
	seq.Add(CmdWait)
	return seq
}

// PositionTo renders a single positioning move to a named target at the
// position feed rate. Targets with the Z sentinel omit the Z word.
func (e *Encoder) PositionTo(target config.Coordinate) string {
	if hasZ(target) {
		return fmt.Sprintf("G1 X%g Y%g Z%g F%d", target.X, target.Y, target.Z, int(e.rates.Position))
	}
	return fmt.Sprintf("G1 X%g Y%g F%d", target.X, target.Y, int(e.rates.Position))
}
