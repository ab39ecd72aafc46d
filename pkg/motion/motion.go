// Package motion computes sampled shaker trajectories. Given a rotation
// speed, a duration and a pattern it produces the list of coordinate points
// the controller should traverse and the feed rate to traverse them at.
// All computation is deterministic: identical inputs yield identical
// trajectories.
package motion

import (
	"fmt"
	"math"

	"shaker-host/pkg/config"
)

// Pattern selects one of the supported motion shapes.
type Pattern int

const (
	// Orbital is a planar circle around a fixed or named center.
	Orbital Pattern = iota

	// Linear is a single-axis reciprocation along Y.
	Linear

	// Helical3D is a circle with synchronized vertical oscillation.
	Helical3D
)

// String returns the pattern name.
func (p Pattern) String() string {
	switch p {
	case Orbital:
		return "orbital"
	case Linear:
		return "linear"
	case Helical3D:
		return "3d"
	default:
		return "unknown"
	}
}

// Point is one sampled trajectory coordinate. HasZ marks whether the Z axis
// participates in the move.
type Point struct {
	X, Y, Z float64
	HasZ    bool
}

// Profile is a computed trajectory: the points to traverse, the feed rate to
// traverse them at, and the center the motion is anchored on. Immutable once
// produced.
type Profile struct {
	Pattern  Pattern
	Center   config.Coordinate
	Points   []Point
	FeedRate float64
}

// Calculator derives motion profiles from the configured geometry.
type Calculator struct {
	geo   config.Geometry
	rates config.Feedrates
}

// NewCalculator creates a calculator bound to the given geometry and
// feed-rate limits.
func NewCalculator(geo config.Geometry, rates config.Feedrates) *Calculator {
	return &Calculator{geo: geo, rates: rates}
}

// Params describes a profile's derivation for logging and API responses.
type Params struct {
	RPM       int     `json:"rpm"`
	Duration  float64 `json:"duration_sec"`
	RPS       float64 `json:"rps"`
	Omega     float64 `json:"omega"`
	Amplitude float64 `json:"amplitude_mm"`
	FeedRate  float64 `json:"feedrate"`
	Samples   int     `json:"samples"`
}

// omega returns rotations per second and angular rate for an rpm.
func omega(rpm int) (rps, w float64) {
	rps = float64(rpm) / 60.0
	return rps, 2 * math.Pi * rps
}

// sampleTimes returns evenly spaced sample times over [0, duration]. With
// inclusive set the final sample lands exactly at t = duration; otherwise
// the end time is excluded. n of zero or less yields no samples, which is
// legal and produces a setup-only command sequence downstream.
func sampleTimes(duration float64, n int, inclusive bool) []float64 {
	if n <= 0 {
		return nil
	}
	times := make([]float64, n)
	if inclusive {
		if n == 1 {
			return times
		}
		for i := range times {
			times[i] = duration * float64(i) / float64(n-1)
		}
		return times
	}
	for i := range times {
		times[i] = duration * float64(i) / float64(n)
	}
	return times
}

// Validate rejects kinematically meaningless requests.
func Validate(rpm int, durationSec float64) error {
	if rpm <= 0 {
		return fmt.Errorf("rpm must be positive, got %d", rpm)
	}
	if durationSec <= 0 {
		return fmt.Errorf("duration must be positive, got %v", durationSec)
	}
	return nil
}
