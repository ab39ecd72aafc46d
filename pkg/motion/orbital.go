// Orbital motion profile: a planar circle at the orbital radius.
package motion

import (
	"math"

	"shaker-host/pkg/config"
)

// Orbital pattern sampling densities. Longer runs use sparser sampling to
// bound total command count while keeping the circle smooth.
const (
	orbitalDenseRate  = 50 // duration <= 5s
	orbitalMediumRate = 30 // duration <= 10s
	orbitalSparseRate = 20 // duration > 10s
)

// orbitalSampleRate selects the samples-per-second tier for a duration.
func orbitalSampleRate(durationSec float64) int {
	switch {
	case durationSec <= 5:
		return orbitalDenseRate
	case durationSec <= 10:
		return orbitalMediumRate
	default:
		return orbitalSparseRate
	}
}

// Orbital computes a circular trajectory around center. If center is nil the
// configured default center is used; orbital targets pass their own.
func (c *Calculator) Orbital(rpm int, durationSec float64, center *config.Coordinate) Profile {
	ctr := c.geo.Center
	if center != nil {
		ctr = *center
	}
	radius := c.geo.OrbitalRadius

	rps, w := omega(rpm)

	// Tangential speed needed to complete the circle at the requested rps,
	// floored so slow requests do not stall the toolhead.
	feed := math.Max(c.rates.Minimum, 2*math.Pi*radius*rps*60)

	rate := orbitalSampleRate(durationSec)
	n := int(durationSec*float64(rate)) + 1 // inclusive of t = duration
	times := sampleTimes(durationSec, n, true)

	points := make([]Point, len(times))
	for i, t := range times {
		points[i] = Point{
			X: radius*math.Cos(w*t) + ctr.X,
			Y: radius*math.Sin(w*t) + ctr.Y,
		}
	}

	return Profile{
		Pattern:  Orbital,
		Center:   config.Coordinate{X: ctr.X, Y: ctr.Y},
		Points:   points,
		FeedRate: feed,
	}
}

// OrbitalParams reports the derivation of an orbital profile.
func (c *Calculator) OrbitalParams(rpm int, durationSec float64, p Profile) Params {
	rps, w := omega(rpm)
	return Params{
		RPM:       rpm,
		Duration:  durationSec,
		RPS:       rps,
		Omega:     w,
		Amplitude: c.geo.OrbitalRadius,
		FeedRate:  p.FeedRate,
		Samples:   len(p.Points),
	}
}
