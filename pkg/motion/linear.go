// Linear motion profile: reciprocation along the Y axis at the fixed center.
package motion

import (
	"math"

	"shaker-host/pkg/config"
)

// linearSampleRate is fixed; command count is bounded by the stroke shape.
const linearSampleRate = 50

// Linear computes a single-axis reciprocating trajectory. X stays at the
// center; Y oscillates by the configured half-stroke.
func (c *Calculator) Linear(rpm int, durationSec float64) Profile {
	ctr := c.geo.Center
	amplitude := c.geo.LinearAmplitude

	rps, w := omega(rpm)

	// Four half-strokes per cycle.
	feed := math.Max(c.rates.Minimum, 4*amplitude*rps*60)

	n := int(durationSec * linearSampleRate) // exclusive of t = duration
	times := sampleTimes(durationSec, n, false)

	points := make([]Point, len(times))
	for i, t := range times {
		points[i] = Point{
			X: ctr.X,
			Y: amplitude*math.Sin(w*t) + ctr.Y,
		}
	}

	return Profile{
		Pattern:  Linear,
		Center:   config.Coordinate{X: ctr.X, Y: ctr.Y},
		Points:   points,
		FeedRate: feed,
	}
}

// LinearParams reports the derivation of a linear profile.
func (c *Calculator) LinearParams(rpm int, durationSec float64, p Profile) Params {
	rps, w := omega(rpm)
	return Params{
		RPM:       rpm,
		Duration:  durationSec,
		RPS:       rps,
		Omega:     w,
		Amplitude: c.geo.LinearAmplitude,
		FeedRate:  p.FeedRate,
		Samples:   len(p.Points),
	}
}
