// Helical 3D motion profile: XY circle with a synchronized Z oscillation.
package motion

import (
	"math"
)

const helicalSampleRate = 50

// Helical3D computes a three-axis wobble trajectory. XY traces a circle at
// the helical radius; Z oscillates by half the configured amplitude in
// lockstep phase with the rotation. The feed rate is clamped to the Z axis
// hardware ceiling, since the slower axis bounds the whole move.
func (c *Calculator) Helical3D(rpm int, durationSec float64) Profile {
	ctr := c.geo.Center
	radiusXY := c.geo.HelicalRadius
	halfZ := c.geo.HelicalZAmplitude / 2.0

	rps, w := omega(rpm)

	feed := math.Max(c.rates.Minimum, 2*math.Pi*radiusXY*rps*60)
	feed = math.Min(feed, c.rates.MaxZ)

	n := int(durationSec * helicalSampleRate) // exclusive of t = duration
	times := sampleTimes(durationSec, n, false)

	points := make([]Point, len(times))
	for i, t := range times {
		points[i] = Point{
			X:    radiusXY*math.Cos(w*t) + ctr.X,
			Y:    radiusXY*math.Sin(w*t) + ctr.Y,
			Z:    halfZ*math.Sin(w*t) + ctr.Z,
			HasZ: true,
		}
	}

	return Profile{
		Pattern:  Helical3D,
		Center:   ctr,
		Points:   points,
		FeedRate: feed,
	}
}

// HelicalParams reports the derivation of a helical profile.
func (c *Calculator) HelicalParams(rpm int, durationSec float64, p Profile) Params {
	rps, w := omega(rpm)
	return Params{
		RPM:       rpm,
		Duration:  durationSec,
		RPS:       rps,
		Omega:     w,
		Amplitude: c.geo.HelicalRadius,
		FeedRate:  p.FeedRate,
		Samples:   len(p.Points),
	}
}
