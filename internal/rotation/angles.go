package rotation

import "math"

// WrapAngle shifts angle by whole turns into the interval [lower, lower+2π).
func WrapAngle(angle, lower float64) float64 {
	r := math.Mod(angle-lower, 2*math.Pi)
	if r < 0 {
		r += 2 * math.Pi
	}
	// Mod can round a value just below a full turn up to exactly 2π.
	if r >= 2*math.Pi {
		r = 0
	}
	return lower + r
}
