package rotation

import (
	"math"
	"math/rand/v2"

	"github.com/golang/geo/r3"
)

// RandomUnitVector returns a direction drawn uniformly from the unit sphere.
func RandomUnitVector(rng *rand.Rand) r3.Vector {
	z := 2*rng.Float64() - 1
	phi := 2 * math.Pi * rng.Float64()
	r := math.Sqrt(1 - z*z)
	return r3.Vector{X: r * math.Cos(phi), Y: r * math.Sin(phi), Z: z}
}

// RandomAxisR returns the rotation by a fixed angle about a uniformly
// random axis.
func RandomAxisR(rng *rand.Rand, angle float64) Matrix {
	return AxisAngleToR(RandomUnitVector(rng), angle)
}

// RandomQuaternion returns a unit quaternion drawn uniformly from the
// 3-sphere (Shoemake's subgroup algorithm), with w ≥ 0.
func RandomQuaternion(rng *rand.Rand) Quaternion {
	u1, u2, u3 := rng.Float64(), rng.Float64(), rng.Float64()
	a, b := math.Sqrt(1-u1), math.Sqrt(u1)
	t2, t3 := 2*math.Pi*u2, 2*math.Pi*u3
	q := Quaternion{b * math.Cos(t3), a * math.Sin(t2), a * math.Cos(t2), b * math.Sin(t3)}
	return q.Canonical()
}

// RandomHypersphereR returns a rotation drawn uniformly from SO(3) with
// respect to the Haar measure, by mapping a uniform point on the
// 3-sphere of unit quaternions.
func RandomHypersphereR(rng *rand.Rand) Matrix {
	return QuaternionToR(RandomQuaternion(rng))
}
