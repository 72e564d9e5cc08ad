package rotation

import (
	"math"

	"github.com/nmr-relax/rotkit/internal/model"
)

// TiltTorsionToR builds the rotation described by tilt-torsion angles.
//
// The torsion σ is a rotation about the z axis. The tilt θ follows about an
// axis lying in the xy-plane, perpendicular to the direction at azimuth φ.
// This is the zyz Euler rotation {α = σ − φ, β = θ, γ = φ}:
//
//	R = R_z(φ)·R_y(θ)·R_z(−φ) · R_z(σ)
func TiltTorsionToR(phi, theta, sigma float64) Matrix {
	return eulerToR(model.OrderZYZ.Axes(), sigma-phi, theta, phi)
}

// RToTiltTorsion extracts the tilt-torsion angles of R.
// φ lies in (−π, π], θ in [0, π] and σ is wrapped into [−π, π).
// A pure torsion (θ = 0) returns φ = 0.
func RToTiltTorsion(R Matrix) (phi, theta, sigma float64) {
	alpha, beta, gamma := canonicalZYZ(R)
	return gamma, beta, WrapAngle(alpha+gamma, -math.Pi)
}
