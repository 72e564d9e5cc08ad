package rotation

import (
	"math"

	"github.com/golang/geo/r3"
)

// AxisAngleToR builds the rotation by angle about axis using the Rodrigues
// formula. The axis is expected to be a unit vector (see UnitAxis).
// An angle of zero gives the identity exactly, whatever the axis.
func AxisAngleToR(axis r3.Vector, angle float64) Matrix {
	ca := math.Cos(angle)
	sa := math.Sin(angle)
	C := 1 - ca

	x, y, z := axis.X, axis.Y, axis.Z
	xs, ys, zs := x*sa, y*sa, z*sa
	xC, yC, zC := x*C, y*C, z*C
	xyC, yzC, zxC := x*yC, y*zC, z*xC

	return Matrix{
		{x*xC + ca, xyC - zs, zxC + ys},
		{xyC + zs, y*yC + ca, yzC - xs},
		{zxC - ys, yzC + xs, z*zC + ca},
	}
}

// RToAxisAngle extracts the unit axis and the angle θ ∈ [0, π] of R.
//
// The identity has no axis and returns the zero vector with θ = 0. Near
// θ = π the antisymmetric part of R vanishes, so for θ > π/2 the axis is
// read from the symmetric part R + Rᵀ = 2·cosθ·I + 2·(1 − cosθ)·n·nᵀ and
// only its sign is taken from the antisymmetric part.
func RToAxisAngle(R Matrix) (r3.Vector, float64) {
	raw := r3.Vector{
		X: R[2][1] - R[1][2],
		Y: R[0][2] - R[2][0],
		Z: R[1][0] - R[0][1],
	}
	r := raw.Norm()
	t := R.Trace() - 1
	angle := math.Atan2(r, t)

	if t >= 0 {
		if r == 0 {
			return r3.Vector{}, 0
		}
		return raw.Mul(1 / r), angle
	}

	// (1 - cosθ)·n·nᵀ from the symmetric part.
	cosA := t / 2
	oneMinus := 1 - cosA
	var S Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			S[i][j] = (R[i][j] + R[j][i]) / 2
		}
		S[i][i] -= cosA
	}

	k := 0
	for i := 1; i < 3; i++ {
		if S[i][i] > S[k][k] {
			k = i
		}
	}
	nk := math.Sqrt(math.Max(S[k][k], 0) / oneMinus)
	n := [3]float64{}
	for i := 0; i < 3; i++ {
		if i == k {
			n[i] = nk
			continue
		}
		n[i] = S[i][k] / (oneMinus * nk)
	}
	axis := r3.Vector{X: n[0], Y: n[1], Z: n[2]}.Normalize()
	if axis.Dot(raw) < 0 {
		axis = axis.Mul(-1)
	}
	return axis, angle
}

// AxisAngleToQuaternion returns the unit quaternion (cos θ/2, sin θ/2·axis).
func AxisAngleToQuaternion(axis r3.Vector, angle float64) Quaternion {
	half := angle / 2
	s := math.Sin(half)
	return Quaternion{math.Cos(half), axis.X * s, axis.Y * s, axis.Z * s}
}
