package rotation

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"github.com/nmr-relax/rotkit/internal/model"
)

// gimbalEpsilon is the threshold on sin β (proper) or cos β (Tait-Bryan)
// below which the first and third rotation axes are treated as aligned.
const gimbalEpsilon = 1e-12

func checkOrder(order model.EulerOrder) error {
	if !order.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidOrder, order)
	}
	return nil
}

// EulerToR builds R = R_c(γ)·R_b(β)·R_a(α) for the order "abc".
func EulerToR(order model.EulerOrder, alpha, beta, gamma float64) (Matrix, error) {
	if err := checkOrder(order); err != nil {
		return Matrix{}, err
	}
	return eulerToR(order.Axes(), alpha, beta, gamma), nil
}

func eulerToR(axes [3]model.Axis, alpha, beta, gamma float64) Matrix {
	return elemental(axes[2], gamma).Mul(elemental(axes[1], beta)).Mul(elemental(axes[0], alpha))
}

// RToEuler extracts the Euler angles of R in the given convention.
//
// Angles α and γ lie in (−π, π]. β lies in [0, π] for proper orders and in
// [−π/2, π/2] for Tait-Bryan orders. At gimbal lock γ is 0 and α carries
// the combined rotation.
func RToEuler(order model.EulerOrder, R Matrix) (alpha, beta, gamma float64, err error) {
	if err := checkOrder(order); err != nil {
		return 0, 0, 0, err
	}

	axes := order.Axes()
	a, b := basis(axes[0]), basis(axes[1])

	if order.IsProper() {
		// The frame with z along a and y along b reads the order as zyz.
		P := fromColumns(b.Cross(a), b, a)
		alpha, beta, gamma = canonicalZYZ(P.Transpose().Mul(R).Mul(P))
		return alpha, beta, gamma, nil
	}

	// The frame with x along a, y along b and z along ±c reads the order
	// as xyz. Anticyclic orders need z = −c to stay right-handed, which
	// flips the sign of γ.
	c := basis(axes[2])
	sign := a.Cross(b).Dot(c)
	P := fromColumns(a, b, c.Mul(sign))
	alpha, beta, gamma = canonicalXYZ(P.Transpose().Mul(R).Mul(P))
	return alpha, beta, sign * gamma, nil
}

// canonicalZYZ inverts R = R_z(γ)·R_y(β)·R_z(α).
func canonicalZYZ(R Matrix) (alpha, beta, gamma float64) {
	sb := math.Hypot(R[0][2], R[1][2])
	beta = math.Atan2(sb, R[2][2])
	if sb > gimbalEpsilon {
		alpha = math.Atan2(R[2][1], -R[2][0])
		gamma = math.Atan2(R[1][2], R[0][2])
		return alpha, beta, gamma
	}
	// β = 0 gives R_z(α+γ), β = π gives R_y(π)·R_z(α−γ); in both cases
	// row 1 holds (sin α', cos α', 0).
	return math.Atan2(R[1][0], R[1][1]), beta, 0
}

// canonicalXYZ inverts R = R_z(γ)·R_y(β)·R_x(α).
func canonicalXYZ(R Matrix) (alpha, beta, gamma float64) {
	cb := math.Hypot(R[0][0], R[1][0])
	beta = math.Atan2(-R[2][0], cb)
	if cb > gimbalEpsilon {
		alpha = math.Atan2(R[2][1], R[2][2])
		gamma = math.Atan2(R[1][0], R[0][0])
		return alpha, beta, gamma
	}
	// β = ±π/2: R = R_y(β)·R_x(α'), row 1 holds (0, cos α', −sin α').
	return math.Atan2(-R[1][2], R[1][1]), beta, 0
}

// EulerToAxisAngle converts Euler angles into an axis and angle.
func EulerToAxisAngle(order model.EulerOrder, alpha, beta, gamma float64) (r3.Vector, float64, error) {
	R, err := EulerToR(order, alpha, beta, gamma)
	if err != nil {
		return r3.Vector{}, 0, err
	}
	axis, angle := RToAxisAngle(R)
	return axis, angle, nil
}

// AxisAngleToEuler converts an axis and angle into Euler angles.
func AxisAngleToEuler(order model.EulerOrder, axis r3.Vector, angle float64) (alpha, beta, gamma float64, err error) {
	return RToEuler(order, AxisAngleToR(axis, angle))
}

// EulerToQuaternion converts Euler angles into a unit quaternion.
func EulerToQuaternion(order model.EulerOrder, alpha, beta, gamma float64) (Quaternion, error) {
	R, err := EulerToR(order, alpha, beta, gamma)
	if err != nil {
		return Quaternion{}, err
	}
	return RToQuaternion(R), nil
}

// QuaternionToEuler converts a unit quaternion into Euler angles.
func QuaternionToEuler(order model.EulerOrder, q Quaternion) (alpha, beta, gamma float64, err error) {
	return RToEuler(order, QuaternionToR(q))
}

// ReverseEuler returns the Euler angles of the inverse rotation in the same
// convention. Applying it twice returns the original angles, except at
// gimbal lock where the result is folded into α.
func ReverseEuler(order model.EulerOrder, alpha, beta, gamma float64) (float64, float64, float64, error) {
	R, err := EulerToR(order, alpha, beta, gamma)
	if err != nil {
		return 0, 0, 0, err
	}
	return RToEuler(order, R.Transpose())
}
