package rotation

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Quaternion is a rotation quaternion ordered (w, x, y, z).
type Quaternion [4]float64

// IdentityQuaternion is the quaternion of the zero rotation.
var IdentityQuaternion = Quaternion{1, 0, 0, 0}

// Number converts q into a gonum quaternion.
func (q Quaternion) Number() quat.Number {
	return quat.Number{Real: q[0], Imag: q[1], Jmag: q[2], Kmag: q[3]}
}

// QuaternionFromNumber converts a gonum quaternion into a Quaternion.
func QuaternionFromNumber(n quat.Number) Quaternion {
	return Quaternion{n.Real, n.Imag, n.Jmag, n.Kmag}
}

// Norm returns the Euclidean norm of q.
func (q Quaternion) Norm() float64 {
	return quat.Abs(q.Number())
}

// Normalize returns q scaled to unit norm. The zero quaternion is
// returned unchanged.
func (q Quaternion) Normalize() Quaternion {
	n := q.Norm()
	if n == 0 {
		return q
	}
	return Quaternion{q[0] / n, q[1] / n, q[2] / n, q[3] / n}
}

// Conj returns the conjugate, the inverse rotation of a unit quaternion.
func (q Quaternion) Conj() Quaternion {
	return QuaternionFromNumber(quat.Conj(q.Number()))
}

// Mul returns the Hamilton product q·p: the rotation p followed by q.
func (q Quaternion) Mul(p Quaternion) Quaternion {
	return QuaternionFromNumber(quat.Mul(q.Number(), p.Number()))
}

// Rotate applies the rotation of unit quaternion q to v as q·v·q*.
func (q Quaternion) Rotate(v r3.Vector) r3.Vector {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	out := quat.Mul(quat.Mul(q.Number(), p), quat.Conj(q.Number()))
	return r3.Vector{X: out.Imag, Y: out.Jmag, Z: out.Kmag}
}

// Canonical returns q or -q, whichever has w ≥ 0. Both describe the same
// rotation.
func (q Quaternion) Canonical() Quaternion {
	if q[0] < 0 {
		return Quaternion{-q[0], -q[1], -q[2], -q[3]}
	}
	return q
}

// QuaternionToR converts a unit quaternion into a rotation matrix.
func QuaternionToR(q Quaternion) Matrix {
	w, x, y, z := q[0], q[1], q[2], q[3]

	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return Matrix{
		{1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy)},
		{2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx)},
		{2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy)},
	}
}

// RToQuaternion converts a rotation matrix into a unit quaternion with
// w ≥ 0, using Shepperd's method: the largest of w, x, y, z is computed
// from the diagonal and the others from the off-diagonal sums, which
// avoids dividing by a small number.
func RToQuaternion(R Matrix) Quaternion {
	var q Quaternion
	t := R.Trace()

	switch {
	case t > 0:
		s := 2 * math.Sqrt(1+t)
		q = Quaternion{s / 4, (R[2][1] - R[1][2]) / s, (R[0][2] - R[2][0]) / s, (R[1][0] - R[0][1]) / s}
	case R[0][0] > R[1][1] && R[0][0] > R[2][2]:
		s := 2 * math.Sqrt(1+R[0][0]-R[1][1]-R[2][2])
		q = Quaternion{(R[2][1] - R[1][2]) / s, s / 4, (R[0][1] + R[1][0]) / s, (R[0][2] + R[2][0]) / s}
	case R[1][1] > R[2][2]:
		s := 2 * math.Sqrt(1+R[1][1]-R[0][0]-R[2][2])
		q = Quaternion{(R[0][2] - R[2][0]) / s, (R[0][1] + R[1][0]) / s, s / 4, (R[1][2] + R[2][1]) / s}
	default:
		s := 2 * math.Sqrt(1+R[2][2]-R[0][0]-R[1][1])
		q = Quaternion{(R[1][0] - R[0][1]) / s, (R[0][2] + R[2][0]) / s, (R[1][2] + R[2][1]) / s, s / 4}
	}

	return q.Canonical().Normalize()
}

// QuaternionToAxisAngle converts a unit quaternion into an axis and angle.
// The zero rotation returns the zero axis and angle 0.
func QuaternionToAxisAngle(q Quaternion) (r3.Vector, float64) {
	v := r3.Vector{X: q[1], Y: q[2], Z: q[3]}
	n := v.Norm()
	if n == 0 {
		return r3.Vector{}, 0
	}
	return v.Mul(1 / n), 2 * math.Atan2(n, q[0])
}
