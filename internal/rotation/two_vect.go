package rotation

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// TwoVectToR returns the rotation that turns the direction of v1 onto the
// direction of v2 about their common normal.
//
// Parallel vectors give the identity. Antiparallel vectors have no unique
// normal; the rotation is then by π about an arbitrary axis perpendicular
// to v1. Returns ErrZeroVector if either vector has zero length.
func TwoVectToR(v1, v2 r3.Vector) (Matrix, error) {
	if v1.Norm() == 0 || v2.Norm() == 0 {
		return Matrix{}, fmt.Errorf("%w: cannot align directionless vectors", ErrZeroVector)
	}
	a, b := v1.Normalize(), v2.Normalize()

	axis := a.Cross(b)
	s := axis.Norm()
	c := a.Dot(b)

	if s > gimbalEpsilon {
		return AxisAngleToR(axis.Mul(1/s), math.Atan2(s, c)), nil
	}
	if c > 0 {
		return Identity(), nil
	}
	return AxisAngleToR(a.Ortho(), math.Pi), nil
}
