package rotation

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/nmr-relax/rotkit/internal/model"
)

var (
	// ErrShape is returned when an input does not have the expected dimensions.
	ErrShape = errors.New("malformed shape")

	// ErrNotRotation is returned for matrices that are not proper orthonormal.
	ErrNotRotation = errors.New("not a rotation matrix")

	// ErrZeroVector is returned when a direction is required but the vector
	// has zero length.
	ErrZeroVector = errors.New("zero-length vector")

	// ErrInvalidOrder is returned for an unknown Euler convention.
	ErrInvalidOrder = errors.New("invalid Euler order")
)

// DefaultTolerance is the orthonormality tolerance used by Validate when
// callers have no better estimate of their input precision.
const DefaultTolerance = 1e-6

// Matrix is a 3x3 rotation matrix stored row-major.
type Matrix [3][3]float64

// Identity returns the identity rotation.
func Identity() Matrix {
	return Matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Mul returns the product m·n, i.e. the rotation n followed by m.
func (m Matrix) Mul(n Matrix) Matrix {
	var out Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][0]*n[0][j] + m[i][1]*n[1][j] + m[i][2]*n[2][j]
		}
	}
	return out
}

// Transpose returns mᵀ, which for a rotation is its inverse.
func (m Matrix) Transpose() Matrix {
	var out Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[j][i]
		}
	}
	return out
}

// Apply rotates v.
func (m Matrix) Apply(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Trace returns the sum of the diagonal, 1 + 2·cos(θ) for a rotation by θ.
func (m Matrix) Trace() float64 {
	return m[0][0] + m[1][1] + m[2][2]
}

// Det returns the determinant.
func (m Matrix) Det() float64 {
	return mat.Det(m.Dense())
}

// Dense copies the matrix into a gonum dense matrix.
func (m Matrix) Dense() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	})
}

// Rows returns the matrix as nested slices, the shape used by JSON and
// YAML encoders.
func (m Matrix) Rows() [][]float64 {
	return [][]float64{
		{m[0][0], m[0][1], m[0][2]},
		{m[1][0], m[1][1], m[1][2]},
		{m[2][0], m[2][1], m[2][2]},
	}
}

// EqualApprox reports whether every element of m and n differs by at most tol.
func (m Matrix) EqualApprox(n Matrix, tol float64) bool {
	return mat.EqualApprox(m.Dense(), n.Dense(), tol)
}

// Validate checks that m is finite, orthonormal and has determinant +1
// within tol.
func (m Matrix) Validate(tol float64) error {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.IsNaN(m[i][j]) || math.IsInf(m[i][j], 0) {
				return fmt.Errorf("%w: element [%d][%d] is not finite", ErrNotRotation, i, j)
			}
		}
	}
	if !m.Transpose().Mul(m).EqualApprox(Identity(), tol) {
		return fmt.Errorf("%w: rows are not orthonormal", ErrNotRotation)
	}
	if det := m.Det(); math.Abs(det-1) > tol {
		return fmt.Errorf("%w: determinant %g", ErrNotRotation, det)
	}
	return nil
}

// FromDense converts any gonum matrix into a Matrix.
// Returns ErrShape if a is not 3x3.
func FromDense(a mat.Matrix) (Matrix, error) {
	r, c := a.Dims()
	if r != 3 || c != 3 {
		return Matrix{}, fmt.Errorf("%w: expected 3x3 matrix, got %dx%d", ErrShape, r, c)
	}
	var m Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = a.At(i, j)
		}
	}
	return m, nil
}

// MatrixFromRows converts nested slices into a Matrix.
// Returns ErrShape unless rows is exactly 3x3.
func MatrixFromRows(rows [][]float64) (Matrix, error) {
	if len(rows) != 3 {
		return Matrix{}, fmt.Errorf("%w: expected 3 rows, got %d", ErrShape, len(rows))
	}
	var m Matrix
	for i, row := range rows {
		if len(row) != 3 {
			return Matrix{}, fmt.Errorf("%w: row %d has %d elements, expected 3", ErrShape, i, len(row))
		}
		copy(m[i][:], row)
	}
	return m, nil
}

// VectorFromSlice converts a 3-element slice into an r3.Vector.
func VectorFromSlice(v []float64) (r3.Vector, error) {
	if len(v) != 3 {
		return r3.Vector{}, fmt.Errorf("%w: expected 3-vector, got %d elements", ErrShape, len(v))
	}
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}, nil
}

// UnitAxis normalises v for use as a rotation axis.
// Returns ErrZeroVector if v has no direction.
func UnitAxis(v r3.Vector) (r3.Vector, error) {
	if v.Norm() == 0 {
		return r3.Vector{}, ErrZeroVector
	}
	return v.Normalize(), nil
}

// basis returns the unit vector along axis a.
func basis(a model.Axis) r3.Vector {
	switch a {
	case model.AxisX:
		return r3.Vector{X: 1}
	case model.AxisY:
		return r3.Vector{Y: 1}
	default:
		return r3.Vector{Z: 1}
	}
}

// fromColumns builds the matrix whose columns are c0, c1 and c2.
func fromColumns(c0, c1, c2 r3.Vector) Matrix {
	return Matrix{
		{c0.X, c1.X, c2.X},
		{c0.Y, c1.Y, c2.Y},
		{c0.Z, c1.Z, c2.Z},
	}
}

// elemental returns the active rotation by angle about a fixed frame axis.
func elemental(a model.Axis, angle float64) Matrix {
	c, s := math.Cos(angle), math.Sin(angle)
	switch a {
	case model.AxisX:
		return Matrix{{1, 0, 0}, {0, c, -s}, {0, s, c}}
	case model.AxisY:
		return Matrix{{c, 0, s}, {0, 1, 0}, {-s, 0, c}}
	default:
		return Matrix{{c, -s, 0}, {s, c, 0}, {0, 0, 1}}
	}
}
