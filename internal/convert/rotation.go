package convert

import (
	"errors"
	"fmt"
	"math"

	"github.com/nmr-relax/rotkit/internal/model"
	"github.com/nmr-relax/rotkit/internal/rotation"
)

var (
	// ErrNoRotation is returned when a payload sets no representation.
	ErrNoRotation = errors.New("no rotation given")

	// ErrAmbiguous is returned when a payload sets more than one representation.
	ErrAmbiguous = errors.New("more than one rotation representation given")

	// ErrNotFinite is returned for NaN or infinite input values.
	ErrNotFinite = errors.New("non-finite value")
)

// Rotation is the wire form of a single rotation. Exactly one
// representation is set; Order only qualifies Euler angles.
type Rotation struct {
	// Matrix is a 3x3 rotation matrix in row-major order.
	Matrix [][]float64 `json:"matrix,omitempty" yaml:"matrix,omitempty"`

	// Axis is the rotation axis; it is normalised on input.
	Axis []float64 `json:"axis,omitempty" yaml:"axis,omitempty"`

	// Angle is the rotation angle about Axis in radians.
	Angle *float64 `json:"angle,omitempty" yaml:"angle,omitempty"`

	// Quaternion is ordered (w, x, y, z); it is normalised on input.
	Quaternion []float64 `json:"quaternion,omitempty" yaml:"quaternion,omitempty"`

	// Euler holds (alpha, beta, gamma) in radians.
	Euler []float64 `json:"euler,omitempty" yaml:"euler,omitempty"`

	// Order is the Euler convention of Euler, e.g. "zyz".
	Order string `json:"order,omitempty" yaml:"order,omitempty"`

	// TiltTorsion holds (phi, theta, sigma) in radians.
	TiltTorsion []float64 `json:"tiltTorsion,omitempty" yaml:"tiltTorsion,omitempty"`
}

// Kind reports which representation r carries.
func (r Rotation) Kind() (model.Representation, error) {
	var kinds []model.Representation
	if r.Matrix != nil {
		kinds = append(kinds, model.ReprMatrix)
	}
	if r.Axis != nil || r.Angle != nil {
		kinds = append(kinds, model.ReprAxisAngle)
	}
	if r.Quaternion != nil {
		kinds = append(kinds, model.ReprQuaternion)
	}
	if r.Euler != nil {
		kinds = append(kinds, model.ReprEuler)
	}
	if r.TiltTorsion != nil {
		kinds = append(kinds, model.ReprTiltTorsion)
	}

	switch len(kinds) {
	case 0:
		return "", ErrNoRotation
	case 1:
		return kinds[0], nil
	default:
		return "", fmt.Errorf("%w: %v", ErrAmbiguous, kinds)
	}
}

// EulerOrder returns the order of r, falling back to def when r has none.
func (r Rotation) EulerOrder(def model.EulerOrder) (model.EulerOrder, error) {
	if r.Order == "" {
		return def, nil
	}
	order, err := model.ParseEulerOrder(r.Order)
	if err != nil {
		return "", fmt.Errorf("%w: %v", rotation.ErrInvalidOrder, err)
	}
	return order, nil
}

// ToMatrix resolves r to a rotation matrix. Euler angles without an order
// use def.
func (r Rotation) ToMatrix(def model.EulerOrder) (rotation.Matrix, error) {
	kind, err := r.Kind()
	if err != nil {
		return rotation.Matrix{}, err
	}

	switch kind {
	case model.ReprMatrix:
		m, err := rotation.MatrixFromRows(r.Matrix)
		if err != nil {
			return rotation.Matrix{}, fmt.Errorf("matrix: %w", err)
		}
		if err := m.Validate(rotation.DefaultTolerance); err != nil {
			return rotation.Matrix{}, fmt.Errorf("matrix: %w", err)
		}
		return m, nil

	case model.ReprAxisAngle:
		if r.Axis == nil || r.Angle == nil {
			return rotation.Matrix{}, fmt.Errorf("axis-angle: %w: both axis and angle are required", rotation.ErrShape)
		}
		axis, err := rotation.VectorFromSlice(r.Axis)
		if err != nil {
			return rotation.Matrix{}, fmt.Errorf("axis: %w", err)
		}
		if err := finite(r.Axis...); err != nil {
			return rotation.Matrix{}, fmt.Errorf("axis: %w", err)
		}
		if err := finite(*r.Angle); err != nil {
			return rotation.Matrix{}, fmt.Errorf("angle: %w", err)
		}
		if *r.Angle == 0 {
			return rotation.Identity(), nil
		}
		axis, err = rotation.UnitAxis(axis)
		if err != nil {
			return rotation.Matrix{}, fmt.Errorf("axis: %w", err)
		}
		return rotation.AxisAngleToR(axis, *r.Angle), nil

	case model.ReprQuaternion:
		if len(r.Quaternion) != 4 {
			return rotation.Matrix{}, fmt.Errorf("quaternion: %w: expected 4 elements, got %d", rotation.ErrShape, len(r.Quaternion))
		}
		if err := finite(r.Quaternion...); err != nil {
			return rotation.Matrix{}, fmt.Errorf("quaternion: %w", err)
		}
		q := rotation.Quaternion{r.Quaternion[0], r.Quaternion[1], r.Quaternion[2], r.Quaternion[3]}
		if q.Norm() == 0 {
			return rotation.Matrix{}, fmt.Errorf("quaternion: %w", rotation.ErrZeroVector)
		}
		return rotation.QuaternionToR(q.Normalize()), nil

	case model.ReprEuler:
		a, b, g, err := triple("euler", r.Euler)
		if err != nil {
			return rotation.Matrix{}, err
		}
		order, err := r.EulerOrder(def)
		if err != nil {
			return rotation.Matrix{}, err
		}
		return rotation.EulerToR(order, a, b, g)

	default:
		phi, theta, sigma, err := triple("tiltTorsion", r.TiltTorsion)
		if err != nil {
			return rotation.Matrix{}, err
		}
		return rotation.TiltTorsionToR(phi, theta, sigma), nil
	}
}

// FromMatrix renders R in the requested representation. order is used
// for Euler output.
func FromMatrix(R rotation.Matrix, to model.Representation, order model.EulerOrder) (Rotation, error) {
	switch to {
	case model.ReprMatrix:
		return Rotation{Matrix: R.Rows()}, nil

	case model.ReprAxisAngle:
		axis, angle := rotation.RToAxisAngle(R)
		return Rotation{Axis: []float64{axis.X, axis.Y, axis.Z}, Angle: &angle}, nil

	case model.ReprQuaternion:
		q := rotation.RToQuaternion(R)
		return Rotation{Quaternion: q[:]}, nil

	case model.ReprEuler:
		a, b, g, err := rotation.RToEuler(order, R)
		if err != nil {
			return Rotation{}, err
		}
		return Rotation{Euler: []float64{a, b, g}, Order: order.String()}, nil

	case model.ReprTiltTorsion:
		phi, theta, sigma := rotation.RToTiltTorsion(R)
		return Rotation{TiltTorsion: []float64{phi, theta, sigma}}, nil
	}
	return Rotation{}, fmt.Errorf("unsupported representation %q", to)
}

// Round returns a copy of r with every value rounded to digits decimal
// places. Negative zero is normalised to zero.
func (r Rotation) Round(digits int) Rotation {
	out := Rotation{Order: r.Order}
	if r.Matrix != nil {
		out.Matrix = make([][]float64, len(r.Matrix))
		for i, row := range r.Matrix {
			out.Matrix[i] = roundAll(row, digits)
		}
	}
	out.Axis = roundAll(r.Axis, digits)
	if r.Angle != nil {
		a := round(*r.Angle, digits)
		out.Angle = &a
	}
	out.Quaternion = roundAll(r.Quaternion, digits)
	out.Euler = roundAll(r.Euler, digits)
	out.TiltTorsion = roundAll(r.TiltTorsion, digits)
	return out
}

func round(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	v = math.Round(v*p) / p
	if v == 0 {
		return 0
	}
	return v
}

func roundAll(vs []float64, digits int) []float64 {
	if vs == nil {
		return nil
	}
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = round(v, digits)
	}
	return out
}

func triple(field string, vs []float64) (float64, float64, float64, error) {
	if len(vs) != 3 {
		return 0, 0, 0, fmt.Errorf("%s: %w: expected 3 angles, got %d", field, rotation.ErrShape, len(vs))
	}
	if err := finite(vs...); err != nil {
		return 0, 0, 0, fmt.Errorf("%s: %w", field, err)
	}
	return vs[0], vs[1], vs[2], nil
}

func finite(vs ...float64) error {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNotFinite
		}
	}
	return nil
}
