// Package model defines the value types shared across rotkit.
//
// The types here carry no behaviour beyond parsing and validation. The
// geometry lives in internal/rotation; this package only names things:
// Euler conventions, rotation representations, exit codes and the CLI
// error type.
package model

import (
	"fmt"
	"strings"
)

// Axis identifies one of the three Cartesian axes of the fixed frame.
type Axis int

const (
	// AxisX is the x axis (index 0).
	AxisX Axis = iota

	// AxisY is the y axis (index 1).
	AxisY

	// AxisZ is the z axis (index 2).
	AxisZ
)

// String returns the lowercase axis letter.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// EulerOrder names one of the twelve Euler angle conventions.
//
// An order "abc" means the rotation is built from three elemental
// rotations about the fixed frame axes: α about a, then β about b, then
// γ about c. The resulting matrix is
//
//	R = R_c(γ) · R_b(β) · R_a(α)
//
// Orders whose first and last axes coincide (zyz, xyx, ...) are the proper
// Euler conventions; the remaining six (xyz, zyx, ...) are Tait-Bryan
// conventions.
type EulerOrder string

const (
	OrderXYX EulerOrder = "xyx"
	OrderXYZ EulerOrder = "xyz"
	OrderXZX EulerOrder = "xzx"
	OrderXZY EulerOrder = "xzy"
	OrderYXY EulerOrder = "yxy"
	OrderYXZ EulerOrder = "yxz"
	OrderYZX EulerOrder = "yzx"
	OrderYZY EulerOrder = "yzy"
	OrderZXY EulerOrder = "zxy"
	OrderZXZ EulerOrder = "zxz"
	OrderZYX EulerOrder = "zyx"
	OrderZYZ EulerOrder = "zyz"
)

// EulerOrders lists every supported convention in alphabetical order.
var EulerOrders = []EulerOrder{
	OrderXYX, OrderXYZ, OrderXZX, OrderXZY,
	OrderYXY, OrderYXZ, OrderYZX, OrderYZY,
	OrderZXY, OrderZXZ, OrderZYX, OrderZYZ,
}

// String returns the string representation of EulerOrder.
func (o EulerOrder) String() string {
	return string(o)
}

// IsValid checks whether the EulerOrder is one of the twelve conventions.
func (o EulerOrder) IsValid() bool {
	for _, known := range EulerOrders {
		if o == known {
			return true
		}
	}
	return false
}

// Axes returns the three rotation axes in application order.
// The order must be valid; invalid orders return three AxisX values.
func (o EulerOrder) Axes() [3]Axis {
	var axes [3]Axis
	if !o.IsValid() {
		return axes
	}
	for i, c := range string(o) {
		axes[i] = Axis(c - 'x')
	}
	return axes
}

// IsProper reports whether the first and last rotation axes coincide.
func (o EulerOrder) IsProper() bool {
	axes := o.Axes()
	return o.IsValid() && axes[0] == axes[2]
}

// ParseEulerOrder converts a string to an EulerOrder.
// Returns an error if the string does not name one of the twelve conventions.
func ParseEulerOrder(s string) (EulerOrder, error) {
	order := EulerOrder(strings.ToLower(strings.TrimSpace(s)))
	if !order.IsValid() {
		return "", fmt.Errorf("invalid Euler order: %q (valid: %s)", s, joinOrders())
	}
	return order, nil
}

func joinOrders() string {
	names := make([]string, len(EulerOrders))
	for i, o := range EulerOrders {
		names[i] = o.String()
	}
	return strings.Join(names, ", ")
}

// Representation names a way of writing down a rotation.
type Representation string

const (
	// ReprMatrix is a 3x3 rotation matrix.
	ReprMatrix Representation = "matrix"

	// ReprAxisAngle is a unit axis plus a rotation angle in radians.
	ReprAxisAngle Representation = "axis-angle"

	// ReprQuaternion is a unit quaternion ordered (w, x, y, z).
	ReprQuaternion Representation = "quaternion"

	// ReprEuler is a set of three Euler angles in a given convention.
	ReprEuler Representation = "euler"

	// ReprTiltTorsion is the (phi, theta, sigma) tilt-torsion triple.
	ReprTiltTorsion Representation = "tilt-torsion"
)

// String returns the string representation of Representation.
func (r Representation) String() string {
	return string(r)
}

// IsValid checks whether the Representation is a known one.
func (r Representation) IsValid() bool {
	switch r {
	case ReprMatrix, ReprAxisAngle, ReprQuaternion, ReprEuler, ReprTiltTorsion:
		return true
	default:
		return false
	}
}

// ParseRepresentation converts a string to a Representation.
// A few common aliases ("R", "quat", "axis_angle") are accepted.
func ParseRepresentation(s string) (Representation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "matrix", "r", "rotation-matrix":
		return ReprMatrix, nil
	case "axis-angle", "axis_angle", "axisangle":
		return ReprAxisAngle, nil
	case "quaternion", "quat", "q":
		return ReprQuaternion, nil
	case "euler":
		return ReprEuler, nil
	case "tilt-torsion", "tilt_torsion", "tilttorsion":
		return ReprTiltTorsion, nil
	}
	return "", fmt.Errorf("invalid representation: %q (valid: matrix, axis-angle, quaternion, euler, tilt-torsion)", s)
}

// ExitCode defines the process exit codes of the rotkit CLI.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitInvalidInput indicates malformed angles, vectors or matrices,
	// or an unknown convention name.
	ExitInvalidInput ExitCode = 2

	// ExitScriptNotFound indicates the batch script file does not exist.
	ExitScriptNotFound ExitCode = 3

	// ExitScriptFailed indicates at least one script step failed.
	ExitScriptFailed ExitCode = 4

	// ExitPortUnavailable indicates the server could not bind its port.
	ExitPortUnavailable ExitCode = 5

	// ExitServerError indicates the HTTP server stopped with an error.
	ExitServerError ExitCode = 6
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
