// Package convert moves rotations between their wire form and the
// rotation package.
//
// A Rotation is the payload shape shared by scripts, the HTTP API and the
// CLI: exactly one of matrix, axis+angle, quaternion, euler (with an
// optional order) or tiltTorsion is set. The helpers here resolve such a
// payload to a rotation.Matrix, render a matrix back into any
// representation, and implement the composite operations (reverse,
// compose, align, random) on top of the geometry.
package convert
