// Package model defines the value types shared by the rotkit packages.
//
// EulerOrder enumerates the twelve Euler conventions and knows which
// fixed-frame axes each one rotates about. Representation names the five
// ways a rotation can be written down (matrix, axis-angle, quaternion,
// Euler angles, tilt-torsion angles).
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
