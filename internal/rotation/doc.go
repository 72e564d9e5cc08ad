// Package rotation converts between the representations of a rigid-body
// rotation in three dimensions.
//
// Supported representations:
//   - Matrix: a 3x3 active rotation matrix (v' = R·v)
//   - axis-angle: a unit r3.Vector axis and an angle in radians
//   - Quaternion: a unit quaternion ordered (w, x, y, z), w = cos(θ/2)
//   - Euler angles in any of the twelve model.EulerOrder conventions
//   - tilt-torsion angles (phi, theta, sigma)
//
// All twelve Euler conventions share a single implementation. Each order
// is mapped onto a canonical one (zyz for the proper conventions, xyz for
// the Tait-Bryan ones) by relabelling the axes with a signed permutation,
// and the canonical extraction formulas are applied in that frame.
//
// At gimbal lock (β = 0 or π for proper orders, β = ±π/2 for Tait-Bryan
// orders) the first and third rotations are about the same axis and only
// their combination is defined. The extraction then folds the whole
// rotation into α and returns γ = 0.
//
// The functions are pure: no shared state, no I/O. Random generators take
// an explicit *rand.Rand so callers control seeding.
package rotation
