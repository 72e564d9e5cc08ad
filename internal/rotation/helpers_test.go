package rotation

import (
	"math/rand/v2"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
)

// delta is the tolerance for angle, vector and matrix element checks.
const delta = 1e-7

var (
	xAxis = r3.Vector{X: 1}
	yAxis = r3.Vector{Y: 1}
	zAxis = r3.Vector{Z: 1}
)

// newRand returns a deterministic generator so failures are reproducible.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func assertVector(t *testing.T, want, got r3.Vector, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, delta, msgAndArgs...)
	assert.InDelta(t, want.Z, got.Z, delta, msgAndArgs...)
}

func assertMatrix(t *testing.T, want, got Matrix, msgAndArgs ...interface{}) {
	t.Helper()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, want[i][j], got[i][j], delta, msgAndArgs...)
		}
	}
}

// checkRotation rotates the six signed unit axes with R and compares them
// with the images of +x, +y and +z; the negative axes must map to the
// negated images.
func checkRotation(t *testing.T, R Matrix, xPos, yPos, zPos r3.Vector) {
	t.Helper()

	assertVector(t, xPos, R.Apply(xAxis), "x pos")
	assertVector(t, yPos, R.Apply(yAxis), "y pos")
	assertVector(t, zPos, R.Apply(zAxis), "z pos")

	assertVector(t, xPos.Mul(-1), R.Apply(xAxis.Mul(-1)), "x neg")
	assertVector(t, yPos.Mul(-1), R.Apply(yAxis.Mul(-1)), "y neg")
	assertVector(t, zPos.Mul(-1), R.Apply(zAxis.Mul(-1)), "z neg")
}

// wrap puts an angle into [0, 2π) with a small tolerance below zero so
// that values computed as -1e-17 are not sent to 2π.
func wrap(angle float64) float64 {
	return WrapAngle(angle, -1e-9)
}
