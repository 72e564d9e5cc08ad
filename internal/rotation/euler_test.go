package rotation

import (
	"fmt"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmr-relax/rotkit/internal/model"
)

// eulerCase is one start triple and the triple expected back after the
// matrix round trip. A nil end means the start angles are expected.
type eulerCase struct {
	start [3]float64
	end   *[3]float64
}

func angles(a, b, g float64) *[3]float64 {
	return &[3]float64{a, b, g}
}

// checkReturnConversion converts the start angles to a matrix and back,
// wraps the result into [0, 2π) and, when β landed on the other branch,
// switches to the equivalent solution {α+π, π−β, γ+π}.
func checkReturnConversion(t *testing.T, order model.EulerOrder, tc eulerCase) {
	t.Helper()

	end := tc.start
	if tc.end != nil {
		end = *tc.end
	}

	R, err := EulerToR(order, tc.start[0], tc.start[1], tc.start[2])
	require.NoError(t, err)

	a, b, g, err := RToEuler(order, R)
	require.NoError(t, err)
	a, b, g = wrap(a), wrap(b), wrap(g)

	if math.Abs(end[1]-b) > delta {
		if b < math.Pi {
			b = math.Pi - b
		} else {
			b = 3*math.Pi - b
		}
		a, b, g = wrap(a+math.Pi), wrap(b), wrap(g+math.Pi)
	}

	msg := fmt.Sprintf("%s: start %v, got (%.5f, %.5f, %.5f)", order, tc.start, a, b, g)
	assert.InDelta(t, end[0], a, delta, msg)
	assert.InDelta(t, end[1], b, delta, msg)
	assert.InDelta(t, end[2], g, delta, msg)
}

// commonCases are shared by every convention. Gimbal-specific cases are
// appended per convention family.
func commonCases(rngSeed uint64) []eulerCase {
	rng := newRand(rngSeed)
	return []eulerCase{
		{start: [3]float64{rng.Float64() * 2 * math.Pi, rng.Float64() * math.Pi, rng.Float64() * 2 * math.Pi}},
		{start: [3]float64{0, 0, 0}},
		{start: [3]float64{1, 0, 0}},
		{start: [3]float64{0, 1, 0}},
		{start: [3]float64{1, 1, 0}},
		{start: [3]float64{0, 1, 1}},
		{start: [3]float64{1, 1, 1}},
	}
}

// TestRToEuler_Proper checks the six proper conventions. At β = 0 and
// β = π the angles are folded into α with γ = 0.
func TestRToEuler_Proper(t *testing.T) {
	orders := []model.EulerOrder{
		model.OrderXYX, model.OrderXZX, model.OrderYXY,
		model.OrderYZY, model.OrderZXZ, model.OrderZYZ,
	}

	for i, order := range orders {
		t.Run(order.String(), func(t *testing.T) {
			cases := append(commonCases(uint64(i)),
				eulerCase{start: [3]float64{0, 0, 1}, end: angles(1, 0, 0)},
				eulerCase{start: [3]float64{1, 0, 1}, end: angles(2, 0, 0)},
				eulerCase{start: [3]float64{1, math.Pi / 2, 0.5}},
				eulerCase{start: [3]float64{1, math.Pi, 0.5}, end: angles(0.5, math.Pi, 0)},
			)
			for _, tc := range cases {
				checkReturnConversion(t, order, tc)
			}
		})
	}
}

// TestRToEuler_TaitBryan checks the six Tait-Bryan conventions. At
// β = π/2 the cyclic orders fold to α − γ and the anticyclic ones to α + γ.
func TestRToEuler_TaitBryan(t *testing.T) {
	tests := []struct {
		order  model.EulerOrder
		gimbal float64
	}{
		{model.OrderXYZ, 0.5},
		{model.OrderYZX, 0.5},
		{model.OrderZXY, 0.5},
		{model.OrderXZY, 1.5},
		{model.OrderYXZ, 1.5},
		{model.OrderZYX, 1.5},
	}

	for i, tt := range tests {
		t.Run(tt.order.String(), func(t *testing.T) {
			cases := append(commonCases(uint64(100+i)),
				eulerCase{start: [3]float64{0, 0, 1}},
				eulerCase{start: [3]float64{1, 0, 1}},
				eulerCase{start: [3]float64{1, math.Pi / 2, 0.5}, end: angles(tt.gimbal, math.Pi/2, 0)},
				eulerCase{start: [3]float64{1, math.Pi, 0.5}},
			)
			for _, tc := range cases {
				checkReturnConversion(t, tt.order, tc)
			}
		})
	}
}

// TestRToEuler_ZYXSecondSolution checks β beyond π/2 and the explicit
// second solution at β = π.
func TestRToEuler_ZYXSecondSolution(t *testing.T) {
	checkReturnConversion(t, model.OrderZYX, eulerCase{start: [3]float64{5, 2, 1}})
	checkReturnConversion(t, model.OrderZYX, eulerCase{
		start: [3]float64{1, math.Pi, 0.5},
		end:   angles(1+math.Pi, 0, 0.5+math.Pi),
	})
}

// TestRToEuler_ZYZNegativeBeta checks that β outside [0, π] comes back on
// the principal branch.
func TestRToEuler_ZYZNegativeBeta(t *testing.T) {
	want := angles(1+math.Pi, math.Pi/2, 0.5+math.Pi)
	checkReturnConversion(t, model.OrderZYZ, eulerCase{start: [3]float64{1, -math.Pi / 2, 0.5}, end: want})
	checkReturnConversion(t, model.OrderZYZ, eulerCase{start: [3]float64{1, 1.5 * math.Pi, 0.5}, end: want})
}

// TestRToEuler_MatrixRoundTrip verifies for every convention that the
// extracted angles rebuild the same matrix, including at gimbal lock.
func TestRToEuler_MatrixRoundTrip(t *testing.T) {
	rng := newRand(7)

	for _, order := range model.EulerOrders {
		t.Run(order.String(), func(t *testing.T) {
			for i := 0; i < 50; i++ {
				R := RandomHypersphereR(rng)
				a, b, g, err := RToEuler(order, R)
				require.NoError(t, err)

				back, err := EulerToR(order, a, b, g)
				require.NoError(t, err)
				assertMatrix(t, R, back)
			}

			gimbal := math.Pi / 2
			if order.IsProper() {
				gimbal = math.Pi
			}
			R, err := EulerToR(order, 0.3, gimbal, -1.1)
			require.NoError(t, err)
			a, b, g, err := RToEuler(order, R)
			require.NoError(t, err)
			assert.Equal(t, 0.0, g)
			back, err := EulerToR(order, a, b, g)
			require.NoError(t, err)
			assertMatrix(t, R, back)
		})
	}
}

// TestEulerToR_ZYZElemental checks single-angle zyz rotations against the
// rotated axes.
func TestEulerToR_ZYZElemental(t *testing.T) {
	c6, s6 := math.Cos(math.Pi/6), math.Sin(math.Pi/6)
	c4, s4 := math.Cos(math.Pi/4), math.Sin(math.Pi/4)
	c12, s12 := math.Cos(math.Pi/12), math.Sin(math.Pi/12)

	tests := []struct {
		name             string
		a, b, g          float64
		xPos, yPos, zPos r3.Vector
	}{
		{"alpha 30", math.Pi / 6, 0, 0, r3.Vector{X: c6, Y: s6}, r3.Vector{X: -s6, Y: c6}, zAxis},
		{"beta 45", 0, math.Pi / 4, 0, r3.Vector{X: c4, Z: -s4}, yAxis, r3.Vector{X: s4, Z: c4}},
		{"gamma 15", 0, 0, math.Pi / 12, r3.Vector{X: c12, Y: s12}, r3.Vector{X: -s12, Y: c12}, zAxis},
		{"alpha 15 gamma 15", math.Pi / 12, 0, math.Pi / 12, r3.Vector{X: c6, Y: s6}, r3.Vector{X: -s6, Y: c6}, zAxis},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			R, err := EulerToR(model.OrderZYZ, tt.a, tt.b, tt.g)
			require.NoError(t, err)
			checkRotation(t, R, tt.xPos, tt.yPos, tt.zPos)
		})
	}
}

// TestEulerZYZ_Bounce passes a random rotation through every conversion
// and expects the original zyz angles back.
func TestEulerZYZ_Bounce(t *testing.T) {
	rng := newRand(42)
	alpha := rng.Float64() * 2 * math.Pi
	beta := rng.Float64() * math.Pi
	gamma := rng.Float64() * 2 * math.Pi

	R, err := EulerToR(model.OrderZYZ, alpha, beta, gamma)
	require.NoError(t, err)

	axis, angle := RToAxisAngle(R)
	q := AxisAngleToQuaternion(axis, angle)
	axis, angle = QuaternionToAxisAngle(q)
	R = AxisAngleToR(axis, angle)
	q = RToQuaternion(R)
	R = QuaternionToR(q)

	a, b, g, err := RToEuler(model.OrderZYZ, R)
	require.NoError(t, err)
	axis, angle, err = EulerToAxisAngle(model.OrderZYZ, a, b, g)
	require.NoError(t, err)
	a, b, g, err = AxisAngleToEuler(model.OrderZYZ, axis, angle)
	require.NoError(t, err)

	assert.InDelta(t, alpha, wrap(a), delta)
	assert.InDelta(t, beta, wrap(b), delta)
	assert.InDelta(t, gamma, wrap(g), delta)
}

// TestEulerQuaternion verifies the Euler ↔ quaternion shortcuts agree with
// the matrix path.
func TestEulerQuaternion(t *testing.T) {
	q, err := EulerToQuaternion(model.OrderXYZ, 0.4, -0.2, 1.3)
	require.NoError(t, err)
	R, err := EulerToR(model.OrderXYZ, 0.4, -0.2, 1.3)
	require.NoError(t, err)
	assertMatrix(t, R, QuaternionToR(q))

	a, b, g, err := QuaternionToEuler(model.OrderXYZ, q)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, a, delta)
	assert.InDelta(t, -0.2, b, delta)
	assert.InDelta(t, 1.3, g, delta)
}

// TestReverseEulerZYZ verifies that reversing twice returns the original
// angles, or the folded angles at β = 0.
func TestReverseEulerZYZ(t *testing.T) {
	tests := []struct {
		start [3]float64
		want  [3]float64
	}{
		{[3]float64{0, 0, 0}, [3]float64{0, 0, 0}},
		{[3]float64{1, 0, 0}, [3]float64{1, 0, 0}},
		{[3]float64{0, 1, 0}, [3]float64{0, 1, 0}},
		{[3]float64{0, 0, 1}, [3]float64{1, 0, 0}},
		{[3]float64{1, 1, 0}, [3]float64{1, 1, 0}},
		{[3]float64{0, 1, 1}, [3]float64{0, 1, 1}},
		{[3]float64{1, 0, 1}, [3]float64{2, 0, 0}},
		{[3]float64{1, 1, 1}, [3]float64{1, 1, 1}},
		{[3]float64{1, 0.5, 3}, [3]float64{1, 0.5, 3}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.start), func(t *testing.T) {
			a, b, g, err := ReverseEuler(model.OrderZYZ, tt.start[0], tt.start[1], tt.start[2])
			require.NoError(t, err)
			a, b, g, err = ReverseEuler(model.OrderZYZ, a, b, g)
			require.NoError(t, err)

			assert.InDelta(t, tt.want[0], a, delta)
			assert.InDelta(t, tt.want[1], b, delta)
			assert.InDelta(t, tt.want[2], g, delta)
		})
	}
}

// TestReverseEuler_Inverse verifies the reversed angles describe Rᵀ in
// every convention.
func TestReverseEuler_Inverse(t *testing.T) {
	for _, order := range model.EulerOrders {
		R, err := EulerToR(order, 0.7, 0.4, -2.1)
		require.NoError(t, err)

		a, b, g, err := ReverseEuler(order, 0.7, 0.4, -2.1)
		require.NoError(t, err)
		inv, err := EulerToR(order, a, b, g)
		require.NoError(t, err)

		assertMatrix(t, Identity(), inv.Mul(R), order.String())
	}
}

// TestEuler_InvalidOrder verifies the error for unknown conventions.
func TestEuler_InvalidOrder(t *testing.T) {
	_, err := EulerToR("zzz", 0, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, _, _, err = RToEuler("abc", Identity())
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, _, _, err = ReverseEuler("", 0, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidOrder)
}
