package convert

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmr-relax/rotkit/internal/model"
	"github.com/nmr-relax/rotkit/internal/rotation"
)

func ptr(f float64) *float64 { return &f }

func TestRotation_Kind(t *testing.T) {
	tests := []struct {
		name    string
		in      Rotation
		want    model.Representation
		wantErr error
	}{
		{name: "matrix", in: Rotation{Matrix: [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}, want: model.ReprMatrix},
		{name: "axis-angle", in: Rotation{Axis: []float64{0, 0, 1}, Angle: ptr(1)}, want: model.ReprAxisAngle},
		{name: "angle only", in: Rotation{Angle: ptr(1)}, want: model.ReprAxisAngle},
		{name: "quaternion", in: Rotation{Quaternion: []float64{1, 0, 0, 0}}, want: model.ReprQuaternion},
		{name: "euler", in: Rotation{Euler: []float64{0, 0, 0}, Order: "xyz"}, want: model.ReprEuler},
		{name: "tilt-torsion", in: Rotation{TiltTorsion: []float64{0, 0, 0}}, want: model.ReprTiltTorsion},
		{name: "empty", in: Rotation{Order: "zyz"}, wantErr: ErrNoRotation},
		{name: "two kinds", in: Rotation{Euler: []float64{0, 0, 0}, Quaternion: []float64{1, 0, 0, 0}}, wantErr: ErrAmbiguous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Kind()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRotation_ToMatrixErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      Rotation
		wantErr error
	}{
		{name: "matrix shape", in: Rotation{Matrix: [][]float64{{1, 0}, {0, 1}}}, wantErr: rotation.ErrShape},
		{name: "not a rotation", in: Rotation{Matrix: [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, -1}}}, wantErr: rotation.ErrNotRotation},
		{name: "angle without axis", in: Rotation{Angle: ptr(1)}, wantErr: rotation.ErrShape},
		{name: "zero axis", in: Rotation{Axis: []float64{0, 0, 0}, Angle: ptr(1)}, wantErr: rotation.ErrZeroVector},
		{name: "nan angle", in: Rotation{Axis: []float64{0, 0, 1}, Angle: ptr(math.NaN())}, wantErr: ErrNotFinite},
		{name: "short quaternion", in: Rotation{Quaternion: []float64{1, 0, 0}}, wantErr: rotation.ErrShape},
		{name: "zero quaternion", in: Rotation{Quaternion: []float64{0, 0, 0, 0}}, wantErr: rotation.ErrZeroVector},
		{name: "euler shape", in: Rotation{Euler: []float64{1, 2}}, wantErr: rotation.ErrShape},
		{name: "euler order", in: Rotation{Euler: []float64{1, 2, 3}, Order: "abc"}, wantErr: rotation.ErrInvalidOrder},
		{name: "infinite tilt", in: Rotation{TiltTorsion: []float64{math.Inf(1), 0, 0}}, wantErr: ErrNotFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.in.ToMatrix(model.OrderZYZ)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRotation_ZeroAngleAnyAxis(t *testing.T) {
	R, err := Rotation{Axis: []float64{0, 0, 0}, Angle: ptr(0)}.ToMatrix(model.OrderZYZ)
	require.NoError(t, err)
	assert.Equal(t, rotation.Identity(), R)
}

func TestConvert_AllRepresentations(t *testing.T) {
	in := Rotation{Euler: []float64{0.3, 1.1, -0.7}, Order: "zyz"}
	want, err := in.ToMatrix(model.OrderZYZ)
	require.NoError(t, err)

	reprs := []model.Representation{
		model.ReprMatrix, model.ReprAxisAngle, model.ReprQuaternion,
		model.ReprEuler, model.ReprTiltTorsion,
	}
	for _, to := range reprs {
		for _, order := range model.EulerOrders {
			out, err := Convert(in, to, order)
			require.NoError(t, err)

			kind, err := out.Kind()
			require.NoError(t, err)
			assert.Equal(t, to, kind)

			got, err := out.ToMatrix(order)
			require.NoError(t, err)
			assert.True(t, want.EqualApprox(got, 1e-9), "%s/%s", to, order)
		}
	}
}

func TestConvert_QuaternionIsNormalised(t *testing.T) {
	out, err := Convert(Rotation{Quaternion: []float64{2, 0, 0, 2}}, model.ReprAxisAngle, model.OrderZYZ)
	require.NoError(t, err)

	require.NotNil(t, out.Angle)
	assert.InDelta(t, math.Pi/2, *out.Angle, 1e-12)
	assert.InDeltaSlice(t, []float64{0, 0, 1}, out.Axis, 1e-12)
}

func TestReverse(t *testing.T) {
	t.Run("euler keeps its order", func(t *testing.T) {
		out, err := Reverse(Rotation{Euler: []float64{1, 0.5, 3}, Order: "zyz"}, model.OrderXYZ)
		require.NoError(t, err)
		assert.Equal(t, "zyz", out.Order)

		back, err := Reverse(out, model.OrderXYZ)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{1, 0.5, 3}, back.Euler, 1e-9)
	})

	t.Run("axis-angle", func(t *testing.T) {
		out, err := Reverse(Rotation{Axis: []float64{0, 0, 1}, Angle: ptr(0.4)}, model.OrderZYZ)
		require.NoError(t, err)
		require.NotNil(t, out.Angle)
		assert.InDelta(t, 0.4, *out.Angle, 1e-12)
		assert.InDeltaSlice(t, []float64{0, 0, -1}, out.Axis, 1e-12)
	})

	t.Run("product is identity", func(t *testing.T) {
		in := Rotation{Quaternion: []float64{0.5, 0.5, 0.5, 0.5}}
		out, err := Reverse(in, model.OrderZYZ)
		require.NoError(t, err)

		R, err := Compose([]Rotation{in, out}, model.OrderZYZ)
		require.NoError(t, err)
		assert.True(t, rotation.Identity().EqualApprox(R, 1e-12))
	})
}

func TestCompose_Order(t *testing.T) {
	x90 := Rotation{Axis: []float64{1, 0, 0}, Angle: ptr(math.Pi / 2)}
	z90 := Rotation{Axis: []float64{0, 0, 1}, Angle: ptr(math.Pi / 2)}

	R, err := Compose([]Rotation{x90, z90}, model.OrderZYZ)
	require.NoError(t, err)

	// y goes to z under x90, and z stays put under z90.
	v := R.Apply(r3.Vector{Y: 1})
	assert.InDelta(t, 1.0, v.Z, 1e-12)

	_, err = Compose([]Rotation{x90, {}}, model.OrderZYZ)
	assert.ErrorIs(t, err, ErrNoRotation)
	assert.Contains(t, err.Error(), "rotation 1")
}

func TestAlign(t *testing.T) {
	R, err := Align([]float64{1, 0, 0}, []float64{0, 2, 0})
	require.NoError(t, err)
	v := R.Apply(r3.Vector{X: 1})
	assert.InDelta(t, 1.0, v.Y, 1e-12)

	_, err = Align([]float64{1, 0}, []float64{0, 1, 0})
	assert.ErrorIs(t, err, rotation.ErrShape)

	_, err = Align([]float64{0, 0, 0}, []float64{0, 1, 0})
	assert.ErrorIs(t, err, rotation.ErrZeroVector)
}

func TestRandom(t *testing.T) {
	seed := uint64(17)

	a, err := Random(NewRand(&seed), RandomHypersphere, 0)
	require.NoError(t, err)
	b, err := Random(NewRand(&seed), RandomHypersphere, 0)
	require.NoError(t, err)
	assert.Equal(t, a, b, "same seed gives the same rotation")
	assert.NoError(t, a.Validate(rotation.DefaultTolerance))

	R, err := Random(NewRand(&seed), RandomAxis, 0.3)
	require.NoError(t, err)
	_, angle := rotation.RToAxisAngle(R)
	assert.InDelta(t, 0.3, angle, 1e-9)

	_, err = Random(NewRand(nil), "cube", 0)
	assert.Error(t, err)
}

func TestParseRandomMode(t *testing.T) {
	m, err := ParseRandomMode("")
	require.NoError(t, err)
	assert.Equal(t, RandomHypersphere, m)

	m, err = ParseRandomMode("axis")
	require.NoError(t, err)
	assert.Equal(t, RandomAxis, m)

	_, err = ParseRandomMode("sphere")
	assert.Error(t, err)
}

func TestRotation_Round(t *testing.T) {
	in := Rotation{
		Matrix: [][]float64{{1.23456, -1e-12, 0}},
		Angle:  ptr(math.Pi),
		Order:  "zyz",
	}

	out := in.Round(3)

	assert.Equal(t, [][]float64{{1.235, 0, 0}}, out.Matrix)
	assert.False(t, math.Signbit(out.Matrix[0][1]))
	assert.Equal(t, 3.142, *out.Angle)
	assert.Equal(t, "zyz", out.Order)
	assert.Nil(t, out.Euler)
}
