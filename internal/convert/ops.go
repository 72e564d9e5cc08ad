package convert

import (
	"fmt"
	"math/rand/v2"

	"github.com/nmr-relax/rotkit/internal/model"
	"github.com/nmr-relax/rotkit/internal/rotation"
)

// RandomMode selects the random rotation generator.
type RandomMode string

const (
	// RandomHypersphere draws uniformly from SO(3).
	RandomHypersphere RandomMode = "hypersphere"

	// RandomAxis rotates by a fixed angle about a uniformly random axis.
	RandomAxis RandomMode = "axis"
)

// ParseRandomMode converts a string to a RandomMode. The empty string
// selects RandomHypersphere.
func ParseRandomMode(s string) (RandomMode, error) {
	switch RandomMode(s) {
	case "", RandomHypersphere:
		return RandomHypersphere, nil
	case RandomAxis:
		return RandomAxis, nil
	}
	return "", fmt.Errorf("invalid random mode: %q (valid: hypersphere, axis)", s)
}

// Convert resolves in and renders it as to. Euler input without its own
// order, and Euler output, use order.
func Convert(in Rotation, to model.Representation, order model.EulerOrder) (Rotation, error) {
	R, err := in.ToMatrix(order)
	if err != nil {
		return Rotation{}, err
	}
	return FromMatrix(R, to, order)
}

// Reverse returns the inverse rotation of in, in the same representation.
// Euler angles keep their convention.
func Reverse(in Rotation, order model.EulerOrder) (Rotation, error) {
	kind, err := in.Kind()
	if err != nil {
		return Rotation{}, err
	}

	if kind == model.ReprEuler {
		a, b, g, err := triple("euler", in.Euler)
		if err != nil {
			return Rotation{}, err
		}
		o, err := in.EulerOrder(order)
		if err != nil {
			return Rotation{}, err
		}
		a, b, g, err = rotation.ReverseEuler(o, a, b, g)
		if err != nil {
			return Rotation{}, err
		}
		return Rotation{Euler: []float64{a, b, g}, Order: o.String()}, nil
	}

	R, err := in.ToMatrix(order)
	if err != nil {
		return Rotation{}, err
	}
	return FromMatrix(R.Transpose(), kind, order)
}

// Compose returns the rotation that applies rs in sequence, the first
// element first: R = R_n ··· R_2 · R_1.
func Compose(rs []Rotation, order model.EulerOrder) (rotation.Matrix, error) {
	out := rotation.Identity()
	for i, r := range rs {
		R, err := r.ToMatrix(order)
		if err != nil {
			return rotation.Matrix{}, fmt.Errorf("rotation %d: %w", i, err)
		}
		out = R.Mul(out)
	}
	return out, nil
}

// Align returns the rotation taking the direction of from onto to.
func Align(from, to []float64) (rotation.Matrix, error) {
	v1, err := rotation.VectorFromSlice(from)
	if err != nil {
		return rotation.Matrix{}, fmt.Errorf("from: %w", err)
	}
	v2, err := rotation.VectorFromSlice(to)
	if err != nil {
		return rotation.Matrix{}, fmt.Errorf("to: %w", err)
	}
	if err := finite(from...); err != nil {
		return rotation.Matrix{}, fmt.Errorf("from: %w", err)
	}
	if err := finite(to...); err != nil {
		return rotation.Matrix{}, fmt.Errorf("to: %w", err)
	}
	return rotation.TwoVectToR(v1, v2)
}

// Random draws a rotation with the given generator. angle is only used
// by RandomAxis.
func Random(rng *rand.Rand, mode RandomMode, angle float64) (rotation.Matrix, error) {
	switch mode {
	case RandomHypersphere, "":
		return rotation.RandomHypersphereR(rng), nil
	case RandomAxis:
		if err := finite(angle); err != nil {
			return rotation.Matrix{}, fmt.Errorf("angle: %w", err)
		}
		return rotation.RandomAxisR(rng, angle), nil
	}
	return rotation.Matrix{}, fmt.Errorf("invalid random mode: %q", mode)
}

// NewRand returns a PCG generator. A nil seed draws one from the global
// source.
func NewRand(seed *uint64) *rand.Rand {
	s := rand.Uint64()
	if seed != nil {
		s = *seed
	}
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}
