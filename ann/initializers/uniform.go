package initializers

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

type uniform struct {
	gen *uniformRNG
}

// Uniform returns an Initializer that draws every value, biases included, uniformly from
// [-1, 1), or the range given to Range. A draw of exactly zero is discarded.
func Uniform() *uniform {
	return &uniform{UniformRNG()}
}

// Range sets the bounds of the distribution. They may be given in either order.
func (u *uniform) Range(lower, upper float64) *uniform {
	if lower > upper {
		lower, upper = upper, lower
	}

	u.gen.Bounds(lower, upper)
	return u
}

func (u *uniform) Set(rng *rand.Rand, w *mat.Dense) {
	w.Apply(func(_, _ int, _ float64) float64 {
		v := u.gen.Gen(rng)
		for v == 0 {
			v = u.gen.Gen(rng)
		}
		return v
	}, w)
}
