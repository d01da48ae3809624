package initializers

import (
	"math/rand"

	"github.com/vuolleko/FormulaAI/ann"
	"gonum.org/v1/gonum/mat"
)

type random struct {
	RNG
}

// Random returns an Initializer that uses the provided RNG to generate every value, biases
// included. There is no scaling beyond that of the RNG.
func Random(g RNG) ann.Initializer {
	return random{g}
}

// Set is the implementation of ann.Initializer
func (r random) Set(rng *rand.Rand, w *mat.Dense) {
	rows, cols := w.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			w.Set(i, j, r.Gen(rng))
		}
	}
}
