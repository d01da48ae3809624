package ann

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Initializer sets the starting values of a weight matrix. The matrix has one row per neuron and
// one column per input, plus the bias in column 0.
type Initializer interface {
	Set(rng *rand.Rand, w *mat.Dense)
}

type scaledNormal struct{}

// ScaledNormal returns the default Initializer: every value is drawn from a standard normal
// distribution, and the non-bias weights are then divided by the square root of the number of
// inputs to the layer. This keeps the variance of the first activations from growing with the size
// of the previous layer.
func ScaledNormal() Initializer {
	return scaledNormal{}
}

func (scaledNormal) Set(rng *rand.Rand, w *mat.Dense) {
	r, c := w.Dims()
	scale := 1 / math.Sqrt(float64(c-1))

	for i := 0; i < r; i++ {
		w.Set(i, 0, rng.NormFloat64())
		for j := 1; j < c; j++ {
			w.Set(i, j, rng.NormFloat64()*scale)
		}
	}
}
