package ann

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Sigmoid is the logistic activation function, 1 / (1 + e^-z).
func Sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// SigmoidDerivative is the derivative of Sigmoid at z.
func SigmoidDerivative(z float64) float64 {
	s := Sigmoid(z)
	return s * (1 - s)
}

// activate applies Sigmoid element-wise, returning a new slice
func activate(zs []float64) []float64 {
	out := make([]float64, len(zs))
	for i := range zs {
		out[i] = Sigmoid(zs[i])
	}

	return out
}

// augment returns the given values with a constant 1 in front, as the input to the next layer.
func augment(values []float64) *mat.VecDense {
	data := make([]float64, len(values)+1)
	data[0] = 1
	copy(data[1:], values)
	return mat.NewVecDense(len(data), data)
}

// affine returns W·x, the pre-activation values of a layer, given its augmented input.
func affine(w *mat.Dense, in *mat.VecDense) []float64 {
	rows, _ := w.Dims()
	z := mat.NewVecDense(rows, nil)
	z.MulVec(w, in)
	return z.RawVector().Data
}
