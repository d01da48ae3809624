package ann

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Backpropagate returns the gradient of the cross-entropy cost for a single sample with respect to
// every weight in the Network, as one matrix per weight matrix (with the same shapes). The Network
// is not changed; see ApplyGradient.
//
// Because the output layer is a sigmoid paired with cross-entropy, the error of the output layer
// is simply (output - target).
func (net *Network) Backpropagate(input, target []float64) ([]*mat.Dense, error) {
	if len(input) != net.InputSize() {
		return nil, errors.WithStack(SizeMismatchError{net.InputSize(), len(input), "inputs"})
	} else if len(target) != net.OutputSize() {
		return nil, errors.WithStack(SizeMismatchError{net.OutputSize(), len(target), "targets"})
	}

	n := len(net.weights)

	// ins[l] is the augmented input to layer l, zetas[l] its pre-activation values
	ins := make([]*mat.VecDense, n)
	zetas := make([][]float64, n)

	act := input
	for l, w := range net.weights {
		ins[l] = augment(act)
		zetas[l] = affine(w, ins[l])
		act = activate(zetas[l])
	}

	delta := make([]float64, len(act))
	for i := range act {
		delta[i] = act[i] - target[i]
	}

	grads := make([]*mat.Dense, n)
	for l := n - 1; l >= 0; l-- {
		d := mat.NewVecDense(len(delta), delta)

		rows, cols := net.weights[l].Dims()
		grads[l] = mat.NewDense(rows, cols, nil)
		grads[l].Outer(1, d, ins[l])

		if l == 0 {
			break
		}

		back := mat.NewVecDense(cols, nil)
		back.MulVec(net.weights[l].T(), d)

		// row 0 of back belongs to the constant bias input, which has no error of its own
		delta = make([]float64, cols-1)
		for i := range delta {
			delta[i] = back.AtVec(i+1) * SigmoidDerivative(zetas[l-1][i])
		}
	}

	return grads, nil
}
