package ann

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ApplyGradient updates the weights of the Network with an (already averaged) gradient, as given
// by Backpropagate. The non-bias weights are first decayed by a factor of
// (1 - learningRate*regularization), then the gradient step is taken:
//
//		W -= learningRate * grad
//
// If any gradient does not have the shape of its weight matrix, the Network is left unchanged.
func (net *Network) ApplyGradient(grads []*mat.Dense, learningRate, regularization float64) error {
	if len(grads) != len(net.weights) {
		return errors.WithStack(SizeMismatchError{len(net.weights), len(grads), "gradients"})
	}

	for l, w := range net.weights {
		r, c := w.Dims()
		if grads[l] == nil {
			return errors.Errorf("Gradient %d is nil", l)
		} else if gr, gc := grads[l].Dims(); gr != r || gc != c {
			return errors.Errorf("Gradient %d has shape %dx%d, expected %dx%d", l, gr, gc, r, c)
		}
	}

	decay := 1 - learningRate*regularization
	for l, w := range net.weights {
		r, c := w.Dims()
		g := grads[l]

		for i := 0; i < r; i++ {
			w.Set(i, 0, w.At(i, 0)-learningRate*g.At(i, 0))

			for j := 1; j < c; j++ {
				w.Set(i, j, w.At(i, j)*decay-learningRate*g.At(i, j))
			}
		}
	}

	return nil
}

// TrainOne trains the Network on a single sample with plain gradient descent. It is exactly
// TrainMiniBatch with a batch of one.
func (net *Network) TrainOne(input, target []float64, learningRate, regularization float64) error {
	return net.TrainMiniBatch([][]float64{input}, [][]float64{target}, learningRate, regularization)
}

// TrainMiniBatch sums the gradients of every sample in the batch, divides by the size of the batch
// and applies the result once with ApplyGradient.
//
// An empty batch gives ErrEmptyBatch; a different number of inputs and targets, or any sample of
// the wrong size, gives a SizeMismatchError. In both cases the Network is unchanged.
func (net *Network) TrainMiniBatch(inputs, targets [][]float64, learningRate, regularization float64) error {
	if len(inputs) == 0 {
		return errors.WithStack(ErrEmptyBatch)
	} else if len(inputs) != len(targets) {
		return errors.WithStack(SizeMismatchError{len(inputs), len(targets), "batch targets"})
	}

	var sum []*mat.Dense
	for i := range inputs {
		grads, err := net.Backpropagate(inputs[i], targets[i])
		if err != nil {
			return errors.Wrapf(err, "Backpropagating sample %d of batch failed", i)
		}

		if sum == nil {
			sum = grads
			continue
		}

		for l := range sum {
			sum[l].Add(sum[l], grads[l])
		}
	}

	size := float64(len(inputs))
	for l := range sum {
		sum[l].Apply(func(_, _ int, v float64) float64 { return v / size }, sum[l])
	}

	return net.ApplyGradient(sum, learningRate, regularization)
}

// TrainEpochs trains the Network over the whole set of samples, 'epochs' times. Each epoch draws
// a fresh random permutation of the samples and trains on consecutive mini-batches of 'batchSize'
// of them (the last may be smaller). The regularization given to each mini-batch is divided by the
// number of samples, so that the strength of the decay does not depend on the size of the set.
//
// Every sample is checked before any training happens.
func (net *Network) TrainEpochs(inputs, targets [][]float64, learningRate, regularization float64, epochs, batchSize int) error {
	if len(inputs) == 0 {
		return errors.WithStack(ErrEmptyBatch)
	} else if len(inputs) != len(targets) {
		return errors.WithStack(SizeMismatchError{len(inputs), len(targets), "set of targets"})
	} else if epochs < 0 {
		return errors.Errorf("Number of epochs must be >= 0 (%d)", epochs)
	} else if batchSize < 1 {
		return errors.Errorf("Batch size must be >= 1 (%d)", batchSize)
	}

	for i := range inputs {
		if len(inputs[i]) != net.InputSize() {
			return errors.Wrapf(SizeMismatchError{net.InputSize(), len(inputs[i]), "inputs"}, "Sample %d does not fit Network", i)
		} else if len(targets[i]) != net.OutputSize() {
			return errors.Wrapf(SizeMismatchError{net.OutputSize(), len(targets[i]), "targets"}, "Sample %d does not fit Network", i)
		}
	}

	reg := regularization / float64(len(inputs))

	for e := 0; e < epochs; e++ {
		for _, batch := range epochBatches(net.rng.Perm(len(inputs)), batchSize) {
			ins := make([][]float64, len(batch))
			tgts := make([][]float64, len(batch))
			for i, idx := range batch {
				ins[i] = inputs[idx]
				tgts[i] = targets[idx]
			}

			if err := net.TrainMiniBatch(ins, tgts, learningRate, reg); err != nil {
				return errors.Wrapf(err, "Training on epoch %d failed", e)
			}
		}
	}

	return nil
}

// epochBatches splits a permutation of sample indexes into consecutive chunks of batchSize
func epochBatches(perm []int, batchSize int) [][]int {
	batches := make([][]int, 0, (len(perm)+batchSize-1)/batchSize)
	for start := 0; start < len(perm); start += batchSize {
		end := start + batchSize
		if end > len(perm) {
			end = len(perm)
		}

		batches = append(batches, perm[start:end])
	}

	return batches
}
