package ann

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Network is a fully-connected feed-forward network of sigmoid layers. It exclusively owns its
// weights; they are only changed by the training methods and ApplyGradient.
//
// A Network is not safe for concurrent use. To train in the background, see AsyncTrainer.
type Network struct {
	// the number of values in each layer, input layer first
	sizes []int

	// weights[l] maps layer l to layer l+1 and has shape (sizes[l+1], 1+sizes[l]). Column 0 is
	// the bias.
	weights []*mat.Dense

	rng  *rand.Rand
	init Initializer
}

// Option configures a Network while it is being created by New.
type Option func(*Network)

// WithRand sets the source of randomness used for initializing weights and shuffling samples
// during TrainEpochs. Without it, a source seeded by the current time is used.
func WithRand(rng *rand.Rand) Option {
	return func(net *Network) {
		net.rng = rng
	}
}

// WithInitializer sets the Initializer used for the weight matrices. The default is
// ScaledNormal.
func WithInitializer(init Initializer) Option {
	return func(net *Network) {
		net.init = init
	}
}

// New creates a Network with the given layer sizes, input layer first. There must be at least two
// layers and every layer must have size >= 1.
func New(sizes []int, opts ...Option) (*Network, error) {
	if len(sizes) < 2 {
		return nil, errors.Errorf("Network must have at least 2 layers (%d)", len(sizes))
	}

	for i, s := range sizes {
		if s < 1 {
			return nil, errors.Errorf("Layer %d must have size >= 1 (%d)", i, s)
		}
	}

	net := &Network{sizes: append([]int(nil), sizes...)}
	for _, opt := range opts {
		opt(net)
	}

	if net.rng == nil {
		net.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	if net.init == nil {
		net.init = ScaledNormal()
	}

	net.weights = make([]*mat.Dense, len(sizes)-1)
	for l := range net.weights {
		w := mat.NewDense(sizes[l+1], 1+sizes[l], nil)
		net.init.Set(net.rng, w)
		net.weights[l] = w
	}

	return net, nil
}

// Sizes returns a copy of the layer sizes of the Network, input layer first.
func (net *Network) Sizes() []int {
	return append([]int(nil), net.sizes...)
}

// InputSize returns the number of values expected as input.
func (net *Network) InputSize() int {
	return net.sizes[0]
}

// OutputSize returns the number of values produced as output.
func (net *Network) OutputSize() int {
	return net.sizes[len(net.sizes)-1]
}

// Weights returns a copy of the weight matrix mapping layer l to layer l+1. Column 0 holds the
// biases.
func (net *Network) Weights(l int) *mat.Dense {
	return mat.DenseCopyOf(net.weights[l])
}

// Feedforward returns the output of the Network for the given input. It has no side effects.
//
// If the input does not have the size of the input layer, a SizeMismatchError is returned.
func (net *Network) Feedforward(input []float64) ([]float64, error) {
	if len(input) != net.InputSize() {
		return nil, errors.WithStack(SizeMismatchError{net.InputSize(), len(input), "inputs"})
	}

	act := input
	for _, w := range net.weights {
		act = activate(affine(w, augment(act)))
	}

	return act, nil
}

// Cost returns the cross-entropy cost of the Network's output for a single sample.
func (net *Network) Cost(input, target []float64) (float64, error) {
	if len(target) != net.OutputSize() {
		return 0, errors.WithStack(SizeMismatchError{net.OutputSize(), len(target), "targets"})
	}

	outs, err := net.Feedforward(input)
	if err != nil {
		return 0, err
	}

	return Cost(outs, target)
}

// MeanCost returns the average cost over a set of samples. An empty set has a cost of zero.
func (net *Network) MeanCost(inputs, targets [][]float64) (float64, error) {
	if len(inputs) != len(targets) {
		return 0, errors.WithStack(SizeMismatchError{len(inputs), len(targets), "set of targets"})
	} else if len(inputs) == 0 {
		return 0, nil
	}

	var sum float64
	for i := range inputs {
		c, err := net.Cost(inputs[i], targets[i])
		if err != nil {
			return 0, errors.Wrapf(err, "Getting cost of sample %d failed", i)
		}

		sum += c
	}

	return sum / float64(len(inputs)), nil
}

// Clone returns a deep copy of the Network. The copy gets its own source of randomness, seeded
// from the original's, so cloning is deterministic for a seeded Network.
func (net *Network) Clone() *Network {
	c := &Network{
		sizes:   append([]int(nil), net.sizes...),
		weights: make([]*mat.Dense, len(net.weights)),
		rng:     rand.New(rand.NewSource(net.rng.Int63())),
		init:    net.init,
	}

	for l, w := range net.weights {
		c.weights[l] = mat.DenseCopyOf(w)
	}

	return c
}

// Adopt replaces the weights of the Network with copies of those of other, which must have the
// same layer sizes. It is the way to take over the result of background training.
func (net *Network) Adopt(other *Network) error {
	if other == nil {
		return errors.Errorf("Can't adopt weights, other Network is nil")
	} else if len(other.sizes) != len(net.sizes) {
		return errors.WithStack(SizeMismatchError{len(net.sizes), len(other.sizes), "layer count"})
	}

	for i := range net.sizes {
		if net.sizes[i] != other.sizes[i] {
			return errors.Wrapf(SizeMismatchError{net.sizes[i], other.sizes[i], "layer"}, "Can't adopt weights of layer %d", i)
		}
	}

	for l := range net.weights {
		net.weights[l].Copy(other.weights[l])
	}

	return nil
}
