// Package ann provides fully-connected feed-forward neural networks with sigmoid activations,
// trained by backpropagation against the cross-entropy cost.
//
// Creating Networks
//
// A Network is described entirely by its layer sizes, input layer first:
//
//		net, err := ann.New([]int{26, 10, 4})
//		if err != nil {
//			return err
//		}
//
// Each layer after the input owns one weight matrix. The bias of every neuron is stored as the
// first column of that matrix, so the inputs to a layer are always "bias-augmented": a constant 1
// is placed in front of them before multiplying.
//
// The source of randomness and the way weights are initialized can be set when creating the
// Network:
//
//		net, err := ann.New(sizes,
//			ann.WithRand(rand.New(rand.NewSource(1))),
//			ann.WithInitializer(initializers.LeCun()),
//		)
//
// By default, weights are drawn from a standard normal distribution and divided by the square
// root of the number of inputs to the layer; biases are left unscaled.
//
// Training
//
// There are three ways to train, all sharing the same update rule (weight decay on the non-bias
// weights, followed by a gradient step):
//
//		err = net.TrainOne(input, target, learningRate, regularization)
//		err = net.TrainMiniBatch(inputs, targets, learningRate, regularization)
//		err = net.TrainEpochs(inputs, targets, learningRate, regularization, epochs, batchSize)
//
// TrainEpochs shuffles the samples with the Network's source of randomness at the start of every
// epoch. Long runs of TrainEpochs can be moved off of the calling goroutine with an AsyncTrainer,
// which trains a clone of the Network and hands it back to be adopted.
//
// Weights can only be changed through these methods and ApplyGradient; nothing outside of the
// Network has access to the matrices themselves.
package ann
