package main

import (
	"flag"
	"math"
	"math/rand"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/vuolleko/FormulaAI/ann"
	"github.com/vuolleko/FormulaAI/ann/initializers"
)

const (
	statusFrequency int = 500

	// main hyperparameters
	learningRate   float64 = 2
	regularization float64 = 0
	batchSize      int     = 2
	maxEpochs      int     = 5000
)

func dataset() (inputs, targets [][]float64) {
	return [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
		[][]float64{{0}, {1}, {1}, {0}}
}

func train(net *ann.Network, inputs, targets [][]float64) {
	log.Info("Starting training...")

	for epoch := 0; epoch < maxEpochs; epoch += statusFrequency {
		if err := net.TrainEpochs(inputs, targets, learningRate, regularization, statusFrequency, batchSize); err != nil {
			log.WithError(err).Fatal("Training failed")
		}

		cost, err := net.MeanCost(inputs, targets)
		if err != nil {
			log.WithError(err).Fatal("Evaluating cost failed")
		}

		log.WithFields(log.Fields{"epoch": epoch + statusFrequency, "cost": cost}).Info("Status")
	}

	log.Info("Done training!")
}

func test(net *ann.Network, inputs, targets [][]float64) {
	log.Info("Testing...")

	correct := 0
	for i := range inputs {
		out, err := net.Feedforward(inputs[i])
		if err != nil {
			log.WithError(err).Fatal("Feedforward failed")
		}

		rounded := []float64{math.Round(out[0])}
		if floats.Equal(rounded, targets[i]) {
			correct++
		}

		log.WithFields(log.Fields{"input": inputs[i], "output": out[0], "target": targets[i][0]}).Info("Sample")
	}

	log.WithField("percent", 100*float64(correct)/float64(len(inputs))).Info("Done testing!")
}

func main() {
	seed := flag.Int64("seed", 1, "seed of the random source")
	hidden := flag.Int("hidden", 3, "size of the hidden layer")
	flag.Parse()

	log.Info("Setting up network...")
	net, err := ann.New([]int{2, *hidden, 1},
		ann.WithRand(rand.New(rand.NewSource(*seed))),
		ann.WithInitializer(initializers.Xavier()))
	if err != nil {
		log.WithError(err).Fatal("Failed to create network")
	}
	log.Info("Done!")

	inputs, targets := dataset()
	train(net, inputs, targets)
	test(net, inputs, targets)
}
