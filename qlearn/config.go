package qlearn

import (
	"github.com/pkg/errors"
)

// Config holds the constructor-time settings of a Controller.
type Config struct {
	// LearningRate and Regularization are handed to every mini-batch update of the Network.
	LearningRate   float64
	Regularization float64

	// Discount is the weight of the best value of the next state, in [0, 1].
	Discount float64

	ReplayCapacity int
	MiniBatchSize  int

	// SkipTicks is the number of ticks between controlled ticks. A value of 1 controls every
	// tick.
	SkipTicks int

	// Exploration is the starting probability of a random action. After each controlled tick
	// with positive speed it is multiplied by ExplorationDecay, but never below
	// ExplorationFloor.
	Exploration      float64
	ExplorationFloor float64
	ExplorationDecay float64

	// TerminalReward is given for a transition during which the car was reset. Records carrying
	// this reward do not bootstrap from the value of the next state.
	TerminalReward float64

	// Reward gives the reward of a non-terminal transition from the current forward speed.
	Reward func(speed float64) float64
}

// LinearReward returns a reward function that is proportional to speed.
func LinearReward(scale float64) func(float64) float64 {
	return func(speed float64) float64 {
		return scale * speed
	}
}

// DefaultConfig returns the settings used by the formulaai command when none are given.
func DefaultConfig() Config {
	return Config{
		LearningRate:     0.1,
		Regularization:   0,
		Discount:         0.9,
		ReplayCapacity:   2000,
		MiniBatchSize:    32,
		SkipTicks:        5,
		Exploration:      1,
		ExplorationFloor: 0.05,
		ExplorationDecay: 0.999,
		TerminalReward:   -10,
		Reward:           LinearReward(0.1),
	}
}

// Validate returns an error describing the first setting that is out of range.
func (c Config) Validate() error {
	switch {
	case c.LearningRate <= 0:
		return errors.Errorf("Learning rate must be > 0 (%v)", c.LearningRate)
	case c.Regularization < 0:
		return errors.Errorf("Regularization must be >= 0 (%v)", c.Regularization)
	case c.Discount < 0 || c.Discount > 1:
		return errors.Errorf("Discount must be in [0, 1] (%v)", c.Discount)
	case c.ReplayCapacity < 1:
		return errors.Errorf("Replay capacity must be >= 1 (%d)", c.ReplayCapacity)
	case c.MiniBatchSize < 1:
		return errors.Errorf("Mini-batch size must be >= 1 (%d)", c.MiniBatchSize)
	case c.SkipTicks < 1:
		return errors.Errorf("Skip ticks must be >= 1 (%d)", c.SkipTicks)
	case c.Exploration < 0 || c.Exploration > 1:
		return errors.Errorf("Exploration must be in [0, 1] (%v)", c.Exploration)
	case c.ExplorationFloor < 0 || c.ExplorationFloor > c.Exploration:
		return errors.Errorf("Exploration floor must be in [0, %v] (%v)", c.Exploration, c.ExplorationFloor)
	case c.ExplorationDecay <= 0 || c.ExplorationDecay > 1:
		return errors.Errorf("Exploration decay must be in (0, 1] (%v)", c.ExplorationDecay)
	case c.Reward == nil:
		return errors.Errorf("Reward function must not be nil")
	}

	return nil
}
