// Package config holds the settings of the formulaai command: the shape of the networks, the
// parameters of both learners, the view of the cars and the simulated track.
//
// Settings start from Default, may be read from a YAML file with Load and are finally overridden
// by FORMULAAI_* environment variables with ApplyEnv.
package config

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/vuolleko/FormulaAI/driver"
	"github.com/vuolleko/FormulaAI/hyperparams"
	"github.com/vuolleko/FormulaAI/qlearn"
)

type Config struct {
	Network    Network    `yaml:"network"`
	Training   Training   `yaml:"training"`
	QLearning  QLearning  `yaml:"qlearning"`
	View       View       `yaml:"view"`
	Simulation Simulation `yaml:"simulation"`
}

// Network sets the hidden layers of every network. The input and output layers follow from the
// view and the number of actions.
type Network struct {
	Hidden []int `yaml:"hidden"`
}

// Training configures the imitation learner.
type Training struct {
	LearningRate float64 `yaml:"learning_rate"`

	// LearningRateSteps maps the tick from which a new learning rate applies to that rate
	LearningRateSteps map[int]float64 `yaml:"learning_rate_steps"`

	Regularization    float64 `yaml:"regularization"`
	SampleCapacity    int     `yaml:"sample_capacity"`
	EpochEvery        int     `yaml:"epoch_every"`
	Epochs            int     `yaml:"epochs"`
	BatchSize         int     `yaml:"batch_size"`
	EpochLearningRate float64 `yaml:"epoch_learning_rate"`
}

// QLearning configures the Q-learning controller.
type QLearning struct {
	LearningRate     float64 `yaml:"learning_rate"`
	Regularization   float64 `yaml:"regularization"`
	Discount         float64 `yaml:"discount"`
	ReplayCapacity   int     `yaml:"replay_capacity"`
	MiniBatchSize    int     `yaml:"mini_batch_size"`
	SkipTicks        int     `yaml:"skip_ticks"`
	Exploration      float64 `yaml:"exploration"`
	ExplorationFloor float64 `yaml:"exploration_floor"`
	ExplorationDecay float64 `yaml:"exploration_decay"`
	TerminalReward   float64 `yaml:"terminal_reward"`

	// SpeedReward scales the speed into the reward of a non-terminal transition
	SpeedReward float64 `yaml:"speed_reward"`
}

// View sets what a car sees: Angles directions spread evenly over Angle degrees, each sampled at
// Distances points from MinDistance to Distance.
type View struct {
	Angle       float64 `yaml:"angle"`
	Angles      int     `yaml:"angles"`
	MinDistance float64 `yaml:"min_distance"`
	Distance    float64 `yaml:"distance"`
	Distances   int     `yaml:"distances"`
}

type Simulation struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// TrackWidth is the width of the ring track, in the same units as Width and Height
	TrackWidth float64 `yaml:"track_width"`

	Acceleration float64 `yaml:"acceleration"`
	Braking      float64 `yaml:"braking"`
	TurnSpeed    float64 `yaml:"turn_speed"`
	MaxSpeed     float64 `yaml:"max_speed"`

	// CruiseSpeed is the speed the scripted driver accelerates up to
	CruiseSpeed float64 `yaml:"cruise_speed"`

	Seed int64 `yaml:"seed"`
}

// Default returns the settings used when nothing else is given.
func Default() *Config {
	q := qlearn.DefaultConfig()

	return &Config{
		Network: Network{Hidden: []int{10}},
		Training: Training{
			LearningRate:      0.5,
			LearningRateSteps: map[int]float64{5000: 0.1},
			Regularization:    0,
			SampleCapacity:    1000,
			EpochEvery:        500,
			Epochs:            10,
			BatchSize:         20,
			EpochLearningRate: 0.5,
		},
		QLearning: QLearning{
			LearningRate:     q.LearningRate,
			Regularization:   q.Regularization,
			Discount:         q.Discount,
			ReplayCapacity:   q.ReplayCapacity,
			MiniBatchSize:    q.MiniBatchSize,
			SkipTicks:        q.SkipTicks,
			Exploration:      q.Exploration,
			ExplorationFloor: q.ExplorationFloor,
			ExplorationDecay: q.ExplorationDecay,
			TerminalReward:   q.TerminalReward,
			SpeedReward:      0.1,
		},
		View: View{
			Angle:       90,
			Angles:      5,
			MinDistance: 10,
			Distance:    100,
			Distances:   5,
		},
		Simulation: Simulation{
			Width:        800,
			Height:       600,
			TrackWidth:   120,
			Acceleration: 0.1,
			Braking:      0.2,
			TurnSpeed:    0.05236, // 3 degrees
			MaxSpeed:     6,
			CruiseSpeed:  3,
			Seed:         1,
		},
	}
}

// Load reads a YAML file over the defaults. Unknown keys are an error.
//
// Maps are not merged with their defaults: learning_rate_steps in the file replaces the default
// steps entirely, and an empty mapping ({}) removes them.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read config file %q", path)
	}

	cfg := Default()
	defaultSteps := cfg.Training.LearningRateSteps
	cfg.Training.LearningRateSteps = nil

	if err = yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "Failed to parse config file %q", path)
	}

	if cfg.Training.LearningRateSteps == nil {
		cfg.Training.LearningRateSteps = defaultSteps
	}

	return cfg, nil
}

// Validate returns an error describing the first setting that is out of range.
func (c *Config) Validate() error {
	for i, h := range c.Network.Hidden {
		if h < 1 {
			return errors.Errorf("Hidden layer %d must have size >= 1 (%d)", i, h)
		}
	}

	t := c.Training
	switch {
	case t.LearningRate <= 0:
		return errors.Errorf("Training learning rate must be > 0 (%v)", t.LearningRate)
	case t.Regularization < 0:
		return errors.Errorf("Training regularization must be >= 0 (%v)", t.Regularization)
	case t.EpochEvery < 0:
		return errors.Errorf("Epoch interval must be >= 0 (%d)", t.EpochEvery)
	case t.EpochEvery > 0 && (t.SampleCapacity < 1 || t.Epochs < 1 || t.BatchSize < 1 || t.EpochLearningRate <= 0):
		return errors.Errorf("Epoch training needs positive sample capacity, epochs, batch size and learning rate")
	}
	for iter, rate := range t.LearningRateSteps {
		if iter < 0 || rate <= 0 {
			return errors.Errorf("Invalid learning rate step %d: %v", iter, rate)
		}
	}

	if err := c.Controller().Validate(); err != nil {
		return errors.Wrapf(err, "Invalid qlearning section")
	}

	v := c.View
	switch {
	case v.Angles < 1 || v.Distances < 1:
		return errors.Errorf("View must be at least 1x1 (%dx%d)", v.Angles, v.Distances)
	case v.Angle < 0 || v.Angle > 360:
		return errors.Errorf("View angle must be in [0, 360] (%v)", v.Angle)
	case v.MinDistance < 0 || v.Distance < v.MinDistance:
		return errors.Errorf("View distances must satisfy 0 <= min <= max (%v, %v)", v.MinDistance, v.Distance)
	}

	s := c.Simulation
	switch {
	case s.Width < 1 || s.Height < 1:
		return errors.Errorf("Track must be at least 1x1 (%dx%d)", s.Width, s.Height)
	case s.TrackWidth <= 0:
		return errors.Errorf("Track width must be > 0 (%v)", s.TrackWidth)
	case s.MaxSpeed <= 0:
		return errors.Errorf("Max speed must be > 0 (%v)", s.MaxSpeed)
	case s.Acceleration < 0 || s.Braking < 0 || s.TurnSpeed < 0:
		return errors.Errorf("Acceleration, braking and turn speed must be >= 0")
	}

	return nil
}

// LayerSizes returns the layer sizes of a network that reads the given number of inputs and gives
// one output per action.
func (c *Config) LayerSizes(inputs int) []int {
	sizes := append([]int{inputs}, c.Network.Hidden...)
	return append(sizes, driver.NumActions)
}

// Controller returns the settings of the Q-learning controller.
func (c *Config) Controller() qlearn.Config {
	q := c.QLearning
	return qlearn.Config{
		LearningRate:     q.LearningRate,
		Regularization:   q.Regularization,
		Discount:         q.Discount,
		ReplayCapacity:   q.ReplayCapacity,
		MiniBatchSize:    q.MiniBatchSize,
		SkipTicks:        q.SkipTicks,
		Exploration:      q.Exploration,
		ExplorationFloor: q.ExplorationFloor,
		ExplorationDecay: q.ExplorationDecay,
		TerminalReward:   q.TerminalReward,
		Reward:           qlearn.LinearReward(q.SpeedReward),
	}
}

// Imitation returns the settings of the imitation learner. The learning rate is constant unless
// steps are given.
func (c *Config) Imitation() driver.ImitationConfig {
	t := c.Training

	var rate hyperparams.HyperParameter = hyperparams.Constant(t.LearningRate)
	if len(t.LearningRateSteps) != 0 {
		iters := make([]int, 0, len(t.LearningRateSteps))
		for iter := range t.LearningRateSteps {
			iters = append(iters, iter)
		}
		sort.Ints(iters)

		st := hyperparams.Step(t.LearningRate)
		for _, iter := range iters {
			st.Add(iter, t.LearningRateSteps[iter])
		}
		rate = st
	}

	return driver.ImitationConfig{
		LearningRate:      rate,
		Regularization:    t.Regularization,
		SampleCapacity:    t.SampleCapacity,
		EpochEvery:        t.EpochEvery,
		Epochs:            t.Epochs,
		BatchSize:         t.BatchSize,
		EpochLearningRate: t.EpochLearningRate,
	}
}
