package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// EnvPrefix starts the name of every environment variable read by ApplyEnv
const EnvPrefix = "FORMULAAI_"

// envFields maps the names of environment variables, without EnvPrefix, to the setting they
// override. Every value is an *int, *int64 or *float64.
func (c *Config) envFields() map[string]interface{} {
	return map[string]interface{}{
		"TRAINING_LEARNING_RATE":      &c.Training.LearningRate,
		"TRAINING_REGULARIZATION":     &c.Training.Regularization,
		"TRAINING_EPOCH_EVERY":        &c.Training.EpochEvery,
		"TRAINING_EPOCHS":             &c.Training.Epochs,
		"TRAINING_BATCH_SIZE":         &c.Training.BatchSize,
		"QLEARNING_LEARNING_RATE":     &c.QLearning.LearningRate,
		"QLEARNING_DISCOUNT":          &c.QLearning.Discount,
		"QLEARNING_REPLAY_CAPACITY":   &c.QLearning.ReplayCapacity,
		"QLEARNING_MINI_BATCH_SIZE":   &c.QLearning.MiniBatchSize,
		"QLEARNING_SKIP_TICKS":        &c.QLearning.SkipTicks,
		"QLEARNING_EXPLORATION":       &c.QLearning.Exploration,
		"QLEARNING_EXPLORATION_FLOOR": &c.QLearning.ExplorationFloor,
		"QLEARNING_EXPLORATION_DECAY": &c.QLearning.ExplorationDecay,
		"QLEARNING_TERMINAL_REWARD":   &c.QLearning.TerminalReward,
		"QLEARNING_SPEED_REWARD":      &c.QLearning.SpeedReward,
		"VIEW_ANGLES":                 &c.View.Angles,
		"VIEW_DISTANCES":              &c.View.Distances,
		"SIMULATION_MAX_SPEED":        &c.Simulation.MaxSpeed,
		"SIMULATION_CRUISE_SPEED":     &c.Simulation.CruiseSpeed,
		"SIMULATION_SEED":             &c.Simulation.Seed,
	}
}

// ApplyEnv overrides settings from FORMULAAI_* variables. They are read from envFile, if it is not
// empty, and from the environment of the process, which takes precedence.
func (c *Config) ApplyEnv(envFile string) error {
	values := make(map[string]string)
	if envFile != "" {
		var err error
		if values, err = godotenv.Read(envFile); err != nil {
			return errors.Wrapf(err, "Failed to read env file %q", envFile)
		}
	}

	for name, field := range c.envFields() {
		key := EnvPrefix + name

		s, ok := os.LookupEnv(key)
		if !ok {
			if s, ok = values[key]; !ok {
				continue
			}
		}

		if err := setField(field, s); err != nil {
			return errors.Wrapf(err, "Invalid value for %s", key)
		}
	}

	return nil
}

func setField(field interface{}, s string) error {
	switch f := field.(type) {
	case *int:
		v, err := strconv.Atoi(s)
		if err != nil {
			return errors.WithStack(err)
		}
		*f = v
	case *int64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return errors.WithStack(err)
		}
		*f = v
	case *float64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return errors.WithStack(err)
		}
		*f = v
	default:
		return errors.Errorf("Unsupported setting type %T", field)
	}

	return nil
}
