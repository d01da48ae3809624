// Package qlearn provides a Q-learning controller that uses an ann.Network to approximate the
// value of each action, trained from a replay buffer of past transitions.
package qlearn

import (
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/vuolleko/FormulaAI/ann"
)

// Phase is the step of the control cycle a Controller is in.
type Phase int8

const (
	// Idle is the phase between controlled ticks
	Idle Phase = iota
	Observing
	Updating
	Acting
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Observing:
		return "observing"
	case Updating:
		return "updating"
	case Acting:
		return "acting"
	default:
		return "unknown"
	}
}

// Feedback carries the signals from the simulation that the reward is computed from.
type Feedback struct {
	// Speed is the current forward speed of the car
	Speed float64

	// Reset is whether the car was put back to the start on this tick
	Reset bool
}

// Stats is a snapshot of the state of a Controller.
type Stats struct {
	Phase       Phase
	Exploration float64
	ReplayLen   int

	// QValues are the values of each action in the last observation acted upon
	QValues []float64

	// TDError is the mean squared error between the values and the targets of the last update,
	// before the update was applied
	TDError float64

	// Ticks counts every call to Tick, Steps the controlled ones, Terminals the transitions
	// that ended with a reset.
	Ticks     int
	Steps     int
	Terminals int
}

// Controller picks actions with an epsilon-greedy policy over the values given by a Network, and
// trains the Network towards the Q-learning targets of a random sample of past transitions.
//
// A Controller is not safe for concurrent use.
type Controller struct {
	net    *ann.Network
	cfg    Config
	replay *Replay
	rng    *rand.Rand
	log    logrus.FieldLogger

	phase       Phase
	exploration float64

	// the observation and action of the last controlled tick; prev is nil before the first
	prev   []float64
	action int

	qvalues []float64
	tdError float64

	// set by any reset since the last controlled tick
	resetLatched bool

	ticks, steps, terminals int
}

// ControllerOption configures a Controller while it is being created by New.
type ControllerOption func(*Controller)

// WithRand sets the source of randomness for replay sampling and exploration.
func WithRand(rng *rand.Rand) ControllerOption {
	return func(c *Controller) {
		c.rng = rng
	}
}

// WithLogger sets the logger that terminal transitions are reported to, at debug level. By
// default nothing is logged.
func WithLogger(log logrus.FieldLogger) ControllerOption {
	return func(c *Controller) {
		c.log = log
	}
}

// New creates a Controller around the Network. The output layer of the Network gives one value
// per action. The Controller trains the Network in place; it should not be trained elsewhere.
func New(net *ann.Network, cfg Config, opts ...ControllerOption) (*Controller, error) {
	if net == nil {
		return nil, errors.Errorf("Network must not be nil")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "Invalid Q-learning configuration")
	}

	c := &Controller{
		net:         net,
		cfg:         cfg,
		replay:      NewReplay(cfg.ReplayCapacity),
		exploration: cfg.Exploration,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	if c.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		c.log = l
	}

	return c, nil
}

// NumActions returns the number of actions the Controller chooses between.
func (c *Controller) NumActions() int {
	return c.net.OutputSize()
}

// Tick advances the Controller by one simulation tick and returns the action to apply, as a
// one-hot vector.
//
// Only every SkipTicks-th tick is controlled, starting with the first. Other ticks return the
// last action unchanged, but a reset on any of them is remembered, so the next controlled tick
// treats its transition as terminal.
//
// A controlled tick stores the transition since the last controlled tick, trains the Network on a
// sample of stored transitions and chooses a new action from obs.
func (c *Controller) Tick(obs []float64, fb Feedback) ([]float64, error) {
	if len(obs) != c.net.InputSize() {
		return nil, errors.WithStack(ann.SizeMismatchError{Expected: c.net.InputSize(), Got: len(obs), Name: "observation"})
	}

	c.ticks++
	if fb.Reset {
		c.resetLatched = true
	}

	if (c.ticks-1)%c.cfg.SkipTicks != 0 {
		c.phase = Idle
		return OneHot(c.action, c.NumActions()), nil
	}

	obs = append([]float64(nil), obs...)

	c.phase = Observing
	c.observe(obs, fb)

	c.phase = Updating
	if err := c.update(); err != nil {
		return nil, err
	}

	c.phase = Acting
	if err := c.act(obs, fb); err != nil {
		return nil, err
	}

	c.steps++
	return OneHot(c.action, c.NumActions()), nil
}

func (c *Controller) observe(obs []float64, fb Feedback) {
	terminal := c.resetLatched
	c.resetLatched = false

	if c.prev == nil {
		return
	}

	reward := c.cfg.Reward(fb.Speed)
	if terminal {
		reward = c.cfg.TerminalReward
		c.terminals++

		c.log.WithFields(logrus.Fields{
			"tick":        c.ticks,
			"action":      c.action,
			"reward":      reward,
			"exploration": c.exploration,
		}).Debug("Terminal transition")
	}

	c.replay.Push(Experience{Prev: c.prev, Action: c.action, Next: obs, Reward: reward})
}

func (c *Controller) update() error {
	sample := c.replay.Sample(c.rng, c.cfg.MiniBatchSize)
	if len(sample) == 0 {
		return nil
	}

	inputs := make([][]float64, len(sample))
	targets := make([][]float64, len(sample))
	var tdSum float64

	for i, e := range sample {
		q, err := c.net.Feedforward(e.Prev)
		if err != nil {
			return errors.Wrapf(err, "Evaluating stored transition %d failed", i)
		}

		t, err := c.target(e, q)
		if err != nil {
			return err
		}

		se, err := ann.SquaredError(q, t)
		if err != nil {
			return err
		}

		inputs[i], targets[i] = e.Prev, t
		tdSum += se
	}

	c.tdError = tdSum / float64(len(sample))

	if err := c.net.TrainMiniBatch(inputs, targets, c.cfg.LearningRate, c.cfg.Regularization); err != nil {
		return errors.Wrapf(err, "Training on replay sample failed")
	}

	return nil
}

// Target returns the training target for a stored transition: the current values of the
// previous observation, with the value of the taken action replaced. A terminal transition
// (one whose reward equals TerminalReward) gets its reward as the value; any other gets the
// reward plus the discounted best value of the next observation.
func (c *Controller) Target(e Experience) ([]float64, error) {
	q, err := c.net.Feedforward(e.Prev)
	if err != nil {
		return nil, err
	}

	return c.target(e, q)
}

// target takes ownership of q
func (c *Controller) target(e Experience, q []float64) ([]float64, error) {
	if e.Action < 0 || e.Action >= len(q) {
		return nil, errors.Errorf("Action %d out of range [0, %d)", e.Action, len(q))
	}

	t := append([]float64(nil), q...)
	if e.Reward == c.cfg.TerminalReward {
		t[e.Action] = e.Reward
		return t, nil
	}

	next, err := c.net.Feedforward(e.Next)
	if err != nil {
		return nil, errors.Wrapf(err, "Evaluating next observation failed")
	}

	t[e.Action] = e.Reward + c.cfg.Discount*floats.Max(next)
	return t, nil
}

func (c *Controller) act(obs []float64, fb Feedback) error {
	q, err := c.net.Feedforward(obs)
	if err != nil {
		return err
	}
	c.qvalues = q

	if c.rng.Float64() < c.exploration {
		c.action = c.rng.Intn(len(q))
	} else {
		// MaxIdx returns the lowest index among equal maxima
		c.action = floats.MaxIdx(q)
	}

	if fb.Speed > 0 {
		c.exploration = math.Max(c.cfg.ExplorationFloor, c.exploration*c.cfg.ExplorationDecay)
	}

	c.prev = obs
	return nil
}

// Stats returns a snapshot of the state of the Controller.
func (c *Controller) Stats() Stats {
	return Stats{
		Phase:       c.phase,
		Exploration: c.exploration,
		ReplayLen:   c.replay.Len(),
		QValues:     append([]float64(nil), c.qvalues...),
		TDError:     c.tdError,
		Ticks:       c.ticks,
		Steps:       c.steps,
		Terminals:   c.terminals,
	}
}

// OneHot returns a vector of length n that is 1 at index i and 0 elsewhere.
func OneHot(i, n int) []float64 {
	v := make([]float64, n)
	if i >= 0 && i < n {
		v[i] = 1
	}
	return v
}
