package qlearn

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"

	"github.com/vuolleko/FormulaAI/ann"
)

// biasInit zeroes every weight and sets the biases of the output layer
type biasInit []float64

func (b biasInit) Set(_ *rand.Rand, w *mat.Dense) {
	w.Zero()

	r, _ := w.Dims()
	if r == len(b) {
		for i, v := range b {
			w.Set(i, 0, v)
		}
	}
}

func testNet(t *testing.T, seed int64, init ann.Initializer, sizes ...int) *ann.Network {
	t.Helper()

	opts := []ann.Option{ann.WithRand(rand.New(rand.NewSource(seed)))}
	if init != nil {
		opts = append(opts, ann.WithInitializer(init))
	}

	net, err := ann.New(sizes, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return net
}

func testController(t *testing.T, net *ann.Network, cfg Config) *Controller {
	t.Helper()

	c, err := New(net, cfg, WithRand(rand.New(rand.NewSource(17))))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func greedy() Config {
	cfg := DefaultConfig()
	cfg.Exploration = 0
	cfg.ExplorationFloor = 0
	cfg.SkipTicks = 1
	return cfg
}

func TestTargetTerminalDoesNotBootstrap(t *testing.T) {
	net := testNet(t, 1, nil, 3, 5, 4)
	cfg := DefaultConfig()
	c := testController(t, net, cfg)

	prev := []float64{0.2, 0.4, 0.6}
	next := []float64{0.9, 0.1, 0.5}

	q, err := net.Feedforward(prev)
	if err != nil {
		t.Fatal(err)
	}
	qNext, err := net.Feedforward(next)
	if err != nil {
		t.Fatal(err)
	}

	target, err := c.Target(Experience{Prev: prev, Action: 1, Next: next, Reward: cfg.TerminalReward})
	if err != nil {
		t.Fatal(err)
	}

	if target[1] != cfg.TerminalReward {
		t.Errorf("terminal target = %v, want %v", target[1], cfg.TerminalReward)
	}
	for i := range q {
		if i != 1 && target[i] != q[i] {
			t.Errorf("target[%d] = %v, want unchanged value %v", i, target[i], q[i])
		}
	}

	target, err = c.Target(Experience{Prev: prev, Action: 3, Next: next, Reward: 0.5})
	if err != nil {
		t.Fatal(err)
	}

	want := 0.5 + cfg.Discount*floats.Max(qNext)
	if !scalar.EqualWithinAbs(target[3], want, 1e-12) {
		t.Errorf("bootstrapped target = %v, want %v", target[3], want)
	}

	if _, err = c.Target(Experience{Prev: prev, Action: 4, Next: next}); err == nil {
		t.Error("expected an error for an action out of range")
	}
}

func TestFirstTickDoesNotTrain(t *testing.T) {
	net := testNet(t, 2, nil, 3, 4, 4)
	c := testController(t, net, greedy())

	before := []*mat.Dense{net.Weights(0), net.Weights(1)}

	action, err := c.Tick([]float64{0.1, 0.2, 0.3}, Feedback{Speed: 1})
	if err != nil {
		t.Fatal(err)
	}

	if len(action) != 4 || floats.Sum(action) != 1 {
		t.Errorf("action is not one-hot: %v", action)
	}

	for l, w := range before {
		if !mat.Equal(w, net.Weights(l)) {
			t.Errorf("first tick changed the weights of layer %d", l)
		}
	}

	s := c.Stats()
	if s.ReplayLen != 0 || s.Steps != 1 || s.Ticks != 1 {
		t.Errorf("unexpected stats after first tick: %+v", s)
	}
	if s.Phase != Acting {
		t.Errorf("phase = %v, want %v", s.Phase, Acting)
	}
}

func TestArgmaxTiesGoToLowestIndex(t *testing.T) {
	cases := []struct {
		biases []float64
		want   int
	}{
		{[]float64{0, 0, 0, 0}, 0},
		{[]float64{-1, 3, 3, 3}, 1},
		{[]float64{0, 0, 5, 0}, 2},
		{[]float64{-2, -2, -2, -1}, 3},
	}

	for _, tc := range cases {
		net := testNet(t, 3, biasInit(tc.biases), 3, 4)
		c := testController(t, net, greedy())

		action, err := c.Tick([]float64{1, 1, 1}, Feedback{})
		if err != nil {
			t.Fatal(err)
		}

		if got := floats.MaxIdx(action); got != tc.want || action[got] != 1 {
			t.Errorf("biases %v: chose %v, want action %d", tc.biases, action, tc.want)
		}
	}
}

func TestExplorationDecay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SkipTicks = 1
	cfg.Exploration = 1
	cfg.ExplorationFloor = 0.2
	cfg.ExplorationDecay = 0.9
	cfg.MiniBatchSize = 4

	c := testController(t, testNet(t, 4, nil, 2, 3, 4), cfg)
	rng := rand.New(rand.NewSource(5))
	obs := func() []float64 { return []float64{rng.Float64(), rng.Float64()} }

	prev := c.Stats().Exploration
	for i := 0; i < 5; i++ {
		if _, err := c.Tick(obs(), Feedback{Speed: 0}); err != nil {
			t.Fatal(err)
		}
		if e := c.Stats().Exploration; e != prev {
			t.Fatalf("exploration changed while stationary: %v -> %v", prev, e)
		}
	}

	for i := 0; i < 100; i++ {
		if _, err := c.Tick(obs(), Feedback{Speed: 1 + rng.Float64()}); err != nil {
			t.Fatal(err)
		}

		e := c.Stats().Exploration
		if e > prev {
			t.Fatalf("tick %d: exploration increased: %v -> %v", i, prev, e)
		} else if e < cfg.ExplorationFloor {
			t.Fatalf("tick %d: exploration %v below floor %v", i, e, cfg.ExplorationFloor)
		}
		prev = e
	}

	if prev != cfg.ExplorationFloor {
		t.Errorf("exploration should have reached the floor, is %v", prev)
	}
}

func TestSkipTicksAndResetLatch(t *testing.T) {
	cfg := greedy()
	cfg.SkipTicks = 3
	cfg.Reward = LinearReward(0.5)

	c := testController(t, testNet(t, 6, nil, 2, 3, 4), cfg)
	obs := []float64{0.3, 0.7}

	first, err := c.Tick(obs, Feedback{Speed: 1})
	if err != nil {
		t.Fatal(err)
	}

	// the reset happens on a tick that is not controlled
	for _, fb := range []Feedback{{Speed: 0, Reset: true}, {Speed: 1}} {
		action, err := c.Tick(obs, fb)
		if err != nil {
			t.Fatal(err)
		}
		if !floats.Equal(action, first) {
			t.Errorf("skipped tick changed the action: %v -> %v", first, action)
		}
		if c.Stats().Phase != Idle {
			t.Errorf("phase on skipped tick = %v, want %v", c.Stats().Phase, Idle)
		}
	}

	if c.replay.Len() != 0 {
		t.Fatalf("skipped ticks stored %d records", c.replay.Len())
	}

	if _, err = c.Tick(obs, Feedback{Speed: 1}); err != nil {
		t.Fatal(err)
	}

	if c.replay.Len() != 1 {
		t.Fatalf("controlled tick stored %d records, want 1", c.replay.Len())
	}
	if r := c.replay.At(0).Reward; r != cfg.TerminalReward {
		t.Errorf("reward after latched reset = %v, want %v", r, cfg.TerminalReward)
	}

	for i := 0; i < 3; i++ {
		if _, err = c.Tick(obs, Feedback{Speed: 2}); err != nil {
			t.Fatal(err)
		}
	}

	if r := c.replay.At(1).Reward; r != 1 {
		t.Errorf("reward without reset = %v, want 1", r)
	}

	s := c.Stats()
	if s.Ticks != 7 || s.Steps != 3 || s.Terminals != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
}

func TestTickRejectsBadObservation(t *testing.T) {
	c := testController(t, testNet(t, 7, nil, 3, 4), greedy())

	_, err := c.Tick([]float64{1, 2}, Feedback{})
	if _, ok := errors.Cause(err).(ann.SizeMismatchError); !ok {
		t.Errorf("expected SizeMismatchError, got %v", err)
	}
	if c.Stats().Ticks != 0 {
		t.Error("rejected observation counted as a tick")
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	net := testNet(t, 8, nil, 2, 2)

	bad := []func(*Config){
		func(c *Config) { c.LearningRate = 0 },
		func(c *Config) { c.Discount = 1.5 },
		func(c *Config) { c.ReplayCapacity = 0 },
		func(c *Config) { c.MiniBatchSize = 0 },
		func(c *Config) { c.SkipTicks = 0 },
		func(c *Config) { c.ExplorationFloor = 2 },
		func(c *Config) { c.ExplorationDecay = 0 },
		func(c *Config) { c.Reward = nil },
	}

	for i, modify := range bad {
		cfg := DefaultConfig()
		modify(&cfg)

		if _, err := New(net, cfg); err == nil {
			t.Errorf("config %d should have been rejected", i)
		}
	}

	if _, err := New(nil, DefaultConfig()); err == nil {
		t.Error("nil Network should have been rejected")
	}
}

func TestTrainingReducesTDError(t *testing.T) {
	cfg := greedy()
	cfg.LearningRate = 1
	cfg.MiniBatchSize = 8

	net := testNet(t, 9, nil, 2, 4, 4)
	c := testController(t, net, cfg)
	obs := []float64{0.5, 0.5}

	// every transition is terminal, so the targets do not move
	var first float64
	for i := 0; i < 200; i++ {
		if _, err := c.Tick(obs, Feedback{Reset: true, Speed: 1}); err != nil {
			t.Fatal(err)
		}
		if i == 1 {
			first = c.Stats().TDError
		}
	}

	if last := c.Stats().TDError; last >= first {
		t.Errorf("TD error did not decrease: %v -> %v", first, last)
	}
}
