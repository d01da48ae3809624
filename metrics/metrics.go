// Package metrics exports the progress of the cars and their learners as Prometheus metrics.
package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vuolleko/FormulaAI/qlearn"
)

const namespace = "formulaai"

// Recorder holds the collectors of one race. Every metric is labelled by the name of the car.
type Recorder struct {
	ticks       *prometheus.CounterVec
	crashes     *prometheus.CounterVec
	exploration *prometheus.GaugeVec
	replaySize  *prometheus.GaugeVec
	tdError     *prometheus.GaugeVec
	cost        *prometheus.GaugeVec
	distance    *prometheus.GaugeVec
}

// NewRecorder creates a Recorder and registers its collectors with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	labels := []string{"car"}

	r := &Recorder{
		ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Number of simulation ticks driven.",
		}, labels),
		crashes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crashes_total",
			Help:      "Number of times the car left the track and was reset.",
		}, labels),
		exploration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "exploration_rate",
			Help:      "Probability of a random action of a Q-learning car.",
		}, labels),
		replaySize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "replay_size",
			Help:      "Number of transitions in the replay buffer of a Q-learning car.",
		}, labels),
		tdError: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "td_error",
			Help:      "Mean squared error between values and targets of the last replay update.",
		}, labels),
		cost: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "supervised_cost",
			Help:      "Cross-entropy cost of an imitating car against its expert on the last tick.",
		}, labels),
		distance: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "distance",
			Help:      "Distance driven by the car since the start.",
		}, labels),
	}

	for _, c := range []prometheus.Collector{r.ticks, r.crashes, r.exploration, r.replaySize, r.tdError, r.cost, r.distance} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrapf(err, "Failed to register metrics")
		}
	}

	return r, nil
}

// Tick records one tick of the car and the distance it has driven so far.
func (r *Recorder) Tick(car string, distance float64) {
	r.ticks.WithLabelValues(car).Inc()
	r.distance.WithLabelValues(car).Set(distance)
}

func (r *Recorder) Crash(car string) {
	r.crashes.WithLabelValues(car).Inc()
}

// Controller records the state of a Q-learning controller.
func (r *Recorder) Controller(car string, s qlearn.Stats) {
	r.exploration.WithLabelValues(car).Set(s.Exploration)
	r.replaySize.WithLabelValues(car).Set(float64(s.ReplayLen))
	r.tdError.WithLabelValues(car).Set(s.TDError)
}

func (r *Recorder) SupervisedCost(car string, cost float64) {
	r.cost.WithLabelValues(car).Set(cost)
}
