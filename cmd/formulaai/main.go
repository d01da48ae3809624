// Command formulaai races three cars on a generated ring track, without rendering: a scripted
// driver, a network that learns to imitate it, and a network that learns by Q-learning.
package main

import (
	"context"
	"flag"
	"math/rand"
	"net/http"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vuolleko/FormulaAI/ann"
	"github.com/vuolleko/FormulaAI/config"
	"github.com/vuolleko/FormulaAI/driver"
	"github.com/vuolleko/FormulaAI/internal/sim"
	"github.com/vuolleko/FormulaAI/metrics"
	"github.com/vuolleko/FormulaAI/qlearn"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	envPath := flag.String("env", "", ".env file with FORMULAAI_* overrides")
	ticks := flag.Int("ticks", 20000, "number of ticks to simulate")
	status := flag.Int("status", 1000, "ticks between status logs")
	metricsAddr := flag.String("metrics", "", "address to serve Prometheus metrics on, e.g. :9100")
	verbose := flag.Bool("v", false, "log at debug level")
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	logger := log.WithField("run", uuid.New().String())

	if err := checkFlags(*ticks, *status); err != nil {
		logger.WithError(err).Fatal("Invalid flags")
	}

	cfg, err := loadConfig(*configPath, *envPath)
	if err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	reg := prometheus.NewRegistry()
	rec, err := metrics.NewRecorder(reg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to set up metrics")
	}

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

			logger.WithField("addr", *metricsAddr).Info("Serving metrics")
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.WithError(err).Error("Metrics server stopped")
			}
		}()
	}

	r, err := newRace(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to set up race")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.WithFields(log.Fields{"ticks": *ticks, "cars": len(r.entrants)}).Info("Starting race")

	for tick := 1; tick <= *ticks && ctx.Err() == nil; tick++ {
		if err = r.step(rec); err != nil {
			logger.WithError(err).WithField("tick", tick).Fatal("Race failed")
		}

		if tick%*status == 0 {
			r.logStatus(logger.WithField("tick", tick))
		}
	}

	if err = r.close(); err != nil {
		logger.WithError(err).Error("Background training failed")
	}

	r.logStatus(logger.WithField("final", true))
	logger.Info("Done!")
}

func checkFlags(ticks, status int) error {
	if ticks < 0 {
		return errors.Errorf("-ticks must be >= 0 (%d)", ticks)
	} else if status < 1 {
		return errors.Errorf("-status must be >= 1 (%d)", status)
	}

	return nil
}

func loadConfig(path, envPath string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(envPath); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

type entrant struct {
	car    *sim.Car
	policy driver.Policy
}

type race struct {
	track    *sim.Track
	viewer   *sim.Viewer
	encoder  *driver.Encoder
	entrants []entrant

	imitation *driver.Imitation
}

func newRace(cfg *config.Config, logger log.FieldLogger) (*race, error) {
	s := cfg.Simulation

	track, err := sim.NewRing(s.Width, s.Height, s.TrackWidth)
	if err != nil {
		return nil, err
	}

	enc, err := driver.NewEncoder(s.MaxSpeed, cfg.View.Angles, cfg.View.Distances)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(s.Seed))
	newNet := func() (*ann.Network, error) {
		return ann.New(cfg.LayerSizes(enc.Size()), ann.WithRand(rand.New(rand.NewSource(rng.Int63()))))
	}

	scripted := &driver.Scripted{Encoder: enc, CruiseSpeed: s.CruiseSpeed}

	annNet, err := newNet()
	if err != nil {
		return nil, err
	}
	imitation, err := driver.NewImitation(annNet, scripted, cfg.Imitation(), logger.WithField("car", "ANN"))
	if err != nil {
		return nil, err
	}

	qNet, err := newNet()
	if err != nil {
		return nil, err
	}
	ctrl, err := qlearn.New(qNet, cfg.Controller(),
		qlearn.WithRand(rand.New(rand.NewSource(rng.Int63()))),
		qlearn.WithLogger(logger.WithField("car", "Q")))
	if err != nil {
		return nil, err
	}

	kin := sim.Kinematics{
		Acceleration: s.Acceleration,
		Braking:      s.Braking,
		TurnSpeed:    s.TurnSpeed,
		MaxSpeed:     s.MaxSpeed,
	}

	policies := []struct {
		name   string
		policy driver.Policy
	}{
		{"AI", scripted},
		{"ANN", imitation},
		{"Q", &driver.QLearner{Controller: ctrl}},
	}

	xs, ys, dir := track.Start(len(policies))
	r := &race{
		track:     track,
		viewer:    sim.NewViewer(cfg.View.Angle, cfg.View.Angles, cfg.View.MinDistance, cfg.View.Distance, cfg.View.Distances),
		encoder:   enc,
		imitation: imitation,
	}

	for i, p := range policies {
		r.entrants = append(r.entrants, entrant{
			car:    sim.NewCar(p.name, xs[i], ys[i], dir, kin),
			policy: p.policy,
		})
	}

	return r, nil
}

// step runs one tick for every car
func (r *race) step(rec *metrics.Recorder) error {
	for _, e := range r.entrants {
		obs, err := r.encoder.Encode(e.car.Speed, r.viewer.Look(r.track, e.car))
		if err != nil {
			return err
		}

		action, err := e.policy.DecideAction(driver.Sensors{Vector: obs, Speed: e.car.Speed, Reset: e.car.JustReset})
		if err != nil {
			return err
		}

		e.car.Apply(driver.Decode(action))
		e.car.Update(r.track)

		rec.Tick(e.car.Name, e.car.Distance)
		if e.car.JustReset {
			rec.Crash(e.car.Name)
		}

		switch p := e.policy.(type) {
		case *driver.QLearner:
			rec.Controller(e.car.Name, p.Stats())
		case *driver.Imitation:
			rec.SupervisedCost(e.car.Name, p.Cost())
		}
	}

	return nil
}

func (r *race) logStatus(logger log.FieldLogger) {
	for _, e := range r.entrants {
		fields := log.Fields{
			"car":      e.car.Name,
			"distance": e.car.Distance,
			"crashes":  e.car.Crashes,
			"speed":    e.car.Speed,
		}

		switch p := e.policy.(type) {
		case *driver.QLearner:
			s := p.Stats()
			fields["exploration"] = s.Exploration
			fields["td_error"] = s.TDError
			fields["replay"] = s.ReplayLen
		case *driver.Imitation:
			fields["cost"] = p.Cost()
			cost, n := p.EpochCost()
			fields["epoch_cost"] = cost
			fields["epoch_jobs"] = n
		}

		logger.WithFields(fields).Info("Status")
	}
}

func (r *race) close() error {
	return r.imitation.Close()
}
