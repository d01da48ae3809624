package driver

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/vuolleko/FormulaAI/ann"
	"github.com/vuolleko/FormulaAI/hyperparams"
)

// ImitationConfig holds the training settings of an Imitation policy.
type ImitationConfig struct {
	// LearningRate gives the rate of online training for each tick
	LearningRate   hyperparams.HyperParameter
	Regularization float64

	// SampleCapacity is the number of most recent samples kept for epoch training
	SampleCapacity int

	// EpochEvery is the number of ticks between background epoch jobs. 0 disables them.
	EpochEvery        int
	Epochs            int
	BatchSize         int
	EpochLearningRate float64
}

// Imitation is a Policy driven by a Network that learns to copy an expert Policy. On every tick
// the Network trains once on the expert's action; every EpochEvery ticks it is also trained over
// the stored samples in the background, and the result is adopted once it arrives.
//
// Adopting a background result discards the online training done while it ran.
type Imitation struct {
	net    *ann.Network
	expert Policy
	cfg    ImitationConfig
	log    logrus.FieldLogger

	iter int

	// ring of the most recent samples
	inputs, targets [][]float64
	next            int

	trainer ann.AsyncTrainer
	pending <-chan ann.EpochResult

	cost      float64
	epochCost float64
	adopted   int
}

// NewImitation creates an Imitation policy. A nil logger discards everything.
func NewImitation(net *ann.Network, expert Policy, cfg ImitationConfig, log logrus.FieldLogger) (*Imitation, error) {
	if net == nil || expert == nil {
		return nil, errors.Errorf("Network and expert must not be nil")
	} else if net.OutputSize() != NumActions {
		return nil, errors.WithStack(ann.SizeMismatchError{Expected: NumActions, Got: net.OutputSize(), Name: "network output"})
	} else if cfg.LearningRate == nil {
		return nil, errors.Errorf("Learning rate must not be nil")
	} else if cfg.EpochEvery < 0 {
		return nil, errors.Errorf("Epoch interval must be >= 0 (%d)", cfg.EpochEvery)
	} else if cfg.EpochEvery > 0 && (cfg.SampleCapacity < 1 || cfg.BatchSize < 1 || cfg.Epochs < 1) {
		return nil, errors.Errorf("Epoch training needs positive sample capacity, batch size and epochs")
	}

	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	return &Imitation{net: net, expert: expert, cfg: cfg, log: log}, nil
}

func (im *Imitation) DecideAction(in Sensors) ([]float64, error) {
	if err := im.poll(); err != nil {
		return nil, err
	}

	want, err := im.expert.DecideAction(in)
	if err != nil {
		return nil, errors.Wrapf(err, "Expert failed to decide")
	}

	out, err := im.net.Feedforward(in.Vector)
	if err != nil {
		return nil, err
	}

	if im.cost, err = ann.Cost(out, want); err != nil {
		return nil, err
	}

	if err = im.net.TrainOne(in.Vector, want, im.cfg.LearningRate.Value(im.iter), im.cfg.Regularization); err != nil {
		return nil, errors.Wrapf(err, "Online training failed")
	}
	im.iter++

	if im.cfg.EpochEvery > 0 {
		im.store(in.Vector, want)

		if im.iter%im.cfg.EpochEvery == 0 && im.pending == nil {
			if err = im.startEpochs(); err != nil {
				return nil, err
			}
		}
	}

	return Threshold(out, 0.5), nil
}

func (im *Imitation) store(input, target []float64) {
	input = append([]float64(nil), input...)
	if len(im.inputs) < im.cfg.SampleCapacity {
		im.inputs = append(im.inputs, input)
		im.targets = append(im.targets, target)
		return
	}

	im.inputs[im.next] = input
	im.targets[im.next] = target
	im.next = (im.next + 1) % im.cfg.SampleCapacity
}

func (im *Imitation) startEpochs() error {
	ch, err := im.trainer.Start(im.net, ann.EpochJob{
		Inputs:         im.inputs,
		Targets:        im.targets,
		LearningRate:   im.cfg.EpochLearningRate,
		Regularization: im.cfg.Regularization,
		Epochs:         im.cfg.Epochs,
		BatchSize:      im.cfg.BatchSize,
	})

	// the last job has sent its result but not yet finished
	if errors.Cause(err) == ann.ErrTrainingInFlight {
		return nil
	} else if err != nil {
		return err
	}

	im.pending = ch
	im.log.WithField("samples", len(im.inputs)).Debug("Started epoch training")
	return nil
}

// poll adopts the result of background training, if there is one
func (im *Imitation) poll() error {
	if im.pending == nil {
		return nil
	}

	select {
	case res, ok := <-im.pending:
		im.pending = nil
		if !ok {
			return nil
		} else if res.Err != nil {
			return errors.Wrapf(res.Err, "Epoch training failed")
		}

		if err := im.net.Adopt(res.Network); err != nil {
			return err
		}

		im.epochCost = res.Cost
		im.adopted++
		im.log.WithField("cost", res.Cost).Debug("Adopted epoch training")
	default:
	}

	return nil
}

// Cost returns the cost of the network's output against the expert's action on the last tick.
func (im *Imitation) Cost() float64 {
	return im.cost
}

// EpochCost returns the mean cost reported by the last adopted background job, and the number of
// jobs adopted so far.
func (im *Imitation) EpochCost() (float64, int) {
	return im.epochCost, im.adopted
}

// Close waits for any background training to finish.
func (im *Imitation) Close() error {
	return im.trainer.Wait()
}
