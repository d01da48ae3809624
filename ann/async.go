package ann

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/sourcegraph/conc"
)

// EpochJob holds the arguments of a TrainEpochs call to be run in the background.
type EpochJob struct {
	Inputs, Targets [][]float64

	LearningRate   float64
	Regularization float64
	Epochs         int
	BatchSize      int
}

// EpochResult is sent back once a background job has finished. Network is the trained clone; it
// should be handed to Adopt by the owner of the original Network. Cost is the mean cost of the
// clone over the job's samples after training.
type EpochResult struct {
	Network *Network
	Cost    float64
	Err     error
}

// AsyncTrainer runs TrainEpochs away from the calling goroutine, with at most one job in flight
// at any time. The job works on a clone, so the original Network may keep being used (and trained)
// while it runs.
//
// The zero value is ready to use.
type AsyncTrainer struct {
	mux  sync.Mutex
	busy bool
	wg   *conc.WaitGroup
}

// Start clones the Network and begins training the clone. The returned channel receives exactly
// one EpochResult and is then closed. If a job is already running, ErrTrainingInFlight is
// returned.
//
// The sample slices in the job are copied (shallowly), so the caller may keep appending to its
// own.
func (t *AsyncTrainer) Start(net *Network, job EpochJob) (<-chan EpochResult, error) {
	t.mux.Lock()
	defer t.mux.Unlock()

	if t.busy {
		return nil, errors.WithStack(ErrTrainingInFlight)
	}

	clone := net.Clone()
	inputs := append([][]float64(nil), job.Inputs...)
	targets := append([][]float64(nil), job.Targets...)

	results := make(chan EpochResult, 1)
	t.busy = true
	t.wg = conc.NewWaitGroup()
	t.wg.Go(func() {
		defer t.release()
		defer close(results)

		res := EpochResult{Network: clone}
		res.Err = clone.TrainEpochs(inputs, targets, job.LearningRate, job.Regularization, job.Epochs, job.BatchSize)
		if res.Err == nil {
			res.Cost, res.Err = clone.MeanCost(inputs, targets)
		}

		results <- res
	})

	return results, nil
}

func (t *AsyncTrainer) release() {
	t.mux.Lock()
	t.busy = false
	t.mux.Unlock()
}

// Busy returns whether or not a job is currently running.
func (t *AsyncTrainer) Busy() bool {
	t.mux.Lock()
	defer t.mux.Unlock()
	return t.busy
}

// Wait blocks until the most recently started job has finished. If the job panicked, the panic is
// returned as an error.
func (t *AsyncTrainer) Wait() error {
	t.mux.Lock()
	wg := t.wg
	t.mux.Unlock()

	if wg == nil {
		return nil
	}

	if r := wg.WaitAndRecover(); r != nil {
		return errors.Wrapf(r.AsError(), "Background training panicked")
	}

	return nil
}
