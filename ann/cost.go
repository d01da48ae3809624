package ann

import (
	"math"

	"github.com/pkg/errors"
)

// Cost is the cross-entropy cost of the outputs, given target values in [0, 1]:
//
//		Σ -t·ln(o) - (1-t)·ln(1-o)
//
// Terms that come out as NaN (a saturated output of exactly 0 or 1 multiplied by a zero target
// factor) count as zero, and infinite terms are clamped to the largest float64, so that the cost
// stays finite even for saturated units.
func Cost(outputs, targets []float64) (float64, error) {
	if len(outputs) != len(targets) {
		return 0, errors.WithStack(SizeMismatchError{len(outputs), len(targets), "targets"})
	}

	var sum float64
	for i := range outputs {
		sum += finite(-targets[i]*math.Log(outputs[i]) - (1-targets[i])*math.Log(1-outputs[i]))
	}

	return finite(sum), nil
}

func finite(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	}

	return v
}

// SquaredError is the mean of the squared differences between the values and their targets.
func SquaredError(values, targets []float64) (float64, error) {
	if len(values) != len(targets) {
		return 0, errors.Errorf("Can't get squared error, len(values) != len(targets) (%d != %d)", len(values), len(targets))
	} else if len(values) == 0 {
		return 0, nil
	}

	var totalErr float64
	for i := range values {
		d := values[i] - targets[i]
		totalErr += d * d
	}

	return totalErr / float64(len(values)), nil
}
