package initializers

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// fanMode is the size of the layer that the variance is scaled by
type fanMode int8

const (
	fanAvg fanMode = iota
	fanIn
	fanOut
)

type varianceScaling struct {
	mode   fanMode
	factor float64
}

// VarianceScaling returns an Initializer that draws weights from a normal distribution truncated
// at 2 standard deviations, with a variance of factor/fan. The fan is the number of inputs (In),
// outputs (Out) or their average (Avg, the default); the factor defaults to 1. Biases start at
// zero.
func VarianceScaling() *varianceScaling {
	return &varianceScaling{mode: fanAvg, factor: 1}
}

func (v *varianceScaling) Factor(f float64) *varianceScaling {
	v.factor = f
	return v
}

func (v *varianceScaling) In() *varianceScaling {
	v.mode = fanIn
	return v
}

func (v *varianceScaling) Out() *varianceScaling {
	v.mode = fanOut
	return v
}

func (v *varianceScaling) Avg() *varianceScaling {
	v.mode = fanAvg
	return v
}

func (v *varianceScaling) fan(inputs, outputs int) float64 {
	switch v.mode {
	case fanIn:
		return float64(inputs)
	case fanOut:
		return float64(outputs)
	default:
		return float64(inputs+outputs) / 2
	}
}

func (v *varianceScaling) Set(rng *rand.Rand, w *mat.Dense) {
	rows, cols := w.Dims()
	gen := TruncNormal().SD(math.Sqrt(v.factor / v.fan(cols-1, rows)))

	for i := 0; i < rows; i++ {
		w.Set(i, 0, 0)
		for j := 1; j < cols; j++ {
			w.Set(i, j, gen.Gen(rng))
		}
	}
}
