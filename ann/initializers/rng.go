package initializers

import "math/rand"

// RNG is a distribution that weights are drawn from. All randomness comes from the source given
// to Gen.
type RNG interface {
	Gen(rng *rand.Rand) float64
}

type uniformRNG struct {
	lower, upper float64
}

// UniformRNG returns an RNG over [-1, 1). The bounds may be changed with Bounds.
func UniformRNG() *uniformRNG {
	return &uniformRNG{-1, 1}
}

func (u *uniformRNG) Bounds(lower, upper float64) *uniformRNG {
	u.lower, u.upper = lower, upper
	return u
}

func (u *uniformRNG) Gen(rng *rand.Rand) float64 {
	return u.lower + rng.Float64()*(u.upper-u.lower)
}

type normal struct {
	mean, sd float64
}

// Normal returns an RNG with a normal distribution, by default the standard one.
func Normal() *normal {
	return &normal{mean: 0, sd: 1}
}

func (n *normal) SD(sd float64) *normal {
	n.sd = sd
	return n
}

func (n *normal) Mean(mean float64) *normal {
	n.mean = mean
	return n
}

func (n *normal) Gen(rng *rand.Rand) float64 {
	return n.mean + n.sd*rng.NormFloat64()
}

// truncNormal redraws any value further than 'trunc' standard deviations from the mean
type truncNormal struct {
	normal
	trunc float64
}

// TruncNormal returns an RNG with a normal distribution that is cut off at 2 standard deviations
// on either side. Mean, SD and the cut-off (Trunc) may be changed.
func TruncNormal() *truncNormal {
	return &truncNormal{normal: normal{mean: 0, sd: 1}, trunc: 2}
}

func (t *truncNormal) SD(sd float64) *truncNormal {
	t.sd = sd
	return t
}

func (t *truncNormal) Mean(mean float64) *truncNormal {
	t.mean = mean
	return t
}

// Trunc sets the number of standard deviations to keep on either side. It panics if sds <= 0.
func (t *truncNormal) Trunc(sds float64) *truncNormal {
	if sds <= 0 {
		panic("initializers: truncation must be > 0 standard deviations")
	}

	t.trunc = sds
	return t
}

func (t *truncNormal) Gen(rng *rand.Rand) float64 {
	v := rng.NormFloat64()
	for v < -t.trunc || v > t.trunc {
		v = rng.NormFloat64()
	}

	return t.mean + t.sd*v
}
