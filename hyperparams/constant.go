// Package hyperparams provides values that change (or don't) over the course of training, such
// as the learning rate of an online learner.
package hyperparams

// HyperParameter gives a value for the given iteration of training.
type HyperParameter interface {
	// TypeString returns the name of the type of HyperParameter, e.g. "constant".
	TypeString() string

	// Value returns the value at the given iteration. Iterations start at 0.
	Value(iter int) float64
}

type constant float64

// Constant returns a HyperParameter that is always the given value.
func Constant(value float64) *constant {
	c := constant(value)
	return &c
}

func (c constant) TypeString() string {
	return "constant"
}

func (c *constant) Value(iter int) float64 {
	return float64(*c)
}
