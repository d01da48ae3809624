// Package driver provides the policies that control the cars: a scripted driver, a network that
// learns to imitate another policy, and a Q-learning driver.
package driver

// Sensors is everything a Policy is given on one tick.
type Sensors struct {
	// Vector is the observation built by an Encoder
	Vector []float64

	// Speed is the forward speed of the car, in the units of the simulation
	Speed float64

	// Reset is whether the car was put back to the start on this tick
	Reset bool
}

// Policy decides the action of a car, once per tick. The returned action vector has length
// NumActions.
type Policy interface {
	DecideAction(Sensors) ([]float64, error)
}
