package driver

import "github.com/vuolleko/FormulaAI/qlearn"

// The indexes of the actions in an action vector
const (
	Accelerate int = iota
	Brake
	TurnLeft
	TurnRight

	// NumActions is the length of every action vector
	NumActions
)

// Controls are the inputs applied to a car on one tick.
type Controls struct {
	Accelerate, Brake, Left, Right bool
}

// Decode turns an action vector into Controls. Any value above 0.5 counts as pressed.
func Decode(action []float64) Controls {
	pressed := func(i int) bool { return i < len(action) && action[i] > 0.5 }

	return Controls{
		Accelerate: pressed(Accelerate),
		Brake:      pressed(Brake),
		Left:       pressed(TurnLeft),
		Right:      pressed(TurnRight),
	}
}

// Vector returns the action vector of the Controls, with 1 for each pressed input.
func (c Controls) Vector() []float64 {
	v := make([]float64, NumActions)
	for i, b := range []bool{c.Accelerate, c.Brake, c.Left, c.Right} {
		if b {
			v[i] = 1
		}
	}

	return v
}

// Threshold returns a copy of v with every value above level set to 1 and the rest to 0.
func Threshold(v []float64, level float64) []float64 {
	out := make([]float64, len(v))
	for i := range v {
		if v[i] > level {
			out[i] = 1
		}
	}

	return out
}

// OneHot returns the action vector that only has the given action pressed.
func OneHot(action int) []float64 {
	return qlearn.OneHot(action, NumActions)
}
