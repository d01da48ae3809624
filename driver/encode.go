package driver

import (
	"github.com/pkg/errors"

	"github.com/vuolleko/FormulaAI/ann"
)

// Encoder turns the state of a car into the observation vector given to a network. Slot 0 holds
// the speed divided by MaxSpeed; the rest holds the view, 1 where the track is not visible,
// indexed by a Grid of [distance, angle].
type Encoder struct {
	MaxSpeed float64

	grid *Grid
}

// NewEncoder returns an Encoder for views of the given number of angles and distances.
func NewEncoder(maxSpeed float64, angles, distances int) (*Encoder, error) {
	if maxSpeed <= 0 {
		return nil, errors.Errorf("Max speed must be > 0 (%v)", maxSpeed)
	} else if angles < 1 || distances < 1 {
		return nil, errors.Errorf("View must be at least 1x1 (%dx%d)", angles, distances)
	}

	return &Encoder{MaxSpeed: maxSpeed, grid: NewGrid(distances, angles)}, nil
}

// Size returns the length of the observation vectors.
func (e *Encoder) Size() int {
	return 1 + e.grid.Size()
}

func (e *Encoder) Angles() int {
	return e.grid.Dim(1)
}

func (e *Encoder) Distances() int {
	return e.grid.Dim(0)
}

// Encode builds the observation vector. view[a][d] is whether the point at angle a and distance d
// is off the track.
func (e *Encoder) Encode(speed float64, view [][]bool) ([]float64, error) {
	if len(view) != e.Angles() {
		return nil, errors.WithStack(ann.SizeMismatchError{Expected: e.Angles(), Got: len(view), Name: "view angles"})
	}
	for a := range view {
		if len(view[a]) != e.Distances() {
			return nil, errors.Wrapf(ann.SizeMismatchError{Expected: e.Distances(), Got: len(view[a]), Name: "view distances"},
				"Angle %d of view", a)
		}
	}

	obs := make([]float64, e.Size())
	obs[0] = speed / e.MaxSpeed

	p := make([]int, 2)
	for {
		if view[p[1]][p[0]] {
			obs[1+e.grid.Index(p)] = 1
		}

		if !e.grid.Increment(p) {
			break
		}
	}

	return obs, nil
}

// Blocked returns whether the observation marks the point at the given angle and distance as off
// the track.
func (e *Encoder) Blocked(obs []float64, angle, distance int) bool {
	return obs[1+e.grid.Index([]int{distance, angle})] > 0.5
}
