// Package sim is a headless stand-in for the race: a generated ring track, car kinematics and the
// view a car has of the track. It renders nothing.
package sim

import (
	"github.com/pkg/errors"

	"github.com/vuolleko/FormulaAI/driver"
)

// margin between the track and the edges of the map
const margin = 10

// Track is a boolean mask of the points that are off the track.
type Track struct {
	grid     *driver.Grid
	offTrack []bool

	// the start line runs from (startX, startMinY) to (startX, startMaxY)
	startX               float64
	startMinY, startMaxY float64
}

// NewRing generates an elliptic ring track of the given width, filling a map of width x height.
func NewRing(width, height int, trackWidth float64) (*Track, error) {
	ao, bo := float64(width)/2-margin, float64(height)/2-margin
	ai, bi := ao-trackWidth, bo-trackWidth
	if ai <= 0 || bi <= 0 {
		return nil, errors.Errorf("Track of width %v does not fit a %dx%d map", trackWidth, width, height)
	}

	t := &Track{
		grid:      driver.NewGrid(width, height),
		startX:    float64(width) / 2,
		startMinY: float64(height)/2 + bi,
		startMaxY: float64(height)/2 + bo,
	}
	t.offTrack = make([]bool, t.grid.Size())

	cx, cy := float64(width)/2, float64(height)/2
	p := make([]int, 2)
	for {
		dx, dy := float64(p[0])+0.5-cx, float64(p[1])+0.5-cy
		outer := (dx*dx)/(ao*ao) + (dy*dy)/(bo*bo)
		inner := (dx*dx)/(ai*ai) + (dy*dy)/(bi*bi)
		t.offTrack[t.grid.Index(p)] = outer > 1 || inner < 1

		if !t.grid.Increment(p) {
			break
		}
	}

	return t, nil
}

func (t *Track) Width() int {
	return t.grid.Dim(0)
}

func (t *Track) Height() int {
	return t.grid.Dim(1)
}

// OffTrack returns whether the point is off the track. Every point outside the map is.
func (t *Track) OffTrack(x, y int) bool {
	if x < 0 || y < 0 || x >= t.Width() || y >= t.Height() {
		return true
	}

	return t.offTrack[t.grid.Index([]int{x, y})]
}

// Start returns the starting points of n cars, spread evenly over the start line, and the
// direction they all face.
func (t *Track) Start(n int) (xs, ys []float64, direction float64) {
	step := (t.startMaxY - t.startMinY) / float64(n)
	for i := 0; i < n; i++ {
		xs = append(xs, t.startX)
		ys = append(ys, t.startMinY+step*(float64(i)+0.5))
	}

	// the bottom of the ring is driven left to right
	return xs, ys, 0
}
