package sim

import "math"

// Viewer samples the track ahead of a car along a fan of directions, at a series of distances.
type Viewer struct {
	angles    []float64
	distances []float64
}

// NewViewer returns a Viewer of n directions spread evenly over 'angle' degrees centred on the
// heading of the car, each sampled at m distances from minDist to maxDist.
//
// Direction 0 is the rightmost one. A single direction looks straight ahead.
func NewViewer(angle float64, n int, minDist, maxDist float64, m int) *Viewer {
	half := angle / 2 * math.Pi / 180
	angles := []float64{0}
	if n > 1 {
		angles = linspace(-half, half, n)
	}

	return &Viewer{angles: angles, distances: linspace(minDist, maxDist, m)}
}

// Look returns, for every direction and distance, whether that point is off the track.
func (v *Viewer) Look(t *Track, c *Car) [][]bool {
	view := make([][]bool, len(v.angles))
	for a, angle := range v.angles {
		view[a] = make([]bool, len(v.distances))

		cos, sin := math.Cos(c.Direction+angle), math.Sin(c.Direction+angle)
		for d, dist := range v.distances {
			x := int(math.Floor(c.X + cos*dist))
			y := int(math.Floor(c.Y - sin*dist))
			view[a][d] = t.OffTrack(x, y)
		}
	}

	return view
}

// linspace gives n evenly spaced values from lo to hi; a single value is hi
func linspace(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{hi}
	}

	vals := make([]float64, n)
	for i := range vals {
		vals[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}

	return vals
}
