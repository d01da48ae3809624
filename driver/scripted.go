package driver

import (
	"github.com/pkg/errors"

	"github.com/vuolleko/FormulaAI/ann"
)

// Scripted is a rule-based Policy. It reads the view out of the observation: it accelerates up to
// CruiseSpeed while the straight-ahead line is clear, brakes when the near half of that line is
// blocked and turns toward the side with more visible track whenever the line is not clear.
//
// Angle 0 of the view is the rightmost one.
type Scripted struct {
	Encoder     *Encoder
	CruiseSpeed float64
}

func (s *Scripted) DecideAction(in Sensors) ([]float64, error) {
	if len(in.Vector) != s.Encoder.Size() {
		return nil, errors.WithStack(ann.SizeMismatchError{Expected: s.Encoder.Size(), Got: len(in.Vector), Name: "observation"})
	}

	angles, dists := s.Encoder.Angles(), s.Encoder.Distances()
	centre := angles / 2

	var ctl Controls

	clear, nearBlocked := true, false
	for d := 0; d < dists; d++ {
		if s.Encoder.Blocked(in.Vector, centre, d) {
			clear = false
			if d < (dists+1)/2 {
				nearBlocked = true
			}
		}
	}

	ctl.Accelerate = clear && in.Speed < s.CruiseSpeed
	ctl.Brake = nearBlocked && in.Speed > 0

	if !clear {
		// with an odd number of angles, the centre line belongs to neither side
		right, left := s.open(in.Vector, 0, centre), s.open(in.Vector, angles-centre, angles)

		if left >= right {
			ctl.Left = true
		} else {
			ctl.Right = true
		}
	}

	return ctl.Vector(), nil
}

// open counts the visible points over the angles in [from, to)
func (s *Scripted) open(obs []float64, from, to int) int {
	n := 0
	for a := from; a < to; a++ {
		for d := 0; d < s.Encoder.Distances(); d++ {
			if !s.Encoder.Blocked(obs, a, d) {
				n++
			}
		}
	}

	return n
}
