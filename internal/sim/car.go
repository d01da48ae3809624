package sim

import (
	"math"

	"github.com/vuolleko/FormulaAI/driver"
)

// Kinematics are the handling properties shared by every car.
type Kinematics struct {
	Acceleration float64
	Braking      float64
	TurnSpeed    float64
	MaxSpeed     float64
}

// Car is a point moving on the track. Direction is in radians, counter-clockwise from the x axis
// with y growing downward, as on screen.
type Car struct {
	Name string

	X, Y      float64
	Direction float64
	Speed     float64

	// JustReset is set by the Update that put the car back at the start
	JustReset bool
	Crashes   int
	Distance  float64

	startX, startY, startDir float64
	kin                      Kinematics
}

func NewCar(name string, x, y, direction float64, kin Kinematics) *Car {
	return &Car{
		Name:      name,
		X:         x,
		Y:         y,
		Direction: direction,
		startX:    x,
		startY:    y,
		startDir:  direction,
		kin:       kin,
	}
}

// Apply changes speed and direction according to the controls. Speed stays within
// [0, MaxSpeed].
func (c *Car) Apply(ctl driver.Controls) {
	if ctl.Accelerate {
		c.Speed += c.kin.Acceleration
	}
	if ctl.Brake {
		c.Speed -= c.kin.Braking
	}
	c.Speed = math.Max(0, math.Min(c.kin.MaxSpeed, c.Speed))

	if ctl.Left {
		c.Direction += c.kin.TurnSpeed
	}
	if ctl.Right {
		c.Direction -= c.kin.TurnSpeed
	}
}

// Update moves the car one tick forward. A car that ends up off the track is put back at its
// start, stopped.
func (c *Car) Update(t *Track) {
	c.JustReset = false

	c.X += math.Cos(c.Direction) * c.Speed
	c.Y -= math.Sin(c.Direction) * c.Speed
	c.Distance += c.Speed

	if t.OffTrack(int(math.Floor(c.X)), int(math.Floor(c.Y))) {
		c.X, c.Y, c.Direction = c.startX, c.startY, c.startDir
		c.Speed = 0
		c.JustReset = true
		c.Crashes++
	}
}
