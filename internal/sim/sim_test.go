package sim

import (
	"math"
	"testing"

	"github.com/vuolleko/FormulaAI/driver"
)

func testTrack(t *testing.T) *Track {
	t.Helper()

	tr, err := NewRing(400, 300, 60)
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

var kin = Kinematics{Acceleration: 0.1, Braking: 0.2, TurnSpeed: 0.05236, MaxSpeed: 5}

func TestRing(t *testing.T) {
	tr := testTrack(t)

	cases := []struct {
		x, y int
		off  bool
	}{
		{200, 150, true},  // infield
		{0, 0, true},      // corner
		{-5, 100, true},   // outside the map
		{200, 265, false}, // bottom straight
		{200, 35, false},  // top straight
		{25, 150, false},  // left side
	}

	for _, c := range cases {
		if got := tr.OffTrack(c.x, c.y); got != c.off {
			t.Errorf("OffTrack(%d, %d) = %v, want %v", c.x, c.y, got, c.off)
		}
	}

	xs, ys, _ := tr.Start(3)
	for i := range xs {
		if tr.OffTrack(int(xs[i]), int(ys[i])) {
			t.Errorf("start position %d (%v, %v) is off the track", i, xs[i], ys[i])
		}
	}
	if !(ys[0] < ys[1] && ys[1] < ys[2]) {
		t.Errorf("start positions are not spread over the line: %v", ys)
	}

	if _, err := NewRing(100, 100, 60); err == nil {
		t.Error("expected an error for a track that does not fit")
	}
}

func TestCarResetsWhenLeavingTrack(t *testing.T) {
	tr := testTrack(t)
	xs, ys, dir := tr.Start(1)
	car := NewCar("test", xs[0], ys[0], dir, kin)

	// turn to face the outer edge and drive into it
	car.Direction = -math.Pi / 2
	for i := 0; i < 200 && !car.JustReset; i++ {
		car.Apply(driver.Controls{Accelerate: true})
		car.Update(tr)
	}

	if !car.JustReset {
		t.Fatal("car never left the track")
	}
	if car.Crashes != 1 || car.Speed != 0 || car.X != xs[0] || car.Y != ys[0] || car.Direction != dir {
		t.Errorf("car not reset to the start: %+v", car)
	}

	car.Update(tr)
	if car.JustReset {
		t.Error("JustReset should only be set on the tick of the reset")
	}
}

func TestCarKinematics(t *testing.T) {
	car := NewCar("test", 0, 0, 0, kin)

	for i := 0; i < 100; i++ {
		car.Apply(driver.Controls{Accelerate: true})
	}
	if car.Speed != kin.MaxSpeed {
		t.Errorf("speed = %v, want the cap %v", car.Speed, kin.MaxSpeed)
	}

	for i := 0; i < 100; i++ {
		car.Apply(driver.Controls{Brake: true})
	}
	if car.Speed != 0 {
		t.Errorf("speed = %v, want 0", car.Speed)
	}

	car.Apply(driver.Controls{Left: true})
	if car.Direction != kin.TurnSpeed {
		t.Errorf("direction after a left turn = %v", car.Direction)
	}
}

func TestLook(t *testing.T) {
	tr := testTrack(t)
	xs, ys, dir := tr.Start(1)
	car := NewCar("test", xs[0], ys[0], dir, kin)

	v := NewViewer(180, 3, 5, 80, 4)
	view := v.Look(tr, car)

	if len(view) != 3 || len(view[0]) != 4 {
		t.Fatalf("view has shape %dx%d, want 3x4", len(view), len(view[0]))
	}

	// looking right from the bottom straight is looking down, out of the ring
	if !view[0][3] {
		t.Error("far right should be off the track")
	}
	// looking left is looking up into the infield
	if !view[2][3] {
		t.Error("far left should be off the track")
	}
	if view[1][0] {
		t.Error("just ahead should be on the track")
	}
}
