package driver

import (
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestThreshold(t *testing.T) {
	got := Threshold([]float64{0.2, 0.5, 0.51, 0.99}, 0.5)
	if want := []float64{0, 0, 1, 1}; !floats.Equal(got, want) {
		t.Errorf("Threshold = %v, want %v", got, want)
	}
}

func TestControls(t *testing.T) {
	cases := []struct {
		action []float64
		want   Controls
	}{
		{[]float64{1, 0, 0, 0}, Controls{Accelerate: true}},
		{[]float64{0, 0.9, 0.2, 0.7}, Controls{Brake: true, Right: true}},
		{[]float64{0, 0, 1, 0}, Controls{Left: true}},
		{nil, Controls{}},
	}

	for _, c := range cases {
		if got := Decode(c.action); got != c.want {
			t.Errorf("Decode(%v) = %+v, want %+v", c.action, got, c.want)
		}
	}

	if v := (Controls{Accelerate: true, Left: true}).Vector(); !floats.Equal(v, []float64{1, 0, 1, 0}) {
		t.Errorf("Vector() = %v", v)
	}

	if v := OneHot(TurnRight); !floats.Equal(v, []float64{0, 0, 0, 1}) {
		t.Errorf("OneHot(TurnRight) = %v", v)
	}
}
