package driver

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/vuolleko/FormulaAI/ann"
)

func view(angles, dists int, blocked ...[2]int) [][]bool {
	v := make([][]bool, angles)
	for a := range v {
		v[a] = make([]bool, dists)
	}
	for _, b := range blocked {
		v[b[0]][b[1]] = true
	}
	return v
}

func TestEncode(t *testing.T) {
	enc, err := NewEncoder(10, 3, 4)
	if err != nil {
		t.Fatal(err)
	}

	if enc.Size() != 13 {
		t.Fatalf("Size() = %d, want 13", enc.Size())
	}

	obs, err := enc.Encode(2.5, view(3, 4, [2]int{0, 3}, [2]int{2, 1}))
	if err != nil {
		t.Fatal(err)
	}

	if obs[0] != 0.25 {
		t.Errorf("speed slot = %v, want 0.25", obs[0])
	}

	ones := 0
	for _, v := range obs[1:] {
		if v == 1 {
			ones++
		}
	}
	if ones != 2 {
		t.Errorf("%d blocked slots, want 2", ones)
	}

	// angle-major: angle 0 distance 3, then angle 2 distance 1
	if obs[1+3] != 1 || obs[1+2*4+1] != 1 {
		t.Errorf("blocked points in the wrong slots: %v", obs)
	}

	if !enc.Blocked(obs, 0, 3) || !enc.Blocked(obs, 2, 1) || enc.Blocked(obs, 1, 1) {
		t.Error("Blocked does not agree with Encode")
	}
}

func TestEncodeRejectsWrongView(t *testing.T) {
	enc, err := NewEncoder(10, 3, 4)
	if err != nil {
		t.Fatal(err)
	}

	for _, v := range [][][]bool{view(2, 4), view(3, 5)} {
		_, err := enc.Encode(1, v)
		if _, ok := errors.Cause(err).(ann.SizeMismatchError); !ok {
			t.Errorf("expected SizeMismatchError, got %v", err)
		}
	}

	if _, err = NewEncoder(0, 3, 3); err == nil {
		t.Error("expected error for max speed 0")
	}
}
