package driver

import "testing"

func TestGridVisitsEverySlotInOrder(t *testing.T) {
	g := NewGrid(4, 3, 2)
	if g.Size() != 24 {
		t.Fatalf("Size() = %d, want 24", g.Size())
	}

	cell := make([]int, 3)
	for i := 0; i < g.Size(); i++ {
		if idx := g.Index(cell); idx != i {
			t.Fatalf("cell %v has index %d, want %d", cell, idx, i)
		}

		more := g.Increment(cell)
		if more != (i < g.Size()-1) {
			t.Fatalf("Increment after index %d returned %v", i, more)
		}
	}

	// stays at the last cell once it runs out
	if cell[0] != 3 || cell[1] != 2 || cell[2] != 1 {
		t.Errorf("cell after the end = %v, want [3 2 1]", cell)
	}
}

func TestGridFirstAxisIsContiguous(t *testing.T) {
	g := NewGrid(5, 3)

	cases := []struct {
		cell []int
		want int
	}{
		{[]int{0, 0}, 0},
		{[]int{1, 0}, 1},
		{[]int{4, 0}, 4},
		{[]int{0, 1}, 5},
		{[]int{2, 2}, 12},
	}

	for _, c := range cases {
		if idx := g.Index(c.cell); idx != c.want {
			t.Errorf("Index(%v) = %d, want %d", c.cell, idx, c.want)
		}
	}

	if g.Dim(0) != 5 || g.Dim(1) != 3 {
		t.Errorf("Dim returned %d, %d", g.Dim(0), g.Dim(1))
	}

	single := NewGrid(1)
	cell := []int{0}
	if single.Size() != 1 || single.Increment(cell) || cell[0] != 0 {
		t.Errorf("single-cell grid: size %d, cell %v", single.Size(), cell)
	}
}
