package hyperparams

import "sort"

type step struct {
	from  int
	value float64
}

// stepper is kept sorted by the first iteration of each step
type stepper []step

// Step returns a HyperParameter that starts at base and changes at the iterations given by Add.
func Step(base float64) *stepper {
	st := stepper{{0, base}}
	return &st
}

// Add adds a step: from iteration 'iter' onwards, the value is 'value'. Steps may be added in any
// order. A step at an iteration that already has one replaces it.
func (s *stepper) Add(iter int, value float64) *stepper {
	i := sort.Search(len(*s), func(i int) bool { return (*s)[i].from >= iter })
	if i < len(*s) && (*s)[i].from == iter {
		(*s)[i].value = value
		return s
	}

	*s = append(*s, step{})
	copy((*s)[i+1:], (*s)[i:])
	(*s)[i] = step{iter, value}
	return s
}

func (s *stepper) TypeString() string {
	return "step"
}

func (s *stepper) Value(iter int) float64 {
	// the first step starting after iter; the one before it applies
	i := sort.Search(len(*s), func(i int) bool { return (*s)[i].from > iter })
	if i == 0 {
		return (*s)[0].value
	}
	return (*s)[i-1].value
}
