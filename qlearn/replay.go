package qlearn

import (
	"math/rand"
)

// Experience is a single transition: the observation an action was chosen from, the index of
// that action, the observation that followed and the reward given for it.
type Experience struct {
	Prev   []float64
	Action int
	Next   []float64
	Reward float64
}

// Replay is a fixed-capacity store of Experiences. Once full, every Push evicts the oldest
// record.
type Replay struct {
	records []Experience
	// index of the oldest record once the buffer is full
	head int
	cap  int
}

// NewReplay returns an empty Replay that holds at most 'capacity' records. Capacity is raised
// to 1 if smaller.
func NewReplay(capacity int) *Replay {
	if capacity < 1 {
		capacity = 1
	}

	return &Replay{
		records: make([]Experience, 0, capacity),
		cap:     capacity,
	}
}

func (r *Replay) Cap() int {
	return r.cap
}

func (r *Replay) Len() int {
	return len(r.records)
}

// Push appends an Experience. If the buffer was already full, the record it replaced is returned
// along with true.
func (r *Replay) Push(e Experience) (evicted Experience, ok bool) {
	if len(r.records) < r.cap {
		r.records = append(r.records, e)
		return Experience{}, false
	}

	evicted = r.records[r.head]
	r.records[r.head] = e
	r.head = (r.head + 1) % r.cap
	return evicted, true
}

// At returns the i-th record, counting from the oldest.
func (r *Replay) At(i int) Experience {
	return r.records[(r.head+i)%len(r.records)]
}

// Sample draws min(n, Len()) distinct records uniformly at random, without replacement.
func (r *Replay) Sample(rng *rand.Rand, n int) []Experience {
	if n > len(r.records) {
		n = len(r.records)
	}
	if n <= 0 {
		return nil
	}

	idxs := rng.Perm(len(r.records))[:n]
	sample := make([]Experience, n)
	for i, idx := range idxs {
		sample[i] = r.records[idx]
	}

	return sample
}
