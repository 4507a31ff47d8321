package buffer

import "github.com/drakos74/polyfit/internal/math"

// Ring is a ring buffer keeping the last x samples
type Ring struct {
	index  int
	count  int
	values []math.Sample
}

// NewRing creates a new ring with the given buffer size.
func NewRing(size int) *Ring {
	if size < 1 {
		size = 1
	}
	return &Ring{
		values: make([]math.Sample, size),
	}
}

// Size returns the number of samples held within the ring.
func (r *Ring) Size() int {
	if r.count < len(r.values) {
		return r.count
	}
	return len(r.values)
}

// Cap returns the capacity of the ring.
func (r *Ring) Cap() int {
	return len(r.values)
}

// Push adds a sample to the ring, overwriting the oldest one when full.
func (r *Ring) Push(s math.Sample) {
	r.values[r.index] = s
	r.index = r.next(r.index)
	r.count++
}

func (r *Ring) next(index int) int {
	return (index + 1) % len(r.values)
}

// Get returns the ring samples from the oldest to the newest.
func (r *Ring) Get() []math.Sample {
	l := r.Size()
	v := make([]math.Sample, l)
	for i := 0; i < l; i++ {
		idx := i
		if r.count > len(r.values) {
			idx = (r.index + i) % len(r.values)
		}
		v[i] = r.values[idx]
	}
	return v
}
