package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/drakos74/polyfit/internal/math"
)

func TestRing_Push(t *testing.T) {
	size := 10

	ring := NewRing(size)

	for i := 0; i < 1000; i++ {
		ring.Push(math.Sample{X: float64(i), Y: float64(i)})
		if i > size-1 {
			assert.Equal(t, size, ring.Size())
		} else {
			assert.Equal(t, i+1, ring.Size())
		}
	}
}

func TestRing_Get(t *testing.T) {

	size := 3

	ring := NewRing(size)

	for i := 0; i < 100; i++ {
		ring.Push(math.Sample{X: float64(i)})

		values := ring.Get()

		if i > size-1 {
			assert.Equal(t, size, len(values))
			assert.Equal(t, float64(i), values[2].X)
			assert.Equal(t, float64(i-1), values[1].X)
			assert.Equal(t, float64(i-2), values[0].X)
		} else {
			assert.Equal(t, i+1, len(values))
			assert.Equal(t, float64(i), values[i].X)
		}

	}

}

func TestRing_MinSize(t *testing.T) {
	ring := NewRing(0)
	assert.Equal(t, 1, ring.Cap())
	ring.Push(math.Sample{X: 1})
	ring.Push(math.Sample{X: 2})
	assert.Equal(t, []math.Sample{{X: 2}}, ring.Get())
}
