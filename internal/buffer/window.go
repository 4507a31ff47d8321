package buffer

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/drakos74/polyfit/internal/math"
)

// Window keeps the latest samples of a stream and fits polynomials on top of them.
// It is safe for concurrent use.
type Window struct {
	mutex *sync.RWMutex
	ring  *Ring
	trace bool
}

// NewWindow creates a new window holding at most size samples.
func NewWindow(size int) *Window {
	return &Window{
		mutex: new(sync.RWMutex),
		ring:  NewRing(size),
	}
}

// Trace enables logging of every fit.
func (w *Window) Trace() *Window {
	w.trace = true
	return w
}

// Push adds the samples to the window.
func (w *Window) Push(samples ...math.Sample) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	for _, s := range samples {
		w.ring.Push(s)
	}
}

// Size returns the number of samples in the window.
func (w *Window) Size() int {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.ring.Size()
}

// Samples returns a copy of the window samples, oldest first.
func (w *Window) Samples() []math.Sample {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.ring.Get()
}

// Polynomial evaluates the polynomial regression
// for the given polynomial degree on the current window content.
func (w *Window) Polynomial(degree int) (math.Result, error) {
	samples := w.Samples()
	if len(samples) < degree+1 {
		return math.Result{}, fmt.Errorf("not enough samples (%d out of %d) to apply polynomial regression for %d: %w",
			len(samples),
			degree+1,
			degree,
			math.SingularSystemErr)
	}
	result, err := math.NewRegression(degree).Fit(samples)
	if w.trace {
		log.Info().
			Err(err).
			Int("samples", len(samples)).
			Str("coefficients", fmt.Sprintf("%+v", result.Coefficients)).
			Float64("r2", result.RSquared).
			Int("degree", degree).
			Msg("fit")
	}
	return result, err
}
